package stats

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

const (
	curveLabelWidth     = 14
	terminalWidthBackup = 80
	colorGold           = "\x1b[33m"
	colorReset          = "\x1b[0m"
)

// RenderCurve prints a sparkline of values smoothed over window and fitted
// to width columns. A width of zero uses the terminal width.
func RenderCurve(w io.Writer, title string, values []float64, window, width int) error {
	if len(values) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	cols := max(1, width-curveLabelWidth)
	smoothed := resample(MovingAverage(values, window), cols)
	lo, hi := minMax(smoothed)

	line := Sparkline(smoothed)
	if useColor(w) {
		line = colorGold + line + colorReset
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", curveLabelWidth, fmt.Sprintf("%.1fs-%.1fs", lo, hi), line); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// resample stretches or averages values into exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
