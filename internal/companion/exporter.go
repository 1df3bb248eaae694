package companion

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// ExportOptions tunes frame snapshots sent to the companion.
type ExportOptions struct {
	Interval time.Duration
	MaxWidth int
	Quality  int
}

// DefaultExportOptions returns one 640px JPEG every three seconds.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Interval: 3 * time.Second, MaxWidth: 640, Quality: 50}
}

// Exporter rate-limits frame snapshots and ships them in the background.
// Failures are logged and dropped.
type Exporter struct {
	companion Companion
	opts      ExportOptions
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	last time.Time
}

// NewExporter returns an exporter sending to c.
func NewExporter(c Companion, opts ExportOptions, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{companion: c, opts: opts, logger: logger, ctx: ctx, cancel: cancel}
}

// Due reports whether an export at now would be sent. Callers check it
// before snapshotting the frame.
func (e *Exporter) Due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dueLocked(now)
}

func (e *Exporter) dueLocked(now time.Time) bool {
	if e.ctx.Err() != nil {
		return false
	}
	return e.last.IsZero() || now.Sub(e.last) > e.opts.Interval
}

// MaybeExport sends img unless the previous export was within the interval.
// img must not be modified after the call. It reports whether an export
// was started.
func (e *Exporter) MaybeExport(now time.Time, img image.Image) bool {
	e.mu.Lock()
	if !e.dueLocked(now) {
		e.mu.Unlock()
		return false
	}
	e.last = now
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		data, err := e.encode(img)
		if err != nil {
			e.logger.Debug("frame export encode failed", "err", err)
			return
		}
		if err := e.companion.SendImage(e.ctx, "image/jpeg", data); err != nil {
			e.logger.Debug("frame export send failed", "err", err)
		}
	}()
	return true
}

func (e *Exporter) encode(img image.Image) ([]byte, error) {
	if e.opts.MaxWidth > 0 && img.Bounds().Dx() > e.opts.MaxWidth {
		img = imaging.Resize(img, e.opts.MaxWidth, 0, imaging.Box)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(e.opts.Quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close cancels in-flight exports and waits for them to return.
func (e *Exporter) Close() {
	e.mu.Lock()
	e.cancel()
	e.mu.Unlock()
	e.wg.Wait()
}
