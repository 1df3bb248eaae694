package handtrack

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Replay plays back recorded detections, one per Latest call. After the last
// record it keeps returning that record, which the game treats as stale.
type Replay struct {
	mu     sync.Mutex
	frames []Detection
	next   int
}

// NewReplay wraps already decoded detections.
func NewReplay(frames []Detection) *Replay {
	return &Replay{frames: frames}
}

// LoadReplay reads a JSON-lines recording, one detection message per line.
func LoadReplay(path string) (*Replay, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only recording.
			_ = cerr
		}
	}()

	var frames []Detection
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var msg message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		det, err := msg.detection()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		frames = append(frames, det)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("replay is empty")
	}
	return NewReplay(frames), nil
}

// Latest implements Provider.
func (r *Replay) Latest() Detection {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Detection{}
	}
	if r.next >= len(r.frames) {
		return r.frames[len(r.frames)-1]
	}
	det := r.frames[r.next]
	r.next++
	return det
}

// Ready reports whether the recording has frames.
func (r *Replay) Ready() bool {
	return len(r.frames) > 0
}

// Done reports whether every frame was played.
func (r *Replay) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next >= len(r.frames)
}

// WriteReplay writes detections as a JSON-lines recording.
func WriteReplay(path string, frames []Detection) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, det := range frames {
		if err := enc.Encode(messageFor(det)); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to encode detection: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return file.Close()
}
