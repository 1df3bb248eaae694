package handtrack

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func handAt(x, y float64) Hand {
	var h Hand
	for i := range h {
		h[i] = Landmark{X: 0.5, Y: 0.5}
	}
	h[IndexFingerTip] = Landmark{X: x, Y: y}
	return h
}

func TestViewportFingertipMirror(t *testing.T) {
	det := Detection{FrameTime: time.Millisecond, Hands: []Hand{handAt(0.25, 0.5)}}

	plain := Viewport{Width: 1000, Height: 700}
	p, ok := plain.Fingertip(det)
	if !ok || p.X != 250 || p.Y != 350 {
		t.Fatalf("unexpected fingertip %v ok=%v", p, ok)
	}

	mirrored := Viewport{Width: 1000, Height: 700, Mirror: true}
	p, ok = mirrored.Fingertip(det)
	if !ok || p.X != 750 || p.Y != 350 {
		t.Fatalf("unexpected mirrored fingertip %v ok=%v", p, ok)
	}
}

func TestViewportNoHand(t *testing.T) {
	if _, ok := (Viewport{Width: 10, Height: 10}).Fingertip(Detection{}); ok {
		t.Fatalf("expected no fingertip without a hand")
	}
}

func TestReplayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	frames := []Detection{
		{FrameTime: 33 * time.Millisecond, Hands: []Hand{handAt(0.1, 0.2)}},
		{FrameTime: 66 * time.Millisecond},
	}
	if err := WriteReplay(path, frames); err != nil {
		t.Fatalf("write replay: %v", err)
	}
	replay, err := LoadReplay(path)
	if err != nil {
		t.Fatalf("load replay: %v", err)
	}
	first := replay.Latest()
	if first.FrameTime != 33*time.Millisecond || len(first.Hands) != 1 {
		t.Fatalf("unexpected first frame %+v", first)
	}
	if first.Hands[0][IndexFingerTip].X != 0.1 {
		t.Fatalf("unexpected fingertip %+v", first.Hands[0][IndexFingerTip])
	}
	second := replay.Latest()
	if second.FrameTime != 66*time.Millisecond || len(second.Hands) != 0 {
		t.Fatalf("unexpected second frame %+v", second)
	}
	if !replay.Done() {
		t.Fatalf("expected replay to be done")
	}
	if again := replay.Latest(); again.FrameTime != second.FrameTime {
		t.Fatalf("expected stale frame after end, got %v", again.FrameTime)
	}
}

func TestMessageRejectsShortHand(t *testing.T) {
	msg := message{T: 1, Hands: [][]Landmark{{{X: 1}}}}
	if _, err := msg.detection(); err == nil || !strings.Contains(err.Error(), "landmarks") {
		t.Fatalf("expected landmark count error, got %v", err)
	}
}

func TestFeedPublishesDetections(t *testing.T) {
	feed := NewFeed(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(feed)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if feed.Ready() {
		t.Fatalf("feed must not be ready before the first detection")
	}
	if err := conn.WriteJSON(messageFor(Detection{FrameTime: 40 * time.Millisecond, Hands: []Hand{handAt(0.3, 0.4)}})); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(message{Type: "ping", T: 1}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	var pong message
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if pong.Type != "pong" {
		t.Fatalf("expected pong, got %q", pong.Type)
	}
	// Messages on one connection are handled in order, so the detection is
	// stored before the pong was written.
	det := feed.Latest()
	if !feed.Ready() || det.FrameTime != 40*time.Millisecond || len(det.Hands) != 1 {
		t.Fatalf("unexpected latest detection %+v", det)
	}
}
