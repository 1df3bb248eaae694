package handtrack

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Feed receives detections from a browser-side tracker over a websocket and
// keeps the latest one.
type Feed struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.RWMutex
	latest   Detection
	received bool
	conns    map[*websocket.Conn]struct{}
}

// NewFeed returns a Feed that logs to logger.
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			// The tracker page is served from a local file or dev server.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
		conns:  map[*websocket.Conn]struct{}{},
	}
}

// Latest implements Provider.
func (f *Feed) Latest() Detection {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest
}

// Ready reports whether any detection has arrived yet.
func (f *Feed) Ready() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.received
}

// Publish stores det as the latest detection.
func (f *Feed) Publish(det Detection) {
	f.mu.Lock()
	f.latest = det
	f.received = true
	f.mu.Unlock()
}

// ServeHTTP upgrades the request and reads detection messages until the
// peer disconnects.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("landmark feed upgrade failed", "err", err)
		return
	}
	f.mu.Lock()
	f.conns[conn] = struct{}{}
	f.mu.Unlock()
	f.logger.Info("landmark feed connected", "remote", r.RemoteAddr)

	defer func() {
		f.mu.Lock()
		delete(f.conns, conn)
		f.mu.Unlock()
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.logger.Warn("landmark feed read failed", "err", err)
			}
			return
		}
		switch msg.Type {
		case "ping":
			if err := conn.WriteJSON(message{Type: "pong", T: msg.T}); err != nil {
				f.logger.Debug("landmark feed pong failed", "err", err)
			}
		case "", "detection":
			det, err := msg.detection()
			if err != nil {
				f.logger.Debug("landmark feed dropped message", "err", err)
				continue
			}
			f.Publish(det)
		default:
			f.logger.Debug("landmark feed ignored message", "type", msg.Type)
		}
	}
}

// Serve listens on addr and serves the feed at /landmarks until ctx ends.
func (f *Feed) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/landmarks", f)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	f.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Close drops every open tracker connection.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.conns {
		_ = conn.Close()
		delete(f.conns, conn)
	}
}
