package companion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// frame is the JSON envelope exchanged with the companion relay.
type frame struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Voice    string `json:"voice,omitempty"`
	Persona  string `json:"persona,omitempty"`
	Text     string `json:"text,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// Socket is a Companion backed by a websocket relay. Sends fail with
// ErrNotReady until Connect succeeds.
type Socket struct {
	url    string
	setup  Setup
	dialer *websocket.Dialer
	logger *slog.Logger

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	closed  bool
	done    chan struct{}
}

// NewSocket returns an unconnected socket for url.
func NewSocket(url string, setup Setup, logger *slog.Logger) *Socket {
	if logger == nil {
		logger = slog.Default()
	}
	return &Socket{
		url:    url,
		setup:  setup,
		dialer: websocket.DefaultDialer,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Connect dials the relay and sends the persona setup.
func (s *Socket) Connect(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial companion: %w", err)
	}
	setup := frame{Type: "setup", Name: s.setup.Name, Voice: s.setup.Voice, Persona: s.setup.Persona}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(setup); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to send companion setup: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return ErrNotReady
	}
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("companion connected", "url", s.url, "name", s.setup.Name)
	go s.readLoop(conn)
	return nil
}

// Ready reports whether the session is open.
func (s *Socket) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Done is closed when the relay connection ends.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// SendText implements Companion.
func (s *Socket) SendText(ctx context.Context, text string) error {
	return s.write(ctx, frame{Type: "text", Text: text})
}

// SendImage implements Companion. data is base64 encoded on the wire.
func (s *Socket) SendImage(ctx context.Context, mimeType string, data []byte) error {
	return s.write(ctx, frame{Type: "media", MimeType: mimeType, Data: data})
}

// Close ends the session.
func (s *Socket) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.closed = true
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	s.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	s.writeMu.Unlock()
	return conn.Close()
}

func (s *Socket) write(ctx context.Context, f frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotReady
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteJSON(f); err != nil {
		return fmt.Errorf("failed to send %s to companion: %w", f.Type, err)
	}
	return nil
}

// readLoop drains replies so control frames are handled. Spoken audio is
// played by the relay; transcripts are logged.
func (s *Socket) readLoop(conn *websocket.Conn) {
	defer close(s.done)
	for {
		var reply frame
		if err := conn.ReadJSON(&reply); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("companion read failed", "err", err)
			}
			s.mu.Lock()
			if s.conn == conn {
				s.conn = nil
			}
			s.mu.Unlock()
			return
		}
		if reply.Type == "text" && reply.Text != "" {
			s.logger.Info("companion said", "text", reply.Text)
			continue
		}
		s.logger.Debug("companion reply", "type", reply.Type)
	}
}
