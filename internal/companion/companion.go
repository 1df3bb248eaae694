// Package companion talks to the voice companion that cheers the player on.
package companion

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotReady is returned by sends before the companion session is open.
var ErrNotReady = errors.New("companion not ready")

const (
	// DefaultName is the persona name shown while the session connects.
	DefaultName = "Sparky"
	// DefaultVoice is the prebuilt voice requested at setup.
	DefaultVoice = "Puck"
	// DefaultPersona is the system instruction sent at setup.
	DefaultPersona = `You are "Sparky", a magical golden dragon companion for kids. ` +
		`Your job is to encourage them as they trace letters of the alphabet using hand gestures. ` +
		`Keep your instructions very short, enthusiastic, and simple. ` +
		`When they finish a letter, celebrate with excitement! ` +
		`You can "see" their progress through the video frames sent to you.`
)

// Companion receives narrative cues and frame snapshots. Implementations
// must be safe for concurrent use.
type Companion interface {
	SendText(ctx context.Context, text string) error
	SendImage(ctx context.Context, mimeType string, data []byte) error
	Close() error
}

// Setup describes the persona requested when a session opens.
type Setup struct {
	Name    string
	Voice   string
	Persona string
}

// DefaultSetup returns the golden dragon persona.
func DefaultSetup() Setup {
	return Setup{Name: DefaultName, Voice: DefaultVoice, Persona: DefaultPersona}
}

// AnnounceCue asks the companion to introduce glyph g.
func AnnounceCue(g rune) string {
	return fmt.Sprintf("Let's trace the letter %c!", g)
}

// SuccessCue asks the companion to praise a finished glyph.
func SuccessCue(g rune) string {
	return fmt.Sprintf("The child successfully traced %c! Say something super positive!", g)
}

// FinaleCue asks for the end-of-alphabet celebration.
func FinaleCue() string {
	return "The child finished the WHOLE alphabet! Give a massive grand final celebration speech!"
}

// Nop drops everything. It stands in when no companion is configured.
type Nop struct{}

// SendText implements Companion.
func (Nop) SendText(context.Context, string) error { return nil }

// SendImage implements Companion.
func (Nop) SendImage(context.Context, string, []byte) error { return nil }

// Close implements Companion.
func (Nop) Close() error { return nil }
