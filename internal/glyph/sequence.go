package glyph

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrEmptyAlphabet is returned when a sequence would have no glyphs.
var ErrEmptyAlphabet = errors.New("alphabet is empty")

var builtinAlphabets = map[string]string{
	"latin":       "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"latin-lower": "abcdefghijklmnopqrstuvwxyz",
	"digits":      "0123456789",
}

// DefaultAlphabet is the alphabet used when none is configured.
const DefaultAlphabet = "latin"

// BuiltinAlphabets lists the names accepted by Alphabet.
func BuiltinAlphabets() []string {
	names := make([]string, 0, len(builtinAlphabets))
	for name := range builtinAlphabets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Alphabet returns a built-in alphabet by name.
func Alphabet(name string) ([]rune, bool) {
	s, ok := builtinAlphabets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return []rune(s), true
}

// LoadAlphabet reads one glyph per line from path. Blank lines and lines
// starting with '#' are skipped; a line must hold exactly one rune.
func LoadAlphabet(path string) ([]rune, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only alphabet.
			_ = cerr
		}
	}()

	var glyphs []rune
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if utf8.RuneCountInString(line) != 1 {
			return nil, fmt.Errorf("line %d: expected a single glyph, got %q", lineNo, line)
		}
		r, _ := utf8.DecodeRuneInString(line)
		glyphs = append(glyphs, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(glyphs) == 0 {
		return nil, ErrEmptyAlphabet
	}
	return glyphs, nil
}

// Shuffle returns a permutation of glyphs determined by seed.
func Shuffle(glyphs []rune, seed int64) []rune {
	out := append([]rune(nil), glyphs...)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Sequence is the ordered list of glyphs to trace and the current position.
type Sequence struct {
	glyphs []rune
	index  int
}

// NewSequence returns a sequence positioned on its first glyph.
func NewSequence(glyphs []rune) (*Sequence, error) {
	if len(glyphs) == 0 {
		return nil, ErrEmptyAlphabet
	}
	return &Sequence{glyphs: append([]rune(nil), glyphs...)}, nil
}

// Current returns the glyph being traced.
func (s *Sequence) Current() rune {
	return s.glyphs[s.index]
}

// Index returns the position of the current glyph.
func (s *Sequence) Index() int {
	return s.index
}

// Len returns the number of glyphs.
func (s *Sequence) Len() int {
	return len(s.glyphs)
}

// At returns the glyph at position i.
func (s *Sequence) At(i int) rune {
	return s.glyphs[i]
}

// IsLast reports whether the current glyph is the final one.
func (s *Sequence) IsLast() bool {
	return s.index == len(s.glyphs)-1
}

// Advance moves to the next glyph. It returns false on the last glyph.
func (s *Sequence) Advance() bool {
	if s.IsLast() {
		return false
	}
	s.index++
	return true
}

// Reset moves back to the first glyph.
func (s *Sequence) Reset() {
	s.index = 0
}

// String returns the glyphs as a string.
func (s *Sequence) String() string {
	return string(s.glyphs)
}
