package handtrack

import (
	"fmt"
	"time"
)

// message is the JSON frame pushed by the browser tracker and stored in
// replay files.
type message struct {
	Type  string       `json:"type,omitempty"`
	T     float64      `json:"t"`
	Hands [][]Landmark `json:"hands"`
}

func (m message) detection() (Detection, error) {
	if m.T < 0 {
		return Detection{}, fmt.Errorf("negative frame time %v", m.T)
	}
	det := Detection{FrameTime: time.Duration(m.T * float64(time.Millisecond))}
	for i, raw := range m.Hands {
		if len(raw) != LandmarkCount {
			return Detection{}, fmt.Errorf("hand %d has %d landmarks, want %d", i, len(raw), LandmarkCount)
		}
		var hand Hand
		copy(hand[:], raw)
		det.Hands = append(det.Hands, hand)
	}
	return det, nil
}

func messageFor(det Detection) message {
	m := message{
		Type: "detection",
		T:    float64(det.FrameTime) / float64(time.Millisecond),
	}
	for _, hand := range det.Hands {
		m.Hands = append(m.Hands, append([]Landmark(nil), hand[:]...))
	}
	return m
}
