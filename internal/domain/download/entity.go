package download

import (
	"time"

	"github.com/google/uuid"
)

// State of a download-gate session, derived from the clock
type State string

const (
	StateCounting State = "counting"
	StateReady    State = "ready"
)

// Session is one open download gate. The countdown is wall-clock based:
// ReadyAt fixes the moment the gate opens, so restarts and reconnects do not
// reset the timer.
type Session struct {
	Token    string    `json:"token"`
	ImageID  uuid.UUID `json:"image_id"`
	Slug     string    `json:"slug"`
	URL      string    `json:"url"`
	OpenedAt time.Time `json:"opened_at"`
	ReadyAt  time.Time `json:"ready_at"`
}

// State reports counting or ready at the given instant
func (s *Session) State(now time.Time) State {
	if now.Before(s.ReadyAt) {
		return StateCounting
	}
	return StateReady
}

// Remaining returns whole seconds left on the countdown, rounded up
func (s *Session) Remaining(now time.Time) int {
	if !now.Before(s.ReadyAt) {
		return 0
	}
	d := s.ReadyAt.Sub(now)
	secs := int(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	return secs
}
