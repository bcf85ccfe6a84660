package domain

import (
	"strconv"
	"sync"
	"time"
)

// Clock abstracts time retrieval so creation dates are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator produces entity identifiers.
type IDGenerator interface {
	New() string
}

// TimestampIDs derives ids from the clock in milliseconds.
// Two calls within the same millisecond get increasing values, so ids stay
// unique inside one process; they are not globally unique.
type TimestampIDs struct {
	Clock Clock

	mu   sync.Mutex
	last int64
}

// NewTimestampIDs returns a generator backed by clock (RealClock when nil).
func NewTimestampIDs(clock Clock) *TimestampIDs {
	if clock == nil {
		clock = RealClock{}
	}
	return &TimestampIDs{Clock: clock}
}

func (g *TimestampIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.Clock.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
