// Package clock abstracts "now" so that time-window and trend calculations
// are deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System is the production clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a test clock pinned to a single instant.
type Fixed struct {
	FixedNow time.Time
}

func (f *Fixed) Now() time.Time {
	return f.FixedNow
}

func (f *Fixed) SetNow(now time.Time) {
	f.FixedNow = now
}
