// Package clock provides an injectable time source so that every privacy,
// final-chance, and disclosure window can be tested deterministically at its
// exact boundary.
package clock

import "time"

// Clock yields the current time. All window math in the claim engine goes
// through a Clock instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// System is the wall-clock implementation used outside of tests.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. Useful as a building block in tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}

// Manual is a settable clock for tests that walk through window boundaries.
type Manual struct {
	T time.Time
}

func (m *Manual) Now() time.Time {
	return m.T
}

// Advance moves the manual clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.T = m.T.Add(d)
}

// Set pins the manual clock to t.
func (m *Manual) Set(t time.Time) {
	m.T = t
}
