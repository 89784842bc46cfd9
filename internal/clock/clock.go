package clock

import "time"

// Clock abstracts time so cache expiry is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System is the production clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }
