package editsync

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from running and reports whether it did.
	Stop() bool
}

// Clock schedules debounce callbacks. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock uses the time package.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
