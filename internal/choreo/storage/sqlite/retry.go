package sqlite

import (
	"strings"
	"time"
)

// Busy retry bounds. With WAL and a busy_timeout these engage rarely, but
// concurrent writers (the API plus the bench tool) can still race.
const (
	maxBusyRetries = 5
	baseBusyDelay  = 10 * time.Millisecond
)

// isSQLiteBusy reports whether err is a transient SQLITE_BUSY failure.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs fn, retrying with exponential backoff while it fails
// with SQLITE_BUSY. Any other error returns immediately.
func retryOnBusy(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxBusyRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(baseBusyDelay << (attempt - 1))
		}
		err = fn()
		if err == nil || !isSQLiteBusy(err) {
			return err
		}
	}
	return err
}
