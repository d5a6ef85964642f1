package bulkimport

import (
	"log"
	"time"

	"gatepass/internal/gperr"

	"gorm.io/gorm"
)

const (
	maxRetries   = 10
	initialDelay = time.Second
	maxDelay     = 10 * time.Second
)

// sleep is swapped out by tests.
var sleep = time.Sleep

// executeWithRetry runs fn, retrying transient lock/I/O faults with
// exponential backoff. No lock is held while sleeping: fn's transaction has
// already rolled back when the fault surfaces.
func executeWithRetry(fn func() error) error {
	delay := initialDelay
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !gperr.IsTransient(err) {
			return err
		}
		lastErr = err
		if attempt < maxRetries-1 {
			log.Printf("Storage locked (attempt %d/%d), retrying in %s...", attempt+1, maxRetries, delay)
			sleep(delay)
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}
	return lastErr
}

// resetConnection releases idle connections after a batch, bounding per-batch
// resource retention on lock-prone backends.
func resetConnection(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxIdleConns(2)
}
