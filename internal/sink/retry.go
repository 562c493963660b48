package sink

import (
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Connection establishment retries on transient network-class Postgres
// errors with fixed delays; anything else fails fast and is left to the
// pipeline's own requeue cycle.
var retryDelays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

func withRetry(fn func() error, isRetriable func(error) bool) error {
	var err error
	for attempt := 0; attempt <= len(retryDelays); attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isRetriable(err) {
			return err
		}
		if attempt < len(retryDelays) {
			time.Sleep(retryDelays[attempt])
		}
	}
	return err
}

func withPGRetry(fn func() error) error {
	return withRetry(fn, isRetriable)
}

// isRetriable classifies errors surfaced by the pgx/v5 stdlib driver.
func isRetriable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ConnectionException,
			pgerrcode.ConnectionDoesNotExist,
			pgerrcode.ConnectionFailure:
			return true
		}
	}
	return false
}
