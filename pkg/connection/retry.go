package connection

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrPermanent marks an error that must not be retried. Wrap it with
// fmt.Errorf("...: %w", ErrPermanent) or use Permanent.
var ErrPermanent = errors.New("permanent failure")

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() []error {
	return []error{e.err, ErrPermanent}
}

// Permanent wraps err so Retry returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// RetryConfig configures Retry.
type RetryConfig struct {
	// Backoff paces attempts. Defaults to NewBackoff().
	Backoff *Backoff

	// Clock drives the waits. Defaults to the wall clock.
	Clock clock.Clock

	// OnRetry is called before each wait with the attempt that failed.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Retry calls fn until it succeeds, fails permanently, or ctx ends. When
// ctx ends the last attempt's error is joined with ctx.Err().
func Retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.Backoff == nil {
		cfg.Backoff = NewBackoff()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	for {
		err := fn(ctx)
		if err == nil {
			cfg.Backoff.Reset()
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			return err
		}
		if ctx.Err() != nil {
			return errors.Join(ctx.Err(), err)
		}

		delay := cfg.Backoff.Next()
		if cfg.OnRetry != nil {
			cfg.OnRetry(cfg.Backoff.Attempts(), delay, err)
		}

		timer := cfg.Clock.Timer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ctx.Err(), err)
		case <-timer.C:
		}
	}
}
