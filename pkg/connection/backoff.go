package connection

import (
	"math/rand"
	"sync"
	"time"
)

// Default scan retry pacing.
const (
	// InitialBackoff is the delay before the first retry.
	InitialBackoff = 500 * time.Millisecond

	// MaxBackoff caps the retry delay.
	MaxBackoff = 10 * time.Second

	// BackoffMultiplier is the factor by which backoff increases.
	BackoffMultiplier = 2.0

	// JitterFactor is the maximum jitter as a fraction of base delay.
	JitterFactor = 0.25
)

// Backoff calculates exponential backoff delays with jitter.
// It is safe for concurrent use.
type Backoff struct {
	mu sync.Mutex

	current    time.Duration
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64
	attempts   int
}

// BackoffConfig customizes backoff parameters. Zero fields take the
// package defaults.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// NewBackoff creates a backoff calculator with default settings.
func NewBackoff() *Backoff {
	return NewBackoffWithConfig(BackoffConfig{Jitter: JitterFactor})
}

// NewBackoffWithConfig creates a backoff calculator with custom settings.
func NewBackoffWithConfig(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialBackoff
	}
	if cfg.Max <= 0 {
		cfg.Max = MaxBackoff
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = BackoffMultiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}

	return &Backoff{
		current:    cfg.Initial,
		initial:    cfg.Initial,
		max:        cfg.Max,
		multiplier: cfg.Multiplier,
		jitter:     cfg.Jitter,
	}
}

// Next returns the next delay (with jitter) and advances the backoff.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.addJitter(b.current)

	b.attempts++
	b.current = min(time.Duration(float64(b.current)*b.multiplier), b.max)

	return delay
}

// Reset returns to the initial delay. Call it after a successful scan.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.initial
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// Current returns the current base delay (without jitter).
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Backoff) addJitter(d time.Duration) time.Duration {
	if b.jitter <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*b.jitter*rand.Float64())
}
