// Package circuit provides a consecutive-failure circuit breaker for calls to
// optional dependencies.
package circuit

import (
	"sync"
	"time"
)

const (
	defaultFailureThreshold = 5
	defaultCooldown         = 30 * time.Second
)

// State is the breaker position.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Change reports a transition caused by a Record call.
type Change struct {
	Opened bool
	Closed bool
}

// Breaker opens after a run of consecutive failures. While open, Allow refuses
// calls until the cooldown elapses, then lets trial calls through; the first
// success closes it again and a failed trial restarts the cooldown.
type Breaker struct {
	name             string
	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	openUntil time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithCooldown sets how long the breaker stays open before allowing a trial.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// New creates a closed breaker.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: defaultFailureThreshold,
		cooldown:         defaultCooldown,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Allow reports whether a call should be attempted.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == StateClosed || !b.now().Before(b.openUntil)
}

// RecordSuccess resets the failure run and closes an open breaker.
func (b *Breaker) RecordSuccess() Change {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state == StateOpen {
		b.state = StateClosed
		return Change{Closed: true}
	}
	return Change{}
}

// RecordFailure extends the failure run, opening the breaker at the threshold.
func (b *Breaker) RecordFailure() Change {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.state == StateOpen {
		b.openUntil = b.now().Add(b.cooldown)
		return Change{}
	}
	if b.failures >= b.failureThreshold {
		b.state = StateOpen
		b.openUntil = b.now().Add(b.cooldown)
		return Change{Opened: true}
	}
	return Change{}
}

// Reset closes the breaker and forgets past failures.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.openUntil = time.Time{}
}
