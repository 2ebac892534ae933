package llm

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Breaker stops calling a failing backend. After Threshold consecutive
// failures it answers ErrUnavailable until Cooldown has elapsed, then lets a
// single probe through. Callers see the same fallback either way; the breaker
// only saves them from waiting on a backend that is down.
type Breaker struct {
	next      Generator
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
	probing  bool

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewBreaker wraps next. A threshold <= 0 disables tripping.
func NewBreaker(next Generator, threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		next:      next,
		threshold: threshold,
		cooldown:  cooldown,
		nowFunc:   time.Now,
	}
}

// Name reports the wrapped backend.
func (b *Breaker) Name() string { return b.next.Name() }

// Open reports whether calls are currently short-circuited.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isOpen() && b.nowFunc().Sub(b.openedAt) < b.cooldown
}

// Generate forwards to the wrapped backend unless the breaker is open. A
// panicking backend counts as a failure before the panic propagates.
func (b *Breaker) Generate(ctx context.Context, msgs []Message) (string, error) {
	if !b.allow() {
		return "", ErrUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			b.record(eris.Errorf("llm: %s panicked: %v", b.next.Name(), r))
			panic(r)
		}
	}()
	text, err := b.next.Generate(ctx, msgs)
	b.record(err)
	return text, err
}

func (b *Breaker) isOpen() bool {
	return b.threshold > 0 && b.failures >= b.threshold
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen() {
		return true
	}
	if b.probing || b.nowFunc().Sub(b.openedAt) < b.cooldown {
		return false
	}
	b.probing = true
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasOpen := b.isOpen()
	b.probing = false

	if err == nil {
		if wasOpen {
			zap.L().Info("llm: breaker closed", zap.String("backend", b.next.Name()))
		}
		b.failures = 0
		return
	}

	b.failures++
	if b.isOpen() {
		b.openedAt = b.nowFunc()
		if !wasOpen {
			zap.L().Warn("llm: breaker opened",
				zap.String("backend", b.next.Name()),
				zap.Int("consecutive_failures", b.failures),
				zap.Duration("cooldown", b.cooldown),
			)
		}
	}
}
