package services

import (
	"context"
	"errors"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var ErrInitAttemptsExceeded = errors.New("routing provider: maximum initialization attempts exceeded")

// InitFunc performs one initialization attempt of the routing provider.
type InitFunc func(ctx context.Context) error

// CredentialedInit checks that apiKey yields a key before running ping.
// apiKey is consulted on every attempt.
func CredentialedInit(apiKey func() string, ping InitFunc) InitFunc {
	return func(ctx context.Context) error {
		if strings.TrimSpace(apiKey()) == "" {
			return &ports.RoutingError{Status: "MISSING_API_KEY", Message: "routing API key is not configured"}
		}
		return ping(ctx)
	}
}

// ProviderInitializer brings the routing provider to a ready state once per
// process. Concurrent callers share the in-flight attempt; failed attempts
// count against a ceiling; readiness, once reached, is permanent.
//
// Construct one at startup and pass it to every component that routes.
type ProviderInitializer struct {
	init        InitFunc
	maxAttempts int
	group       singleflight.Group

	mu       sync.Mutex
	ready    bool
	attempts int
	lastErr  error
}

func NewProviderInitializer(init InitFunc, maxAttempts int) *ProviderInitializer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &ProviderInitializer{init: init, maxAttempts: maxAttempts}
}

// EnsureReady returns nil once the provider is ready. It is safe to call from
// many goroutines; at most one initialization runs at a time.
func (p *ProviderInitializer) EnsureReady(ctx context.Context) error {
	p.mu.Lock()
	if p.ready {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	// The shared attempt is detached from each caller's cancellation.
	ch := p.group.DoChan("init", func() (any, error) {
		return nil, p.attempt(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ProviderInitializer) attempt(ctx context.Context) error {
	p.mu.Lock()
	if p.ready {
		p.mu.Unlock()
		return nil
	}
	if p.attempts >= p.maxAttempts {
		lastErr := p.lastErr
		p.mu.Unlock()
		if lastErr != nil {
			return fmt.Errorf("%w: last error: %w", ErrInitAttemptsExceeded, lastErr)
		}
		return ErrInitAttemptsExceeded
	}
	p.attempts++
	attempt := p.attempts
	p.mu.Unlock()

	obs.Info("msg", "initializing routing provider", "attempt", attempt, "max_attempts", p.maxAttempts)

	err := p.init(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.lastErr = err
		obs.Warn("msg", "routing provider initialization failed", "attempt", attempt, "err", err)
		return fmt.Errorf("initialize routing provider (attempt %d/%d): %w", attempt, p.maxAttempts, err)
	}

	p.ready = true
	p.lastErr = nil
	obs.Info("msg", "routing provider ready", "attempt", attempt)
	return nil
}

// Reset clears the failure state so the next EnsureReady tries again.
// A ready provider stays ready.
func (p *ProviderInitializer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return
	}
	p.attempts = 0
	p.lastErr = nil
}

func (p *ProviderInitializer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *ProviderInitializer) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// LastError is the error of the most recent failed attempt, if any.
func (p *ProviderInitializer) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
