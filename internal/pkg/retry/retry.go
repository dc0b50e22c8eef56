// Package retry runs remote calls with exponential backoff.
//
// A Policy composes four pieces: a predicate deciding which errors are worth
// another attempt, an exponential delay (base, 2*base, 4*base, ...), an
// attempt limit and a terminal ExhaustedError once the limit is reached.
// Errors the predicate rejects are returned after the first attempt.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// ErrExhausted matches every ExhaustedError via errors.Is.
var ErrExhausted = errors.New("retry attempts exhausted")

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry attempts exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Attempt describes a failed attempt that is about to be retried.
type Attempt struct {
	Number int           // attempt that failed, starting at 1
	Delay  time.Duration // wait before the next attempt
	Err    error
}

// Policy is safe for concurrent use once built.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Retryable reports whether err deserves another attempt. Nil retries nothing.
	Retryable func(error) bool
	// Notify is called before every retry.
	Notify func(Attempt)

	newTimer func() backoff.Timer
}

// New returns a policy with the given limits; zero values fall back to defaults.
func New(maxAttempts int, baseDelay time.Duration, retryable func(error) bool) *Policy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &Policy{MaxAttempts: maxAttempts, BaseDelay: baseDelay, Retryable: retryable}
}

// WithTimer replaces the wall-clock timer used between attempts.
func (p *Policy) WithTimer(newTimer func() backoff.Timer) *Policy {
	cp := *p
	cp.newTimer = newTimer
	return &cp
}

func (p *Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = p.BaseDelay << 10
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt limit is reached.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := 0
	permanent := false

	operation := func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, d time.Duration) {
		if p.Notify != nil {
			p.Notify(Attempt{Number: attempts, Delay: d, Err: err})
		}
	}

	var timer backoff.Timer
	if p.newTimer != nil {
		timer = p.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(operation, p.backOff(ctx), notify, timer)
	switch {
	case err == nil:
		return nil
	case permanent:
		return err
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	}
	return &ExhaustedError{Attempts: attempts, Last: err}
}
