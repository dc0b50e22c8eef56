package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-cmp/cmp"
)

// instantTimer fires immediately and remembers the requested delays.
type instantTimer struct {
	c      chan time.Time
	delays *[]time.Duration
}

func (t *instantTimer) Start(d time.Duration) {
	*t.delays = append(*t.delays, d)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

func testPolicy(maxAttempts int, retryable func(error) bool) (*Policy, *[]time.Duration) {
	delays := &[]time.Duration{}
	p := New(maxAttempts, time.Second, retryable).WithTimer(func() backoff.Timer {
		return &instantTimer{c: make(chan time.Time, 1), delays: delays}
	})
	return p, delays
}

var errTransient = errors.New("transient")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDoSucceedsAfterRetries(t *testing.T) {
	p, delays := testPolicy(3, isTransient)
	var notified []int
	p.Notify = func(a Attempt) { notified = append(notified, a.Number) }

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if diff := cmp.Diff([]time.Duration{time.Second, 2 * time.Second}, *delays); diff != "" {
		t.Errorf("delays mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, notified); diff != "" {
		t.Errorf("notified attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestDoExhausted(t *testing.T) {
	p, _ := testPolicy(3, isTransient)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) || ex.Attempts != 3 || !errors.Is(ex.Last, errTransient) {
		t.Errorf("exhausted error = %+v", ex)
	}
}

func TestDoPermanentErrorNotRetried(t *testing.T) {
	p, delays := testPolicy(3, isTransient)
	fatal := errors.New("fatal")
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return fatal
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, fatal) || errors.Is(err, ErrExhausted) {
		t.Errorf("err = %v, want the operation error", err)
	}
	if len(*delays) != 0 {
		t.Errorf("unexpected delays %v", *delays)
	}
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	p, _ := testPolicy(3, isTransient)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(0, 0, nil)
	if p.MaxAttempts != DefaultMaxAttempts || p.BaseDelay != DefaultBaseDelay {
		t.Errorf("defaults = %d, %v", p.MaxAttempts, p.BaseDelay)
	}
}
