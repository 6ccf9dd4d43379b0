package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestExecute_SucceedsAfterRetries(t *testing.T) {
	var delays []time.Duration
	p := NewRetryPolicy(4, 100*time.Millisecond)
	p.sleep = noSleep(&delays)

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond}
	if len(delays) != len(want) || delays[0] != want[0] || delays[1] != want[1] {
		t.Errorf("expected backoff %v, got %v", want, delays)
	}
}

func TestExecute_Exhausted(t *testing.T) {
	var delays []time.Duration
	p := NewRetryPolicy(3, time.Millisecond)
	p.sleep = noSleep(&delays)

	sentinel := errors.New("upstream 503")
	err := p.Execute(context.Background(), func(context.Context) error { return sentinel })

	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if len(delays) != 2 {
		t.Errorf("expected no sleep after the last attempt, got %d sleeps", len(delays))
	}
}

func TestExecute_PermanentStops(t *testing.T) {
	var delays []time.Duration
	p := NewRetryPolicy(5, time.Millisecond)
	p.sleep = noSleep(&delays)

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errors.New("404"))
	})

	if calls != 1 || !IsPermanent(err) {
		t.Errorf("expected a single permanent failure, got %d calls, err %v", calls, err)
	}
}

func TestExecute_MaxDelayCap(t *testing.T) {
	var delays []time.Duration
	p := NewRetryPolicy(4, 25*time.Second)
	p.sleep = noSleep(&delays)

	_ = p.Execute(context.Background(), func(context.Context) error { return errors.New("x") })

	for _, d := range delays {
		if d > 30*time.Second {
			t.Errorf("expected delays capped at 30s, got %s", d)
		}
	}
}

func TestExecute_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewRetryPolicy(3, time.Hour)
	err := p.Execute(ctx, func(context.Context) error { return errors.New("down") })
	if err == nil {
		t.Fatal("expected error")
	}
}
