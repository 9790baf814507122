package ratelimit

import (
	"errors"
	"testing"
	"time"
)

func TestLimiterFixedWindow(t *testing.T) {
	current := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	l := New(5, time.Minute)
	l.now = func() time.Time { return current }

	// Five calls inside the window succeed.
	for i := 0; i < 5; i++ {
		if err := l.Allow(); err != nil {
			t.Fatalf("call %d: unexpected error %v", i+1, err)
		}
		current = current.Add(2 * time.Second)
	}

	// The sixth is denied with the remaining wait.
	err := l.Allow()
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("sixth call: expected ErrRateLimited, got %v", err)
	}
	var rlErr *Error
	if !errors.As(err, &rlErr) {
		t.Fatal("expected typed *Error")
	}
	if rlErr.Wait <= 0 || rlErr.Wait > time.Minute {
		t.Errorf("wait out of range: %v", rlErr.Wait)
	}

	// After the window elapses the counter resets.
	current = current.Add(time.Minute + time.Second)
	if err := l.Allow(); err != nil {
		t.Errorf("call after window reset failed: %v", err)
	}
}

func TestLimiterStatus(t *testing.T) {
	current := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	l := New(5, time.Minute)
	l.now = func() time.Time { return current }

	if st := l.Status(); st.Remaining != 5 {
		t.Errorf("fresh limiter remaining = %d, want 5", st.Remaining)
	}

	for i := 0; i < 3; i++ {
		if err := l.Allow(); err != nil {
			t.Fatal(err)
		}
	}

	st := l.Status()
	if st.Remaining != 2 {
		t.Errorf("remaining = %d, want 2", st.Remaining)
	}
	if want := current.Add(time.Minute); !st.Reset.Equal(want) {
		t.Errorf("reset = %v, want %v", st.Reset, want)
	}

	// A stale window reports a full budget again.
	current = current.Add(2 * time.Minute)
	if st := l.Status(); st.Remaining != 5 {
		t.Errorf("remaining after window elapsed = %d, want 5", st.Remaining)
	}
}

func TestLimiterErrorMessage(t *testing.T) {
	e := &Error{Wait: 42 * time.Second}
	if e.Error() != "rate limit exceeded, retry in 42s" {
		t.Errorf("unexpected message: %q", e.Error())
	}
}
