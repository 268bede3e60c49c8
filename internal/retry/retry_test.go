package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	classifier := func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := Do(context.Background(), fastConfig(), classifier, func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on permanent errors)", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	transient := errors.New("still failing")
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(ctx context.Context) error {
		calls++
		return transient
	})

	if calls != 4 {
		t.Errorf("calls = %d, want 4 (initial + 3 retries)", calls)
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %T, want *ExhaustedError", err)
	}
	if exhausted.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", exhausted.Attempts)
	}
	if !errors.Is(err, transient) {
		t.Error("ExhaustedError does not unwrap to the last error")
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := fastConfig()
	cfg.InitialBackoff = time.Minute // force the cancel to win the backoff wait

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- Do(ctx, cfg, nil, func(ctx context.Context) error {
			calls++
			return errors.New("transient")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"generic", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestJitterBounds(t *testing.T) {
	d := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		j := jitter(d, 0.2)
		if j < -20*time.Millisecond || j > 20*time.Millisecond {
			t.Fatalf("jitter = %v, want within +/-20ms", j)
		}
	}
	if j := jitter(d, 0); j != 0 {
		t.Errorf("jitter with zero fraction = %v, want 0", j)
	}
}
