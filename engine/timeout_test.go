package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTimeout_FastOperationPasses(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})

	err := to.Execute(context.Background(), func(context.Context) error { return nil })
	if err != nil {
		t.Errorf("Execute() = %v, want nil", err)
	}
}

func TestTimeout_SlowOperationTimesOut(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() = %v, want ErrTimeout", err)
	}
}

func TestTimeout_OperationErrorPassesThrough(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})
	opErr := errors.New("op failed")

	err := to.Execute(context.Background(), func(context.Context) error { return opErr })
	if !errors.Is(err, opErr) {
		t.Errorf("Execute() = %v, want operation's error", err)
	}
}

func TestTimeout_CallerCancellationIsNotTimeout(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := to.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, want context.Canceled, not ErrTimeout", err)
	}
}

func TestTimeout_DefaultApplied(t *testing.T) {
	to := NewTimeout(TimeoutConfig{})
	if got := to.Config().Timeout; got != 30*time.Second {
		t.Errorf("Config().Timeout = %v, want default 30s", got)
	}
}
