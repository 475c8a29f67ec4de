package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	exec := NewExecutor(p)

	attempts := 0
	err := exec.Execute(func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestExecutor_FailsTwiceThenSucceeds(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 3, Strategy: StrategyFixed, BaseDelay: time.Millisecond})
	exec := NewExecutor(p)

	attempts := 0
	err := exec.Execute(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecutor_SurfacesLastAttemptError(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 2, BaseDelay: time.Millisecond})
	exec := NewExecutor(p)

	attempts := 0
	var errs []error
	err := exec.Execute(func() error {
		attempts++
		e := errors.New("attempt " + string(rune('0'+attempts)))
		errs = append(errs, e)
		return e
	})

	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if err != errs[1] {
		t.Errorf("Execute() error = %v, want the second attempt's error %v", err, errs[1])
	}
}

func TestExecutor_NonRetryableFailsFast(t *testing.T) {
	errRetryable := errors.New("retryable")
	errFatal := errors.New("fatal")

	p := mustPolicy(t, PolicyConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		RetryOn:     []error{errRetryable},
	})
	exec := NewExecutor(p)

	attempts := 0
	err := exec.Execute(func() error {
		attempts++
		return errFatal
	})

	if err != errFatal {
		t.Errorf("Execute() error = %v, want %v", err, errFatal)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestExecutor_OnRetryHook(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 3, Strategy: StrategyFixed, BaseDelay: time.Millisecond})

	type call struct {
		attempt int
		delay   time.Duration
	}
	var calls []call

	exec := NewExecutor(p, WithOnRetry(func(attempt int, err error, delay time.Duration) {
		calls = append(calls, call{attempt, delay})
	}))

	testErr := errors.New("persistent")
	_ = exec.Execute(func() error { return testErr })

	if len(calls) != 2 {
		t.Fatalf("OnRetry calls = %d, want 2", len(calls))
	}
	if calls[0].attempt != 1 || calls[1].attempt != 2 {
		t.Errorf("OnRetry attempts = %v, want 1 then 2", calls)
	}
	if calls[0].delay != time.Millisecond {
		t.Errorf("OnRetry delay = %v, want 1ms", calls[0].delay)
	}
}

func TestExecutor_ContextCancellationDuringDelay(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 10, Strategy: StrategyFixed, BaseDelay: 100 * time.Millisecond})
	exec := NewExecutor(p)

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := exec.ExecuteContext(ctx, func(ctx context.Context) error {
		attempts++
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("ExecuteContext() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (canceled during first delay)", attempts)
	}
}

func TestExecutor_CancellationIsNotRetried(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 5, BaseDelay: time.Millisecond})
	exec := NewExecutor(p)

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := exec.ExecuteContext(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("ExecuteContext() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDo_ReturnsValue(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	exec := NewExecutor(p)

	attempts := 0
	result, err := Do(exec, func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("Do() = %q, want %q", result, "ok")
	}
}

func TestDoContext_ZeroValueOnFailure(t *testing.T) {
	p := mustPolicy(t, PolicyConfig{MaxAttempts: 2, BaseDelay: time.Millisecond})
	exec := NewExecutor(p)

	testErr := errors.New("persistent")
	result, err := DoContext(context.Background(), exec, func(ctx context.Context) (int, error) {
		return 41, testErr
	})

	if err != testErr {
		t.Errorf("DoContext() error = %v, want %v", err, testErr)
	}
	if result != 0 {
		t.Errorf("DoContext() = %d, want zero value on failure", result)
	}
}
