package fallback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/veilkit/resilience/observe"
)

var (
	errUnavailable = errors.New("service unavailable")
	errInternal    = errors.New("internal fault")
)

func TestChain_PrimarySucceeds(t *testing.T) {
	calls := 0
	chain := New[string](errUnavailable).
		AddFallback(func(context.Context) (string, error) {
			calls++
			return "fallback", nil
		})

	got, err := chain.Execute(context.Background(), func(context.Context) (string, error) {
		return "primary", nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if got != "primary" {
		t.Errorf("Execute() = %q, want %q", got, "primary")
	}
	if calls != 0 {
		t.Errorf("fallback called %d times on primary success, want 0", calls)
	}
}

func TestChain_FirstFallbackFailsSecondSucceeds(t *testing.T) {
	chain := New[string](errUnavailable).
		AddFallback(func(context.Context) (string, error) {
			return "", errors.New("cache miss")
		}).
		AddFallback(func(context.Context) (string, error) {
			return "ok", nil
		})

	got, err := chain.Execute(context.Background(), func(context.Context) (string, error) {
		return "", errUnavailable
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if got != "ok" {
		t.Errorf("Execute() = %q, want %q", got, "ok")
	}
}

func TestChain_AllFailReturnsLastFallbackError(t *testing.T) {
	first := errors.New("first fallback down")
	second := errors.New("second fallback down")
	chain := New[int](errUnavailable).
		AddFallback(func(context.Context) (int, error) { return 0, first }).
		AddFallback(func(context.Context) (int, error) { return 0, second })

	got, err := chain.Execute(context.Background(), func(context.Context) (int, error) {
		return 0, errUnavailable
	})
	if !errors.Is(err, second) {
		t.Errorf("Execute() error = %v, want last fallback's error %v", err, second)
	}
	if got != 0 {
		t.Errorf("Execute() = %d, want zero value", got)
	}
}

func TestChain_UnexpectedErrorSkipsFallbacks(t *testing.T) {
	calls := 0
	chain := New[string](errUnavailable).
		AddFallback(func(context.Context) (string, error) {
			calls++
			return "fallback", nil
		})

	_, err := chain.Execute(context.Background(), func(context.Context) (string, error) {
		return "", errInternal
	})
	if !errors.Is(err, errInternal) {
		t.Errorf("Execute() error = %v, want %v propagated", err, errInternal)
	}
	if calls != 0 {
		t.Errorf("fallback called %d times for unexpected error, want 0", calls)
	}
}

func TestChain_WrappedExpectedErrorEngages(t *testing.T) {
	chain := New[string](errUnavailable).
		AddFallback(func(context.Context) (string, error) {
			return "ok", nil
		})

	got, err := chain.Execute(context.Background(), func(context.Context) (string, error) {
		return "", fmt.Errorf("calling upstream: %w", errUnavailable)
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if got != "ok" {
		t.Errorf("Execute() = %q, want %q", got, "ok")
	}
}

func TestChain_NoExpectedErrorsEngagesOnAnyFailure(t *testing.T) {
	chain := New[string]().
		AddFallback(func(context.Context) (string, error) {
			return "recovered", nil
		})

	got, err := chain.Execute(context.Background(), func(context.Context) (string, error) {
		return "", errors.New("anything at all")
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if got != "recovered" {
		t.Errorf("Execute() = %q, want %q", got, "recovered")
	}
}

func TestChain_EmptyChainReturnsPrimaryError(t *testing.T) {
	chain := New[string](errUnavailable)
	if chain.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", chain.Len())
	}

	_, err := chain.Execute(context.Background(), func(context.Context) (string, error) {
		return "", errUnavailable
	})
	if !errors.Is(err, errUnavailable) {
		t.Errorf("Execute() error = %v, want primary's %v", err, errUnavailable)
	}
}

func TestChain_LogsFailingFallbacks(t *testing.T) {
	var buf bytes.Buffer
	chain := New[string](errUnavailable).
		WithLogger(observe.NewLoggerWithWriter("warn", &buf)).
		AddFallback(func(context.Context) (string, error) {
			return "", errors.New("replica lag")
		}).
		AddFallback(func(context.Context) (string, error) {
			return "ok", nil
		})

	if _, err := chain.Execute(context.Background(), func(context.Context) (string, error) {
		return "", errUnavailable
	}); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}

	out := buf.String()
	if !strings.Contains(out, "fallback failed") {
		t.Errorf("log output missing %q: %s", "fallback failed", out)
	}
	if !strings.Contains(out, "replica lag") {
		t.Errorf("log output missing fallback error: %s", out)
	}
}
