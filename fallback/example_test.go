package fallback_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/veilkit/resilience/fallback"
)

var errUpstreamDown = errors.New("upstream down")

func ExampleChain_Execute() {
	chain := fallback.New[string](errUpstreamDown).
		AddFallback(func(ctx context.Context) (string, error) {
			return "", errors.New("replica also down")
		}).
		AddFallback(func(ctx context.Context) (string, error) {
			return "stale-cache-value", nil
		})

	value, err := chain.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "", errUpstreamDown
	})

	fmt.Println(value, err)
	// Output:
	// stale-cache-value <nil>
}
