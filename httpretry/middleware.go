// Package httpretry composes a retry policy around HTTP request/response
// exchange, classifying retryability by status code in addition to error
// kind.
//
// The middleware never synthesizes an error from a non-2xx response: a
// response whose status is not in the retryable set is returned to the
// caller as-is, and after the attempt budget is spent the last response or
// last error is surfaced unmodified.
package httpretry

import (
	"fmt"
	"io"
	"net/http"

	"github.com/coder/quartz"

	"github.com/veilkit/resilience/observe"
	"github.com/veilkit/resilience/retry"
)

// Doer is the transport capability the middleware consumes. *http.Client
// satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// NoGetBodyError indicates that a retry was required but the request had
// no GetBody, so its body cannot be replayed. If no retry is needed,
// GetBody is never consulted.
type NoGetBodyError struct {
	// Err is the error from the attempt that triggered the retry, if any.
	Err error
}

func (e *NoGetBodyError) Error() string {
	return "httpretry: http.Request.GetBody must be set to retry a request with a body"
}

func (e *NoGetBodyError) Unwrap() error { return e.Err }

// GetBodyError indicates that http.Request.GetBody itself failed. Retries
// cannot continue without the original body.
type GetBodyError struct {
	Err error
}

func (e *GetBodyError) Error() string {
	return fmt.Sprintf("httpretry: GetBody returned an error: %v", e.Err)
}

func (e *GetBodyError) Unwrap() error { return e.Err }

// Config configures the middleware.
type Config struct {
	// Policy supplies the attempt budget, backoff, and error
	// classification.
	Policy retry.Policy

	// RetryableStatusCodes lists the response statuses that justify
	// another attempt. Statuses outside this set — errors included — are
	// returned to the caller as ordinary responses.
	RetryableStatusCodes []int

	// Clock overrides the clock used for backoff waits.
	// Default: the real clock.
	Clock quartz.Clock

	// Logger receives an info event per retried exchange.
	// Default: no-op.
	Logger observe.Logger
}

// Client decorates a Doer with retries.
type Client struct {
	next     Doer
	policy   retry.Policy
	statuses map[int]struct{}
	clock    quartz.Clock
	log      observe.Logger
}

// New creates a retrying client around next. A nil next decorates
// http.DefaultClient.
func New(cfg Config, next Doer) *Client {
	if next == nil {
		next = http.DefaultClient
	}

	statuses := make(map[int]struct{}, len(cfg.RetryableStatusCodes))
	for _, code := range cfg.RetryableStatusCodes {
		statuses[code] = struct{}{}
	}

	c := &Client{
		next:     next,
		policy:   cfg.Policy,
		statuses: statuses,
		clock:    cfg.Clock,
		log:      cfg.Logger,
	}
	if c.clock == nil {
		c.clock = quartz.NewReal()
	}
	if c.log == nil {
		c.log = observe.NopLogger()
	}
	return c
}

// retryableStatus reports whether the status code justifies another
// attempt.
func (c *Client) retryableStatus(code int) bool {
	_, ok := c.statuses[code]
	return ok
}

// Do executes the request with up to the policy's attempt budget. The
// request context governs the inter-attempt waits: cancellation during a
// wait aborts the loop with the context's error.
//
// When a retried response is discarded its body is drained and closed so
// connections can be reused; the response finally returned to the caller
// has its body intact.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hasBody := req.Body != nil
	getBody := req.GetBody

	var resp *http.Response
	var err error

	for attempt := 1; ; attempt++ {
		resp, err = c.next.Do(req)

		if err != nil {
			// Non-retryable error kinds fail fast; exhaustion surfaces
			// the error from this attempt unchanged.
			if !c.policy.ShouldRetry(err, attempt) {
				return nil, err
			}
		} else {
			if !c.retryableStatus(resp.StatusCode) {
				return resp, nil
			}
			if attempt >= c.policy.MaxAttempts() {
				return resp, nil
			}
			drain(resp)
		}

		// The body was consumed by the attempt; replay it for the retry.
		if hasBody {
			if getBody == nil {
				return nil, &NoGetBodyError{Err: err}
			}
			body, gerr := getBody()
			if gerr != nil {
				return nil, &GetBodyError{Err: gerr}
			}
			req.Body = body
		}

		delay := c.policy.Delay(attempt)
		c.log.Info(ctx, "retrying request",
			observe.Field{Key: "method", Value: req.Method},
			observe.Field{Key: "url", Value: req.URL.String()},
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "delay", Value: delay.String()},
		)

		if delay > 0 {
			t := c.clock.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		} else {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
	}
}

// drain discards and closes a response body so the underlying connection
// can be reused for the retry.
func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// Transport adapts the middleware to http.RoundTripper so it can be
// installed as an http.Client transport.
type Transport struct {
	c *Client
}

// NewTransport creates a retrying RoundTripper around base. A nil base
// decorates http.DefaultTransport.
func NewTransport(cfg Config, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{c: New(cfg, roundTripperDoer{base})}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.c.Do(req)
}

type roundTripperDoer struct {
	rt http.RoundTripper
}

func (d roundTripperDoer) Do(req *http.Request) (*http.Response, error) {
	return d.rt.RoundTrip(req)
}

var (
	_ Doer              = (*Client)(nil)
	_ http.RoundTripper = (*Transport)(nil)
)
