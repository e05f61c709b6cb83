package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict tells the executor how an upstream error should be treated.
type Verdict struct {
	Retryable    bool
	CountsAsTrip bool
}

// Classifier maps an upstream error to a Verdict. A nil classifier means
// fail fast and record every failure.
type Classifier func(err error) Verdict

// Executor wraps upstream calls with bounded exponential retry and one
// circuit breaker per named operation.
type Executor struct {
	policy Policy
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(policy Policy, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		policy:   policy.normalize(),
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Do runs fn under the named operation's breaker, retrying retryable
// failures up to the policy bound.
func (e *Executor) Do(ctx context.Context, operation string, classify Classifier, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: nil operation for %q", operation)
	}
	if classify == nil {
		classify = func(error) Verdict { return Verdict{CountsAsTrip: true} }
	}

	if !e.policy.BreakerEnabled {
		return e.retry(ctx, operation, classify, fn)
	}

	_, err := e.breaker(operation, classify).Execute(func() (any, error) {
		return nil, e.retry(ctx, operation, classify, fn)
	})
	return err
}

func (e *Executor) retry(ctx context.Context, operation string, classify Classifier, fn func(context.Context) error) error {
	wait := e.policy.InitialBackoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !classify(err).Retryable || attempt >= e.policy.MaxAttempts {
			return err
		}

		e.logger.Warn("upstream_retry",
			"operation", operation,
			"attempt", attempt,
			"wait", wait.String(),
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		wait = time.Duration(float64(wait) * e.policy.BackoffFactor)
		if wait > e.policy.MaxBackoff {
			wait = e.policy.MaxBackoff
		}
	}
}

func (e *Executor) breaker(operation string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cb, ok := e.breakers[operation]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.policy.BreakerProbeCalls,
		Timeout:     e.policy.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.policy.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= e.policy.BreakerFailRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err).CountsAsTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
	e.breakers[operation] = cb
	return cb
}

// IsCircuitOpen reports whether err came from an open or saturated
// half-open breaker rather than from the upstream itself.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
