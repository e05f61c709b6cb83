package resilience

import "time"

// Policy bounds retries and the circuit breaker around an upstream
// dependency (the chat model, the embedding endpoint, the reranker).
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64

	BreakerEnabled     bool
	BreakerMinRequests uint32
	BreakerFailRatio   float64
	BreakerOpenFor     time.Duration
	BreakerProbeCalls  uint32
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		BackoffFactor:  2.0,

		BreakerEnabled:     true,
		BreakerMinRequests: 8,
		BreakerFailRatio:   0.5,
		BreakerOpenFor:     20 * time.Second,
		BreakerProbeCalls:  2,
	}
}

func (p Policy) normalize() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	if p.BackoffFactor < 1 {
		p.BackoffFactor = def.BackoffFactor
	}
	if p.BreakerMinRequests == 0 {
		p.BreakerMinRequests = def.BreakerMinRequests
	}
	if p.BreakerFailRatio <= 0 || p.BreakerFailRatio > 1 {
		p.BreakerFailRatio = def.BreakerFailRatio
	}
	if p.BreakerOpenFor <= 0 {
		p.BreakerOpenFor = def.BreakerOpenFor
	}
	if p.BreakerProbeCalls == 0 {
		p.BreakerProbeCalls = def.BreakerProbeCalls
	}
	return p
}
