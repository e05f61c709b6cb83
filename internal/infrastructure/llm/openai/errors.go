package openai

import (
	"context"
	"errors"
	"net"

	oai "github.com/openai/openai-go"

	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/resilience"
)

// classifyAPIError decides retry and breaker behavior per upstream
// failure. Rate limits and 5xx are transient; other 4xx are caller
// mistakes and must not trip the breaker. Context cancellation is the
// caller giving up, not an upstream fault.
func classifyAPIError(err error) resilience.Verdict {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{}
	}

	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429 || apiErr.StatusCode >= 500:
			return resilience.Verdict{Retryable: true, CountsAsTrip: true}
		case apiErr.StatusCode >= 400:
			return resilience.Verdict{}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{Retryable: true, CountsAsTrip: true}
	}

	return resilience.Verdict{Retryable: true, CountsAsTrip: true}
}
