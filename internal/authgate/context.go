package authgate

import (
	"context"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

type ctxKey string

const decisionKey ctxKey = "authDecision"

// WithDecision returns a new context carrying d
func WithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionKey, d)
}

// FromContext returns the request's decision, or an anonymous one when the
// gate middleware did not run.
func FromContext(ctx context.Context) Decision {
	if d, ok := ctx.Value(decisionKey).(Decision); ok {
		return d
	}
	return Decision{State: domain.AuthAnonymous}
}
