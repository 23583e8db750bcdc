package ports

import "context"

// RateGate throttles calls per caller and action.
type RateGate interface {
	// Allow returns nil when the call may proceed, or a rate-limit error.
	Allow(ctx context.Context, userID, action string) error
}
