package common

import (
	"context"
	"time"
)

// ContextWithOptionalTimeout applies a deadline only when d is positive
func ContextWithOptionalTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
