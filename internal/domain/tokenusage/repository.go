package tokenusage

import (
	"context"
	"time"
)

// Repository defines the interface for token usage data access
type Repository interface {
	// Create stores a new token usage record
	Create(ctx context.Context, usage *TokenUsage) error

	// GetUserUsage retrieves per-model aggregated usage for a user within a
	// date range
	GetUserUsage(ctx context.Context, userID uint, startDate, endDate time.Time) ([]UsageSummary, error)
}
