package persistence

import (
	"context"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/tokenusage"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/transaction"
)

// TokenUsageRepository implements tokenusage.Repository using GORM
type TokenUsageRepository struct {
	db *transaction.Database
}

var _ tokenusage.Repository = (*TokenUsageRepository)(nil)

// NewTokenUsageRepository creates a new TokenUsageRepository
func NewTokenUsageRepository(db *transaction.Database) *TokenUsageRepository {
	return &TokenUsageRepository{db: db}
}

// Create stores a new token usage record
func (r *TokenUsageRepository) Create(ctx context.Context, usage *tokenusage.TokenUsage) error {
	return r.db.GetTx(ctx).WithContext(ctx).Create(usage).Error
}

// GetUserUsage retrieves aggregated usage for a user within a date range
func (r *TokenUsageRepository) GetUserUsage(ctx context.Context, userID uint, startDate, endDate time.Time) ([]tokenusage.UsageSummary, error) {
	var summaries []tokenusage.UsageSummary

	err := r.db.GetTx(ctx).WithContext(ctx).
		Model(&tokenusage.TokenUsage{}).
		Select(`
			model,
			provider,
			SUM(prompt_tokens) as total_prompt_tokens,
			SUM(completion_tokens) as total_completion_tokens,
			SUM(total_tokens) as total_tokens,
			SUM(estimated_cost_usd) as estimated_cost_usd,
			COUNT(*) as request_count
		`).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, startDate, endDate).
		Group("model, provider").
		Order("total_tokens DESC").
		Scan(&summaries).Error

	return summaries, err
}
