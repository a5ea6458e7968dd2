package tokenusage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service provides token usage business logic
type Service struct {
	repo Repository
}

// NewService creates a new token usage service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordUsage records a new token usage event
func (s *Service) RecordUsage(ctx context.Context, usage *TokenUsage) error {
	if usage.EstimatedCostUSD.IsZero() {
		usage.EstimatedCostUSD = CalculateCost(usage.Model, usage.PromptTokens, usage.CompletionTokens)
	}

	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}

	return s.repo.Create(ctx, usage)
}

// GetMyUsage retrieves usage summary for a user within a date range
func (s *Service) GetMyUsage(ctx context.Context, userID uint, startDate, endDate time.Time) (*UsageResponse, error) {
	summaries, err := s.repo.GetUserUsage(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return s.buildUsageResponse(summaries, startDate, endDate), nil
}

// buildUsageResponse constructs a usage response from per-model summaries
func (s *Service) buildUsageResponse(summaries []UsageSummary, startDate, endDate time.Time) *UsageResponse {
	response := &UsageResponse{
		Period: Period{
			StartDate: startDate,
			EndDate:   endDate,
		},
		ByModel: make([]UsageSummary, 0, len(summaries)),
	}

	totalPrompt := int64(0)
	totalCompletion := int64(0)
	totalTokens := int64(0)
	totalCost := decimal.Zero
	totalRequests := int64(0)

	for _, summary := range summaries {
		totalPrompt += summary.TotalPromptTokens
		totalCompletion += summary.TotalCompletionTokens
		totalTokens += summary.TotalTokens
		totalCost = totalCost.Add(summary.EstimatedCostUSD)
		totalRequests += summary.RequestCount
		response.ByModel = append(response.ByModel, summary)
	}

	response.TotalUsage = UsageSummary{
		TotalPromptTokens:     totalPrompt,
		TotalCompletionTokens: totalCompletion,
		TotalTokens:           totalTokens,
		EstimatedCostUSD:      totalCost,
		RequestCount:          totalRequests,
	}

	return response
}

// UsageResponse represents the API response for usage queries
type UsageResponse struct {
	Period     Period         `json:"period"`
	TotalUsage UsageSummary   `json:"total_usage"`
	ByModel    []UsageSummary `json:"by_model"`
}

// Period represents a date range for usage queries
type Period struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
