package tokenusage_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tahien663-cpu/chat-api/internal/domain/tokenusage"
)

type fakeUsageRepo struct {
	created   []*tokenusage.TokenUsage
	summaries []tokenusage.UsageSummary
}

func (f *fakeUsageRepo) Create(ctx context.Context, usage *tokenusage.TokenUsage) error {
	f.created = append(f.created, usage)
	return nil
}

func (f *fakeUsageRepo) GetUserUsage(ctx context.Context, userID uint, startDate, endDate time.Time) ([]tokenusage.UsageSummary, error) {
	return f.summaries, nil
}

func TestRecordUsageFillsDerivedFields(t *testing.T) {
	repo := &fakeUsageRepo{}
	svc := tokenusage.NewService(repo)

	usage := &tokenusage.TokenUsage{
		UserID:           7,
		Model:            "openai/gpt-4o-mini",
		Provider:         "openrouter",
		PromptTokens:     100,
		CompletionTokens: 50,
	}

	if err := svc.RecordUsage(context.Background(), usage); err != nil {
		t.Fatalf("RecordUsage() error = %v", err)
	}
	if usage.TotalTokens != 150 {
		t.Errorf("TotalTokens = %d, want 150", usage.TotalTokens)
	}
	if usage.EstimatedCostUSD.IsZero() {
		t.Error("EstimatedCostUSD not derived")
	}
	if len(repo.created) != 1 {
		t.Fatalf("persisted %d records, want 1", len(repo.created))
	}
}

func TestCalculateCost(t *testing.T) {
	known := tokenusage.CalculateCost("openai/gpt-4o", 1000, 1000)
	want := decimal.NewFromFloat(0.000005).Mul(decimal.NewFromInt(1000)).
		Add(decimal.NewFromFloat(0.000015).Mul(decimal.NewFromInt(1000)))
	if !known.Equal(want) {
		t.Errorf("CalculateCost(known) = %s, want %s", known, want)
	}

	unknown := tokenusage.CalculateCost("somelab/unknown-model", 1000, 1000)
	if unknown.IsZero() {
		t.Error("unknown model must fall back to default pricing, got zero")
	}

	zero := tokenusage.CalculateCost("openai/gpt-4o", 0, 0)
	if !zero.IsZero() {
		t.Errorf("zero tokens should cost zero, got %s", zero)
	}
}

func TestGetMyUsageAggregatesTotals(t *testing.T) {
	repo := &fakeUsageRepo{
		summaries: []tokenusage.UsageSummary{
			{Model: "openai/gpt-4o", Provider: "openrouter", TotalPromptTokens: 100, TotalCompletionTokens: 40, TotalTokens: 140, RequestCount: 2, EstimatedCostUSD: decimal.NewFromFloat(0.0011)},
			{Model: "anthropic/claude-3.5-sonnet", Provider: "openrouter", TotalPromptTokens: 300, TotalCompletionTokens: 100, TotalTokens: 400, RequestCount: 3, EstimatedCostUSD: decimal.NewFromFloat(0.0024)},
		},
	}
	svc := tokenusage.NewService(repo)

	start := time.Now().AddDate(0, -1, 0)
	end := time.Now()
	resp, err := svc.GetMyUsage(context.Background(), 7, start, end)
	if err != nil {
		t.Fatalf("GetMyUsage() error = %v", err)
	}

	if resp.TotalUsage.TotalTokens != 540 {
		t.Errorf("TotalTokens = %d, want 540", resp.TotalUsage.TotalTokens)
	}
	if resp.TotalUsage.RequestCount != 5 {
		t.Errorf("RequestCount = %d, want 5", resp.TotalUsage.RequestCount)
	}
	if !resp.TotalUsage.EstimatedCostUSD.Equal(decimal.NewFromFloat(0.0035)) {
		t.Errorf("EstimatedCostUSD = %s, want 0.0035", resp.TotalUsage.EstimatedCostUSD)
	}
	if len(resp.ByModel) != 2 {
		t.Errorf("ByModel entries = %d, want 2", len(resp.ByModel))
	}
}
