package tokenusage

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenUsage represents a single token usage record, written once per
// successful chat turn.
type TokenUsage struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	UserID           uint            `gorm:"column:user_id;not null;index"`
	ConversationID   *string         `gorm:"column:conversation_id"`
	Model            string          `gorm:"column:model;not null;index"`
	Provider         string          `gorm:"column:provider;not null;index"`
	PromptTokens     int             `gorm:"column:prompt_tokens;not null;default:0"`
	CompletionTokens int             `gorm:"column:completion_tokens;not null;default:0"`
	TotalTokens      int             `gorm:"column:total_tokens;not null;default:0"`
	EstimatedCostUSD decimal.Decimal `gorm:"column:estimated_cost_usd;type:decimal(10,6)"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for TokenUsage
func (TokenUsage) TableName() string {
	return "chat_api.token_usage"
}

// UsageSummary represents aggregated usage statistics
type UsageSummary struct {
	Model                 string          `json:"model"`
	Provider              string          `json:"provider"`
	TotalPromptTokens     int64           `json:"total_prompt_tokens"`
	TotalCompletionTokens int64           `json:"total_completion_tokens"`
	TotalTokens           int64           `json:"total_tokens"`
	RequestCount          int64           `json:"request_count"`
	EstimatedCostUSD      decimal.Decimal `json:"estimated_cost_usd"`
}

// Model pricing (USD per token) for the models served by the catalog.
// Unknown models fall back to a conservative default.
var ModelPricing = map[string]struct {
	PromptPrice     decimal.Decimal
	CompletionPrice decimal.Decimal
}{
	"openai/gpt-4o":                       {decimal.NewFromFloat(0.000005), decimal.NewFromFloat(0.000015)},
	"openai/gpt-4o-mini":                  {decimal.NewFromFloat(0.00000015), decimal.NewFromFloat(0.0000006)},
	"anthropic/claude-3.5-sonnet":         {decimal.NewFromFloat(0.000003), decimal.NewFromFloat(0.000015)},
	"anthropic/claude-3-haiku":            {decimal.NewFromFloat(0.00000025), decimal.NewFromFloat(0.00000125)},
	"meta-llama/llama-3.1-70b-instruct":   {decimal.NewFromFloat(0.0000004), decimal.NewFromFloat(0.0000004)},
	"mistralai/mistral-7b-instruct":       {decimal.NewFromFloat(0.00000006), decimal.NewFromFloat(0.00000006)},
	"google/gemini-flash-1.5":             {decimal.NewFromFloat(0.000000075), decimal.NewFromFloat(0.0000003)},
	"deepseek/deepseek-chat":              {decimal.NewFromFloat(0.00000014), decimal.NewFromFloat(0.00000028)},
	"qwen/qwen-2.5-72b-instruct":          {decimal.NewFromFloat(0.0000004), decimal.NewFromFloat(0.0000004)},
	"nousresearch/hermes-3-llama-3.1-70b": {decimal.NewFromFloat(0.0000004), decimal.NewFromFloat(0.0000004)},
}

// CalculateCost calculates estimated cost for token usage
func CalculateCost(model string, promptTokens, completionTokens int) decimal.Decimal {
	pricing, exists := ModelPricing[model]
	if !exists {
		pricing = struct {
			PromptPrice     decimal.Decimal
			CompletionPrice decimal.Decimal
		}{
			PromptPrice:     decimal.NewFromFloat(0.000003),
			CompletionPrice: decimal.NewFromFloat(0.000006),
		}
	}

	promptCost := pricing.PromptPrice.Mul(decimal.NewFromInt(int64(promptTokens)))
	completionCost := pricing.CompletionPrice.Mul(decimal.NewFromInt(int64(completionTokens)))

	return promptCost.Add(completionCost)
}
