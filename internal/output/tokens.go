package output

import (
	"fmt"
	"unicode/utf8"

	"github.com/ariadne-dev/ariadne/pkg/models"
)

// TokenBudgetInfo describes how much of an LLM context window a rendered
// response consumes. The MCP server attaches this to large tool results so
// clients can decide whether to request a narrower query.
type TokenBudgetInfo struct {
	Tokens       int     `json:"tokens"`
	Budget       int     `json:"budget"`
	BudgetLabel  string  `json:"budgetLabel"`
	UsagePercent float64 `json:"usagePercent"`
	Remaining    int     `json:"remaining"`
}

// Common context window sizes.
const (
	Budget8K   = 8000
	Budget32K  = 32000
	Budget128K = 128000
	Budget200K = 200000
)

// DefaultBudget is the assumed context window when the caller does not
// specify one.
const DefaultBudget = Budget128K

// charsPerToken approximates the character-to-token ratio for code-heavy
// text. Exact counts require a tokenizer; this is close enough to decide
// whether a response needs trimming.
const charsPerToken = 4.0

// EstimateTokens returns an approximate token count for the given text.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	runes := utf8.RuneCountInString(text)
	return int(float64(runes)/charsPerToken + 0.5)
}

// FormatTokenCount formats a token count for display. Counts of 1000 or
// more are shown as "X.Xk".
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	return fmt.Sprintf("%.1fk", float64(tokens)/1000)
}

// GetTokenBudgetInfo calculates budget usage for the given text.
func GetTokenBudgetInfo(text string, budget int) TokenBudgetInfo {
	if budget <= 0 {
		budget = DefaultBudget
	}

	tokens := EstimateTokens(text)
	remaining := budget - tokens
	if remaining < 0 {
		remaining = 0
	}

	return TokenBudgetInfo{
		Tokens:       tokens,
		Budget:       budget,
		BudgetLabel:  formatBudgetLabel(budget),
		UsagePercent: float64(tokens) / float64(budget) * 100,
		Remaining:    remaining,
	}
}

func formatBudgetLabel(budget int) string {
	if budget >= 1000 {
		return fmt.Sprintf("%dk", budget/1000)
	}
	return fmt.Sprintf("%d", budget)
}

// TrimIssuesToBudget drops trailing issues until the rendered estimate fits
// the budget. Issues arrive sorted most severe first, so trimming keeps the
// findings that matter. Returns the kept slice and the number dropped.
func TrimIssuesToBudget(issues []models.Issue, budget int) ([]models.Issue, int) {
	if budget <= 0 {
		budget = DefaultBudget
	}

	// Reserve a slice of the budget for the envelope around the issues.
	avail := budget - budget/10

	total := 0
	for n, issue := range issues {
		cost := EstimateTokens(issue.Message) + EstimateTokens(issue.Location.String()) +
			EstimateTokens(issue.Type) + 8
		if total+cost > avail {
			return issues[:n], len(issues) - n
		}
		total += cost
	}
	return issues, 0
}
