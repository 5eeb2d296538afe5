// Package insights builds a deterministic financial summary, asks the
// text-completion service for an analysis in a fixed two-section layout,
// and parses the free text back into structured insight and recommendation
// records. The service is treated as untrusted input: any failure or
// unparseable response degrades to an empty bundle, never an error.
package insights

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/finsight/spending-analyzer/internal/completion"
	"github.com/finsight/spending-analyzer/internal/types"
)

var generateParams = completion.Params{
	MaxTokens:   2048,
	Temperature: 0.7,
}

// Generator produces insight bundles from categorized transactions.
type Generator struct {
	completer completion.Completer
	logger    *log.Logger
}

func NewGenerator(completer completion.Completer, logger *log.Logger) *Generator {
	return &Generator{completer: completer, logger: logger}
}

// Generate returns the parsed insight bundle and true, or a zero bundle and
// false when the completion service fails. Absence of insights is a valid
// outcome the caller renders as an empty state.
func (g *Generator) Generate(ctx context.Context, transactions []types.Transaction, budgetStatus []types.BudgetStatus, periodMonths int) (types.InsightBundle, bool) {
	prompt := buildPrompt(Summary(transactions, budgetStatus, periodMonths))

	response, err := g.completer.Complete(ctx, prompt, generateParams)
	if err != nil {
		g.logger.Warn("Insight generation failed", "error", err)
		return types.InsightBundle{}, false
	}

	bundle := ParseResponse(response)
	g.logger.Debug("Generated insights",
		"insights", len(bundle.Insights),
		"recommendations", len(bundle.Recommendations))
	return bundle, true
}

func buildPrompt(summary string) string {
	return fmt.Sprintf(`You are a financial advisor analyzing a person's spending patterns. Based on the data below, provide personalized insights and actionable recommendations.

FINANCIAL SUMMARY:
%s

Please provide:

1. KEY INSIGHTS (3-4 observations about spending patterns)
   - What stands out in their spending?
   - Any concerning trends?
   - Positive habits to acknowledge?

2. RECOMMENDATIONS (4-6 specific, actionable suggestions)
   - Prioritize by impact (HIGH/MEDIUM/LOW)
   - Be specific with numbers and timeframes
   - Focus on realistic, achievable changes

Format your response as:

INSIGHTS:
- [Insight 1]
- [Insight 2]
- [Insight 3]

RECOMMENDATIONS:
Priority: HIGH
Category: [Category]
Action: [Specific action with numbers]
Impact: [Expected savings or benefit]

Priority: MEDIUM
Category: [Category]
Action: [Specific action]
Impact: [Expected benefit]

[Continue with more recommendations...]

Keep insights practical and encouraging. Use Swedish Krona (kr) in all amounts.`, summary)
}
