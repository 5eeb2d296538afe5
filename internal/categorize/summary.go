package categorize

import (
	"sort"

	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
)

// Summarize groups categorized expense transactions by category and returns
// sum, mean, and count per category, sorted descending by sum. Income rows
// are ignored.
func Summarize(transactions []types.Transaction) []types.CategorySummary {
	totals := make(map[string]*types.CategorySummary)
	var order []string
	for _, t := range transactions {
		if t.Type != types.TransactionTypeExpense {
			continue
		}
		summary, ok := totals[t.Category]
		if !ok {
			summary = &types.CategorySummary{Category: t.Category}
			totals[t.Category] = summary
			order = append(order, t.Category)
		}
		summary.Total = summary.Total.Add(t.AbsAmount)
		summary.Count++
	}

	summaries := make([]types.CategorySummary, 0, len(order))
	for _, category := range order {
		s := totals[category]
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
		summaries = append(summaries, *s)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].Total.Equal(summaries[j].Total) {
			return summaries[i].Total.GreaterThan(summaries[j].Total)
		}
		return summaries[i].Category < summaries[j].Category
	})
	return summaries
}
