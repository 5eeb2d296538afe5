package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finsight/spending-analyzer/internal/stats"
	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
)

// Summary builds the deterministic financial summary that gets embedded in
// the insight prompt: monthly income/expense/savings figures, per-category
// monthly spend against budget, over-budget categories with their monthly
// overage, and a trend over the last three monthly expense totals.
func Summary(transactions []types.Transaction, budgetStatus []types.BudgetStatus, periodMonths int) string {
	if periodMonths < 1 {
		periodMonths = 1
	}
	months := decimal.NewFromInt(int64(periodMonths))

	overall := stats.Summarize(transactions)
	monthlyIncome := overall.TotalIncome.Div(months)
	monthlyExpenses := overall.TotalExpenses.Div(months)
	monthlySavings := overall.NetSavings.Div(months)

	budgets := make(map[string]decimal.Decimal, len(budgetStatus))
	for _, s := range budgetStatus {
		budgets[s.Category] = s.MonthlyBudget
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "PERIOD: %d months of data\n\n", periodMonths)
	sb.WriteString("OVERALL METRICS:\n")
	fmt.Fprintf(&sb, "- Monthly Income: %s kr\n", monthlyIncome.StringFixed(0))
	fmt.Fprintf(&sb, "- Monthly Expenses: %s kr\n", monthlyExpenses.StringFixed(0))
	fmt.Fprintf(&sb, "- Monthly Net Savings: %s kr\n", monthlySavings.StringFixed(0))
	fmt.Fprintf(&sb, "- Savings Rate: %.1f%%\n", overall.SavingsRate)

	sb.WriteString("\nMONTHLY SPENDING BY CATEGORY:\n")
	for _, c := range categoryMonthlySpend(transactions, months) {
		if budget, ok := budgets[c.category]; ok {
			pct := 0.0
			if budget.IsPositive() {
				pct = c.amount.Div(budget).InexactFloat64() * 100
			}
			fmt.Fprintf(&sb, "- %s: %s kr (Budget: %s kr, %.0f%%)\n", c.category, c.amount.StringFixed(0), budget.StringFixed(0), pct)
		} else {
			fmt.Fprintf(&sb, "- %s: %s kr\n", c.category, c.amount.StringFixed(0))
		}
	}

	var overBudget []types.BudgetStatus
	for _, s := range budgetStatus {
		if s.Spent.Div(months).GreaterThan(s.MonthlyBudget) {
			overBudget = append(overBudget, s)
		}
	}
	if len(overBudget) > 0 {
		fmt.Fprintf(&sb, "\nOVER BUDGET CATEGORIES (%d):\n", len(overBudget))
		for _, s := range overBudget {
			overage := s.Spent.Div(months).Sub(s.MonthlyBudget)
			fmt.Fprintf(&sb, "- %s: %s kr over budget monthly\n", s.Category, overage.StringFixed(0))
		}
	}

	if trend, ok := recentTrend(transactions); ok {
		direction := "increased"
		if trend < 0 {
			direction = "decreased"
		}
		fmt.Fprintf(&sb, "\nRECENT TREND: Spending %s by %.1f%% over last 3 months\n", direction, abs(trend))
	}

	return sb.String()
}

type categorySpend struct {
	category string
	amount   decimal.Decimal
}

func categoryMonthlySpend(transactions []types.Transaction, months decimal.Decimal) []categorySpend {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range transactions {
		if t.Type != types.TransactionTypeExpense {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] = totals[t.Category].Add(t.AbsAmount)
	}

	spend := make([]categorySpend, 0, len(order))
	for _, category := range order {
		spend = append(spend, categorySpend{category: category, amount: totals[category].Div(months)})
	}
	sort.SliceStable(spend, func(i, j int) bool {
		if !spend[i].amount.Equal(spend[j].amount) {
			return spend[i].amount.GreaterThan(spend[j].amount)
		}
		return spend[i].category < spend[j].category
	})
	return spend
}

// recentTrend reports the percent change between the earliest and latest of
// the last three monthly expense totals. Needs at least two monthly buckets.
func recentTrend(transactions []types.Transaction) (float64, bool) {
	totals := make(map[int]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != types.TransactionTypeExpense {
			continue
		}
		key := t.Year*100 + t.Month
		totals[key] = totals[key].Add(t.AbsAmount)
	}
	if len(totals) < 2 {
		return 0, false
	}

	keys := make([]int, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	if len(keys) > 3 {
		keys = keys[len(keys)-3:]
	}

	first := totals[keys[0]]
	last := totals[keys[len(keys)-1]]
	if !first.IsPositive() {
		return 0, false
	}
	return last.Sub(first).Div(first).InexactFloat64() * 100, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
