// Package budget compares categorized expense spending against per-category
// monthly budget targets and can suggest budgets from spending history.
//
// Budgets and category keyword rules are independent maps keyed by the same
// string space; nothing enforces referential integrity between them. A
// budget for a category no rule produces is legal and simply never accrues
// spending. This decoupling is deliberate, it is what makes custom
// categories possible.
package budget

import (
	"math"
	"sort"
	"time"

	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
)

// avgDaysPerMonth converts a date span into elapsed months.
const avgDaysPerMonth = 30.44

// DefaultMultiplier is the headroom applied by Suggest.
const DefaultMultiplier = 1.2

// Budgets maps category names to monthly budget amounts.
type Budgets map[string]decimal.Decimal

// DefaultBudgets returns monthly targets for the nine default expense
// categories, in kronor.
func DefaultBudgets() Budgets {
	return Budgets{
		"Food & Groceries": decimal.NewFromInt(5000),
		"Transportation":   decimal.NewFromInt(4500),
		"Entertainment":    decimal.NewFromInt(1000),
		"Shopping":         decimal.NewFromInt(2000),
		"Housing":          decimal.NewFromInt(15000),
		"Utilities":        decimal.NewFromInt(1000),
		"Dining Out":       decimal.NewFromInt(3000),
		"Healthcare":       decimal.NewFromInt(500),
		"Other":            decimal.NewFromInt(1500),
	}
}

// Status compares period spending against each configured budget, sorted
// descending by percent used. Iteration is over budget keys: observed
// categories without a budget entry are invisible here. Spent amounts are
// period totals; callers divide by the period's month count for monthly
// averages.
func Status(expenses []types.Transaction, budgets Budgets) []types.BudgetStatus {
	spentByCategory := make(map[string]decimal.Decimal, len(budgets))
	for _, t := range expenses {
		if t.Type != types.TransactionTypeExpense {
			continue
		}
		spentByCategory[t.Category] = spentByCategory[t.Category].Add(t.AbsAmount)
	}

	statuses := make([]types.BudgetStatus, 0, len(budgets))
	for category, monthlyBudget := range budgets {
		spent := spentByCategory[category]
		status := types.BudgetStatus{
			Category:      category,
			MonthlyBudget: monthlyBudget,
			Spent:         spent,
			Remaining:     monthlyBudget.Sub(spent),
			Status:        types.BudgetWithin,
		}
		if monthlyBudget.IsPositive() {
			status.PercentUsed = spent.Div(monthlyBudget).InexactFloat64() * 100
		}
		if spent.GreaterThan(monthlyBudget) {
			status.Status = types.BudgetOver
		}
		statuses = append(statuses, status)
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		if statuses[i].PercentUsed != statuses[j].PercentUsed {
			return statuses[i].PercentUsed > statuses[j].PercentUsed
		}
		return statuses[i].Category < statuses[j].Category
	})
	return statuses
}

// Suggest derives budgets from spending history: monthly average spend per
// category times the multiplier, rounded to the nearest 100. A one-shot
// heuristic, the caller decides whether to adopt it.
func Suggest(expenses []types.Transaction, multiplier float64) Budgets {
	if len(expenses) == 0 {
		return Budgets{}
	}

	totals := make(map[string]decimal.Decimal)
	for _, t := range expenses {
		if t.Type != types.TransactionTypeExpense {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.AbsAmount)
	}

	first, last := dateSpan(expenses)
	months := last.Sub(first).Hours() / 24 / avgDaysPerMonth
	if months < 1 {
		months = 1
	}

	suggested := make(Budgets, len(totals))
	factor := decimal.NewFromFloat(multiplier / months)
	hundred := decimal.NewFromInt(100)
	for category, total := range totals {
		suggested[category] = total.Mul(factor).Div(hundred).Round(0).Mul(hundred)
	}
	return suggested
}

// Months reports how many months of data a table spans, rounded, never
// less than 1. Used by callers to turn period totals into monthly averages.
func Months(transactions []types.Transaction) int {
	if len(transactions) == 0 {
		return 1
	}
	first, last := dateSpan(transactions)
	months := int(math.Round(last.Sub(first).Hours() / 24 / avgDaysPerMonth))
	if months < 1 {
		return 1
	}
	return months
}

func dateSpan(transactions []types.Transaction) (first, last time.Time) {
	first, last = transactions[0].Date, transactions[0].Date
	for _, t := range transactions[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}
	return first, last
}
