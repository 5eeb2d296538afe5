// Package stats computes period summary statistics and simple filters over
// the canonical transaction table.
package stats

import (
	"time"

	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
)

// Summary holds the headline metrics for an analysis period.
type Summary struct {
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	NetSavings     decimal.Decimal
	AvgTransaction decimal.Decimal
	SavingsRate    float64
	Count          int
}

// Summarize computes income, expense, and savings totals over a table.
// SavingsRate is 0 when there is no income.
func Summarize(transactions []types.Transaction) Summary {
	s := Summary{Count: len(transactions)}
	absSum := decimal.Zero
	for _, t := range transactions {
		if t.Amount.IsPositive() {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(t.AbsAmount)
		}
		absSum = absSum.Add(t.AbsAmount)
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpenses)
	if s.TotalIncome.IsPositive() {
		s.SavingsRate = s.NetSavings.Div(s.TotalIncome).InexactFloat64() * 100
	}
	if s.Count > 0 {
		s.AvgTransaction = absSum.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	return s
}

// DateRange returns the earliest and latest transaction dates.
func DateRange(transactions []types.Transaction) (first, last time.Time) {
	if len(transactions) == 0 {
		return time.Time{}, time.Time{}
	}
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

// FilterByDateRange keeps transactions dated within [start, end] inclusive.
func FilterByDateRange(transactions []types.Transaction, start, end time.Time) []types.Transaction {
	filtered := make([]types.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// FilterByType keeps transactions of the given type; an empty type keeps
// everything.
func FilterByType(transactions []types.Transaction, transactionType types.TransactionType) []types.Transaction {
	if transactionType == "" {
		return transactions
	}
	filtered := make([]types.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Type == transactionType {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
