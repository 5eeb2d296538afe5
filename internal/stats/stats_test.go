package stats

import (
	"testing"
	"time"

	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transaction(description string, amount float64, date time.Time) types.Transaction {
	return types.NewTransaction(date, description, decimal.NewFromFloat(amount), "Personal")
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	transactions := []types.Transaction{
		transaction("Salary", 30000, date(2024, 1, 25)),
		transaction("Rent", -12000, date(2024, 1, 1)),
		transaction("Groceries", -3000, date(2024, 1, 10)),
	}

	summary := Summarize(transactions)
	assert.Equal(t, 3, summary.Count)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(30000)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(15000)))
	assert.True(t, summary.NetSavings.Equal(decimal.NewFromInt(15000)))
	assert.InDelta(t, 50.0, summary.SavingsRate, 0.001)
	assert.True(t, summary.AvgTransaction.Equal(decimal.NewFromInt(15000)))
}

func TestSummarizeNoIncome(t *testing.T) {
	transactions := []types.Transaction{
		transaction("Rent", -12000, date(2024, 1, 1)),
	}
	summary := Summarize(transactions)
	assert.InDelta(t, 0.0, summary.SavingsRate, 0.001)
	assert.True(t, summary.NetSavings.Equal(decimal.NewFromInt(-12000)))
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Count)
	assert.True(t, summary.AvgTransaction.IsZero())
}

func TestDateRange(t *testing.T) {
	transactions := []types.Transaction{
		transaction("B", -10, date(2024, 2, 1)),
		transaction("C", -10, date(2024, 3, 1)),
		transaction("A", -10, date(2024, 1, 1)),
	}
	first, last := DateRange(transactions)
	assert.True(t, first.Equal(date(2024, 1, 1)))
	assert.True(t, last.Equal(date(2024, 3, 1)))
}

func TestDateRangeEmpty(t *testing.T) {
	first, last := DateRange(nil)
	assert.True(t, first.IsZero())
	assert.True(t, last.IsZero())
}

func TestFilterByDateRange(t *testing.T) {
	transactions := []types.Transaction{
		transaction("Before", -10, date(2024, 1, 1)),
		transaction("Start", -10, date(2024, 2, 1)),
		transaction("End", -10, date(2024, 2, 29)),
		transaction("After", -10, date(2024, 3, 1)),
	}
	filtered := FilterByDateRange(transactions, date(2024, 2, 1), date(2024, 2, 29))
	require.Len(t, filtered, 2)
	assert.Equal(t, "Start", filtered[0].Description)
	assert.Equal(t, "End", filtered[1].Description)
}

func TestFilterByType(t *testing.T) {
	transactions := []types.Transaction{
		transaction("Salary", 30000, date(2024, 1, 25)),
		transaction("Rent", -12000, date(2024, 1, 1)),
	}

	income := FilterByType(transactions, types.TransactionTypeIncome)
	require.Len(t, income, 1)
	assert.Equal(t, "Salary", income[0].Description)

	all := FilterByType(transactions, "")
	assert.Len(t, all, 2)
}
