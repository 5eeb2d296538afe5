package recurring

import (
	"testing"
	"time"

	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(description string, amount float64, date time.Time) types.Transaction {
	t := types.NewTransaction(date, description, decimal.NewFromFloat(amount), "Personal")
	t.Category = "Entertainment"
	return t
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestDetectMonthlySubscription(t *testing.T) {
	expenses := []types.Transaction{
		payment("Netflix", -139, date(2024, 1, 15)),
		payment("Netflix", -139, date(2024, 2, 15)),
		payment("Netflix", -139, date(2024, 3, 16)),
		payment("One Off Purchase", -500, date(2024, 2, 1)),
	}

	payments := Detect(expenses, DefaultMinOccurrences)
	require.Len(t, payments, 1)

	netflix := payments[0]
	assert.Equal(t, "Netflix", netflix.Description)
	assert.True(t, netflix.Amount.Equal(decimal.NewFromInt(139)))
	assert.Equal(t, FrequencyMonthly, netflix.Frequency)
	assert.Equal(t, 3, netflix.Occurrences)
	assert.True(t, netflix.FirstDate.Equal(date(2024, 1, 15)))
	assert.True(t, netflix.LastDate.Equal(date(2024, 3, 16)))
	assert.Equal(t, "Entertainment", netflix.Category)
}

func TestDetectMinOccurrencesBoundary(t *testing.T) {
	expenses := []types.Transaction{
		payment("Gym", -399, date(2024, 1, 1)),
		payment("Gym", -399, date(2024, 2, 1)),
	}

	assert.Empty(t, Detect(expenses, 3))

	payments := Detect(expenses, 2)
	require.Len(t, payments, 1)
	assert.Equal(t, FrequencyMonthly, payments[0].Frequency)
}

func TestDetectRejectsUnstableAmounts(t *testing.T) {
	expenses := []types.Transaction{
		payment("Groceries", -300, date(2024, 1, 1)),
		payment("Groceries", -450, date(2024, 2, 1)),
		payment("Groceries", -600, date(2024, 3, 1)),
	}
	assert.Empty(t, Detect(expenses, 3))
}

func TestDetectToleratesSmallAmountDrift(t *testing.T) {
	// Within the 5% coefficient-of-variation cutoff
	expenses := []types.Transaction{
		payment("Electricity", -1000, date(2024, 1, 1)),
		payment("Electricity", -1020, date(2024, 2, 1)),
		payment("Electricity", -980, date(2024, 3, 1)),
	}
	payments := Detect(expenses, 3)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(1000)))
}

func TestDetectIgnoresIncome(t *testing.T) {
	transactions := []types.Transaction{
		payment("Salary", 30000, date(2024, 1, 25)),
		payment("Salary", 30000, date(2024, 2, 25)),
		payment("Salary", 30000, date(2024, 3, 25)),
	}
	assert.Empty(t, Detect(transactions, 3))
}

func TestDetectSortsByAmountDescending(t *testing.T) {
	expenses := []types.Transaction{
		payment("Spotify", -119, date(2024, 1, 5)),
		payment("Spotify", -119, date(2024, 2, 5)),
		payment("Spotify", -119, date(2024, 3, 5)),
		payment("Rent", -12000, date(2024, 1, 1)),
		payment("Rent", -12000, date(2024, 2, 1)),
		payment("Rent", -12000, date(2024, 3, 1)),
	}
	payments := Detect(expenses, 3)
	require.Len(t, payments, 2)
	assert.Equal(t, "Rent", payments[0].Description)
	assert.Equal(t, "Spotify", payments[1].Description)
}

func TestClassifyFrequency(t *testing.T) {
	tests := []struct {
		name     string
		interval float64
		want     string
	}{
		{"weekly_low", 6, FrequencyWeekly},
		{"weekly_high", 8, FrequencyWeekly},
		{"monthly_low", 25, FrequencyMonthly},
		{"monthly", 30.5, FrequencyMonthly},
		{"monthly_high", 35, FrequencyMonthly},
		{"quarterly", 91, FrequencyQuarterly},
		{"yearly", 365, FrequencyYearly},
		{"fortnight_gap", 14, "Every 14 days"},
		{"between_buckets", 50.4, "Every 50 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyFrequency(tt.interval))
		})
	}
}

func TestTotals(t *testing.T) {
	payments := []types.RecurringPayment{
		{Amount: decimal.NewFromInt(100), Frequency: FrequencyMonthly},
		{Amount: decimal.NewFromInt(300), Frequency: FrequencyQuarterly},
		{Amount: decimal.NewFromInt(1200), Frequency: FrequencyYearly},
		{Amount: decimal.NewFromInt(100), Frequency: FrequencyWeekly},
	}
	totals := Totals(payments)
	// 100 + 100 + 100 + 433
	assert.True(t, totals.MonthlyTotal.Equal(decimal.NewFromInt(733)), "got %s", totals.MonthlyTotal)
	assert.True(t, totals.YearlyTotal.Equal(decimal.NewFromInt(8796)), "got %s", totals.YearlyTotal)
	assert.Equal(t, 4, totals.Count)
}

func TestTotalsFreeFormInterval(t *testing.T) {
	payments := []types.RecurringPayment{
		{Amount: decimal.NewFromInt(100), Frequency: "Every 14 days", AvgIntervalDays: 14},
	}
	totals := Totals(payments)
	// 100 * 30.44/14 = 217.43
	assert.True(t, totals.MonthlyTotal.Equal(decimal.NewFromFloat(217.43)), "got %s", totals.MonthlyTotal)
}

func TestTotalsEmpty(t *testing.T) {
	totals := Totals(nil)
	assert.True(t, totals.MonthlyTotal.IsZero())
	assert.True(t, totals.YearlyTotal.IsZero())
	assert.Equal(t, 0, totals.Count)
}
