package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySummary aggregates expense spending for a single category.
type CategorySummary struct {
	Category string
	Total    decimal.Decimal
	Average  decimal.Decimal
	Count    int
}

// BudgetState indicates whether spending stayed inside a budget target.
type BudgetState string

const (
	BudgetWithin BudgetState = "WithinBudget"
	BudgetOver   BudgetState = "OverBudget"
)

// BudgetStatus compares actual period spending in one category against its
// configured monthly budget. Derived per call, never persisted.
type BudgetStatus struct {
	Category      string
	MonthlyBudget decimal.Decimal
	Spent         decimal.Decimal
	Remaining     decimal.Decimal
	PercentUsed   float64
	Status        BudgetState
}

// RecurringPayment is a description-grouped transaction pattern judged
// periodic and amount-stable by the detector.
type RecurringPayment struct {
	Description     string
	Amount          decimal.Decimal
	Frequency       string
	Occurrences     int
	FirstDate       time.Time
	LastDate        time.Time
	Category        string
	AvgIntervalDays float64
}

// RecurringTotals normalizes all recurring payments to monthly and yearly
// equivalents.
type RecurringTotals struct {
	MonthlyTotal decimal.Decimal
	YearlyTotal  decimal.Decimal
	Count        int
}

// Recommendation priorities as emitted by the insight layout.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// Recommendation is one actionable suggestion from the insight generator.
// Fields missing from the response text are left empty.
type Recommendation struct {
	Priority string
	Category string
	Action   string
	Impact   string
}

// InsightBundle is the structured result of parsing an AI-generated
// financial analysis.
type InsightBundle struct {
	Insights        []string
	Recommendations []Recommendation
}
