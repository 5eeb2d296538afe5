// Package recurring detects subscription-like payment patterns: groups of
// expense transactions sharing a description whose amounts are stable and
// whose dates repeat at a near-regular interval.
package recurring

import (
	"fmt"
	"math"
	"sort"

	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
)

// Frequency labels for the canonical billing periods.
const (
	FrequencyWeekly    = "Weekly"
	FrequencyMonthly   = "Monthly"
	FrequencyQuarterly = "Quarterly"
	FrequencyYearly    = "Yearly"
)

// Occurrence threshold bounds for the detector's configuration surface.
const (
	DefaultMinOccurrences = 3
	MinOccurrencesFloor   = 2
	MinOccurrencesCeil    = 10
)

// maxAmountVariation is the coefficient-of-variation cutoff: amounts that
// drift more than 5% around their mean are irregular purchases, not a
// subscription.
const maxAmountVariation = 0.05

// avgDaysPerMonth and avgWeeksPerMonth normalize billing periods to months.
const (
	avgDaysPerMonth  = 30.44
	avgWeeksPerMonth = 4.33
)

// Detect finds recurring payments among expense transactions, sorted
// descending by amount. A description qualifies when it occurs at least
// minOccurrences times with stable amounts and at least one day-gap
// between occurrences. The category comes from the earliest occurrence.
func Detect(expenses []types.Transaction, minOccurrences int) []types.RecurringPayment {
	groups := make(map[string][]types.Transaction)
	var order []string
	for _, t := range expenses {
		if t.Type != types.TransactionTypeExpense {
			continue
		}
		if _, seen := groups[t.Description]; !seen {
			order = append(order, t.Description)
		}
		groups[t.Description] = append(groups[t.Description], t)
	}

	var payments []types.RecurringPayment
	for _, description := range order {
		occurrences := groups[description]
		if len(occurrences) < minOccurrences {
			continue
		}

		mean, ok := stableAmountMean(occurrences)
		if !ok {
			continue
		}

		sort.SliceStable(occurrences, func(i, j int) bool {
			return occurrences[i].Date.Before(occurrences[j].Date)
		})

		gaps := dayGaps(occurrences)
		if len(gaps) == 0 {
			continue
		}
		avgInterval := meanFloat(gaps)

		payments = append(payments, types.RecurringPayment{
			Description:     description,
			Amount:          mean,
			Frequency:       classifyFrequency(avgInterval),
			Occurrences:     len(occurrences),
			FirstDate:       occurrences[0].Date,
			LastDate:        occurrences[len(occurrences)-1].Date,
			Category:        occurrences[0].Category,
			AvgIntervalDays: avgInterval,
		})
	}

	sort.SliceStable(payments, func(i, j int) bool {
		if !payments[i].Amount.Equal(payments[j].Amount) {
			return payments[i].Amount.GreaterThan(payments[j].Amount)
		}
		return payments[i].Description < payments[j].Description
	})
	return payments
}

// stableAmountMean returns the mean absolute amount when the coefficient of
// variation (stddev/mean) stays within the stability cutoff.
func stableAmountMean(occurrences []types.Transaction) (decimal.Decimal, bool) {
	sum := decimal.Zero
	for _, t := range occurrences {
		sum = sum.Add(t.AbsAmount)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(occurrences))))

	meanF := mean.InexactFloat64()
	var variance float64
	for _, t := range occurrences {
		d := t.AbsAmount.InexactFloat64() - meanF
		variance += d * d
	}
	variance /= float64(len(occurrences))

	cv := 0.0
	if meanF > 0 {
		cv = math.Sqrt(variance) / meanF
	}
	if cv > maxAmountVariation {
		return decimal.Decimal{}, false
	}
	return mean.Round(2), true
}

func dayGaps(occurrences []types.Transaction) []float64 {
	var gaps []float64
	for i := 1; i < len(occurrences); i++ {
		days := occurrences[i].Date.Sub(occurrences[i-1].Date).Hours() / 24
		gaps = append(gaps, days)
	}
	return gaps
}

func meanFloat(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// classifyFrequency buckets an average day interval into a billing period.
// Boundaries are inclusive tolerances around the canonical periods, since
// real billing dates drift.
func classifyFrequency(avgInterval float64) string {
	switch {
	case avgInterval >= 6 && avgInterval <= 8:
		return FrequencyWeekly
	case avgInterval >= 25 && avgInterval <= 35:
		return FrequencyMonthly
	case avgInterval >= 85 && avgInterval <= 95:
		return FrequencyQuarterly
	case avgInterval >= 355 && avgInterval <= 375:
		return FrequencyYearly
	default:
		return fmt.Sprintf("Every %d days", int(math.Round(avgInterval)))
	}
}

// Totals normalizes every recurring payment to its monthly equivalent and
// sums them: Monthly as-is, Quarterly over three months, Yearly over
// twelve, Weekly times the average weeks per month, and free-form intervals
// prorated by the average month length.
func Totals(payments []types.RecurringPayment) types.RecurringTotals {
	monthly := decimal.Zero
	for _, p := range payments {
		switch p.Frequency {
		case FrequencyMonthly:
			monthly = monthly.Add(p.Amount)
		case FrequencyQuarterly:
			monthly = monthly.Add(p.Amount.Div(decimal.NewFromInt(3)))
		case FrequencyYearly:
			monthly = monthly.Add(p.Amount.Div(decimal.NewFromInt(12)))
		case FrequencyWeekly:
			monthly = monthly.Add(p.Amount.Mul(decimal.NewFromFloat(avgWeeksPerMonth)))
		default:
			if p.AvgIntervalDays > 0 {
				monthly = monthly.Add(p.Amount.Mul(decimal.NewFromFloat(avgDaysPerMonth / p.AvgIntervalDays)))
			}
		}
	}
	return types.RecurringTotals{
		MonthlyTotal: monthly.Round(2),
		YearlyTotal:  monthly.Mul(decimal.NewFromInt(12)).Round(2),
		Count:        len(payments),
	}
}
