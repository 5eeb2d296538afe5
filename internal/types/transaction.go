package types

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction by the sign of its amount
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"
)

// Transaction is one row of the canonical transaction table. The derived
// fields (Year through AbsAmount) are computed once by NewTransaction and
// must never be updated independently of Date and Amount.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Account     string

	Year      int
	Month     int
	MonthName string
	DayOfWeek string
	Type      TransactionType
	AbsAmount decimal.Decimal

	// Category is empty until a categorizer runs
	Category string
}

// NewTransaction builds a transaction with all derived fields populated.
// Positive amounts are income, everything else is an expense.
func NewTransaction(date time.Time, description string, amount decimal.Decimal, account string) Transaction {
	t := Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Account:     account,
		Year:        date.Year(),
		Month:       int(date.Month()),
		MonthName:   date.Month().String(),
		DayOfWeek:   date.Weekday().String(),
		AbsAmount:   amount.Abs(),
	}
	if amount.IsPositive() {
		t.Type = TransactionTypeIncome
	} else {
		t.Type = TransactionTypeExpense
	}
	return t
}

// SortByDateDesc sorts the table into canonical order, newest first.
// The sort is stable so equal dates keep their input order and repeated
// ingestion of the same file yields an identical table.
func SortByDateDesc(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
}

// Expenses returns only the expense rows of a table, in order.
func Expenses(transactions []Transaction) []Transaction {
	expenses := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Type == TransactionTypeExpense {
			expenses = append(expenses, t)
		}
	}
	return expenses
}
