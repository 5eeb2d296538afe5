// Package categorize assigns spending categories to transactions, either by
// keyword rules or by a single batched request to a text-completion service
// with the rules as a deterministic fallback.
package categorize

import (
	"strings"

	"github.com/finsight/spending-analyzer/internal/types"
	"golang.org/x/exp/slices"
)

// CategoryOther is assigned when no keyword matches.
const CategoryOther = "Other"

// Rule maps one category to the keywords that identify it.
type Rule struct {
	Category string
	Keywords []string
}

// Rules is an ordered category rule set. Order matters: the first category
// with a matching keyword wins.
type Rules []Rule

// DefaultRules covers the nine default categories. Keyword sets mix common
// Swedish merchants with generic English terms.
func DefaultRules() Rules {
	return Rules{
		{Category: "Food & Groceries", Keywords: []string{"ICA", "Coop", "Hemköp", "Willys", "Supermarket", "Groceries"}},
		{Category: "Transportation", Keywords: []string{"SL", "Shell", "Circle K", "Gas", "Fuel", "Parking"}},
		{Category: "Entertainment", Keywords: []string{"Netflix", "Spotify", "HBO", "Steam", "Cinema"}},
		{Category: "Shopping", Keywords: []string{"H&M", "Elgiganten", "IKEA", "Amazon", "Clothing"}},
		{Category: "Housing", Keywords: []string{"Rent", "Landlord", "Electricity", "Vattenfall", "Water"}},
		{Category: "Utilities", Keywords: []string{"Telia", "Telenor", "Internet", "Phone", "Mobile"}},
		{Category: "Dining Out", Keywords: []string{"Restaurant", "Max", "McDonalds", "Cafe", "Bar"}},
		{Category: "Healthcare", Keywords: []string{"Apoteket", "Pharmacy", "Doctor", "Hospital"}},
		{Category: "Income", Keywords: []string{"Salary", "Deposit", "Transfer In", "Payment Received"}},
	}
}

// Categorize returns the first category with a case-insensitive keyword
// substring match against the description, or CategoryOther.
func (r Rules) Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range r {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// Categories returns the category vocabulary including CategoryOther.
func (r Rules) Categories() []string {
	names := make([]string, 0, len(r)+1)
	for _, rule := range r {
		names = append(names, rule.Category)
	}
	return append(names, CategoryOther)
}

// CategorizeRules assigns a category to every transaction using keyword
// rules. The input slice is not mutated.
func CategorizeRules(transactions []types.Transaction, rules Rules) []types.Transaction {
	categorized := slices.Clone(transactions)
	for i := range categorized {
		categorized[i].Category = rules.Categorize(categorized[i].Description)
	}
	return categorized
}
