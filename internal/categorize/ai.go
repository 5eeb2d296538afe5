package categorize

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/finsight/spending-analyzer/internal/completion"
	"github.com/finsight/spending-analyzer/internal/types"
	"golang.org/x/exp/slices"
)

// aiBatchLimit caps how many transactions go into one classification prompt.
// Transactions past the cap are categorized by keyword rules; large tables
// therefore get mixed AI/rule assignments. Known limitation, kept for prompt
// size control.
const aiBatchLimit = 50

var aiParams = completion.Params{
	MaxTokens:   1024,
	Temperature: 0.3,
}

// CategorizeAI classifies transactions with one request to the completion
// service, naming the fixed category vocabulary and expecting a
// comma-separated list of labels in transaction order. Degradation policy:
// a service error falls back to keyword rules for the whole batch, a label
// shortfall or an out-of-vocabulary label falls back per transaction.
// Never returns an error.
func CategorizeAI(ctx context.Context, completer completion.Completer, logger *log.Logger, transactions []types.Transaction, rules Rules) []types.Transaction {
	if len(transactions) == 0 {
		return nil
	}

	batch := transactions
	if len(batch) > aiBatchLimit {
		batch = batch[:aiBatchLimit]
	}

	response, err := completer.Complete(ctx, classificationPrompt(batch, rules), aiParams)
	if err != nil {
		logger.Warn("AI categorization failed, falling back to keyword rules", "error", err, "transactions", len(transactions))
		return CategorizeRules(transactions, rules)
	}

	labels := strings.Split(response, ",")
	valid := make(map[string]bool, len(rules)+1)
	for _, name := range rules.Categories() {
		valid[name] = true
	}

	categorized := slices.Clone(transactions)
	var fallbacks int
	for i := range categorized {
		category := ""
		if i < len(batch) && i < len(labels) {
			category = strings.TrimSpace(labels[i])
		}
		if !valid[category] {
			category = rules.Categorize(categorized[i].Description)
			fallbacks++
		}
		categorized[i].Category = category
	}

	logger.Debug("AI categorization completed",
		"transactions", len(transactions),
		"batch", len(batch),
		"labels", len(labels),
		"rule_fallbacks", fallbacks)
	return categorized
}

func classificationPrompt(batch []types.Transaction, rules Rules) string {
	var sb strings.Builder
	sb.WriteString("Categorize these financial transactions into appropriate categories.\n\n")
	sb.WriteString("Available categories:\n")
	for _, name := range rules.Categories() {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	sb.WriteString("\nTransactions:\n")
	for i, t := range batch {
		fmt.Fprintf(&sb, "%d. %s (%s kr)\n", i+1, t.Description, t.Amount)
	}
	sb.WriteString("\nReturn ONLY a comma-separated list of categories in the same order as transactions.\n")
	sb.WriteString("Example: Food & Groceries,Transportation,Entertainment,...\n\nCategories:")
	return sb.String()
}
