package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/finsight/spending-analyzer/internal/budget"
	"github.com/finsight/spending-analyzer/internal/categorize"
	"github.com/finsight/spending-analyzer/internal/commands"
	"github.com/finsight/spending-analyzer/internal/ingest"
	"github.com/finsight/spending-analyzer/internal/recurring"
	"github.com/finsight/spending-analyzer/internal/stats"
	"github.com/finsight/spending-analyzer/internal/types"
	"golang.org/x/sync/errgroup"
)

type CLI struct {
	commands.CommonConfig
	commands.CompletionConfig

	Files            []string `arg:"" help:"Transaction files to analyze (CSV or Excel)" type:"existingfile"`
	UseAI            bool     `help:"Categorize transactions with the completion service instead of keyword rules" default:"false"`
	MinOccurrences   int      `help:"Minimum occurrences for recurring payment detection" default:"3"`
	BudgetMultiplier float64  `help:"Headroom multiplier for suggested budgets" default:"1.2"`
	SuggestBudgets   bool     `help:"Suggest budgets from spending history instead of using defaults" default:"false"`
	ExportFile       string   `help:"Write the categorized transactions to a CSV file"`
	NoProgress       bool     `help:"Disable progress bar" default:"false"`
}

func (c *CLI) Run() error {
	logger, err := commands.SetupLogger(c.CommonConfig)
	if err != nil {
		return err
	}

	if c.MinOccurrences < recurring.MinOccurrencesFloor || c.MinOccurrences > recurring.MinOccurrencesCeil {
		return fmt.Errorf("min-occurrences must be between %d and %d", recurring.MinOccurrencesFloor, recurring.MinOccurrencesCeil)
	}

	transactions, err := commands.LoadTransactions(c.Files, !c.NoProgress, logger)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		return fmt.Errorf("no valid transactions found in input")
	}
	logger.Info("Loaded transactions", "count", len(transactions), "files", len(c.Files))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rules := categorize.DefaultRules()
	transactions = c.categorize(ctx, transactions, rules, logger)

	budgets := budget.DefaultBudgets()
	if c.SuggestBudgets {
		budgets = budget.Suggest(types.Expenses(transactions), c.BudgetMultiplier)
		logger.Info("Using suggested budgets", "categories", len(budgets))
	}

	expenses := types.Expenses(transactions)

	var (
		summary      stats.Summary
		categories   []types.CategorySummary
		budgetStatus []types.BudgetStatus
		payments     []types.RecurringPayment
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary = stats.Summarize(transactions)
		categories = categorize.Summarize(transactions)
		return nil
	})
	g.Go(func() error {
		budgetStatus = budget.Status(expenses, budgets)
		return nil
	})
	g.Go(func() error {
		payments = recurring.Detect(expenses, c.MinOccurrences)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	printReport(transactions, summary, categories, budgetStatus, payments, budgets, c.SuggestBudgets)

	if c.ExportFile != "" {
		if err := exportCSV(c.ExportFile, transactions); err != nil {
			return err
		}
		logger.Info("Exported categorized transactions", "file", c.ExportFile)
	}
	return nil
}

// categorize assigns categories via the completion service when requested,
// falling back to keyword rules if the provider cannot be set up.
func (c *CLI) categorize(ctx context.Context, transactions []types.Transaction, rules categorize.Rules, logger *log.Logger) []types.Transaction {
	if !c.UseAI {
		return categorize.CategorizeRules(transactions, rules)
	}

	completer, err := commands.SetupCompleter(ctx, c.CompletionConfig, logger)
	if err != nil {
		logger.Warn("Completion provider unavailable, falling back to keyword rules", "error", err)
		return categorize.CategorizeRules(transactions, rules)
	}
	defer commands.CloseCompleter(completer, logger)

	return categorize.CategorizeAI(ctx, completer, logger, transactions, rules)
}

func printReport(transactions []types.Transaction, summary stats.Summary, categories []types.CategorySummary, budgetStatus []types.BudgetStatus, payments []types.RecurringPayment, budgets budget.Budgets, suggested bool) {
	first, last := stats.DateRange(transactions)
	months := budget.Months(transactions)

	fmt.Println("SPENDING ANALYSIS")
	fmt.Println("=================")
	fmt.Printf("Period: %s to %s (%d month(s), %d transactions)\n\n",
		first.Format("2006-01-02"), last.Format("2006-01-02"), months, summary.Count)

	fmt.Printf("Total Income:       %12s kr\n", summary.TotalIncome.StringFixed(0))
	fmt.Printf("Total Expenses:     %12s kr\n", summary.TotalExpenses.StringFixed(0))
	fmt.Printf("Net Savings:        %12s kr (%.1f%%)\n", summary.NetSavings.StringFixed(0), summary.SavingsRate)
	fmt.Printf("Avg Transaction:    %12s kr\n\n", summary.AvgTransaction.StringFixed(0))

	fmt.Println("SPENDING BY CATEGORY")
	for _, c := range categories {
		fmt.Printf("  %-20s %12s kr  (%d transactions, avg %s kr)\n",
			c.Category, c.Total.StringFixed(0), c.Count, c.Average.StringFixed(0))
	}
	fmt.Println()

	title := "BUDGET STATUS"
	if suggested {
		title = "BUDGET STATUS (suggested budgets)"
	}
	fmt.Println(title)
	fmt.Printf("  Spent amounts are totals over %d month(s) of data\n", months)
	for _, status := range budgetStatus {
		fmt.Printf("  %-20s %10s / %s kr  %6.1f%%  %s\n",
			status.Category, status.Spent.StringFixed(0), status.MonthlyBudget.StringFixed(0),
			status.PercentUsed, status.Status)
	}
	fmt.Println()

	totals := recurring.Totals(payments)
	fmt.Printf("RECURRING PAYMENTS (%d found)\n", totals.Count)
	for _, p := range payments {
		fmt.Printf("  %-30s %10s kr  %-12s %d occurrences  [%s]\n",
			p.Description, p.Amount.StringFixed(0), p.Frequency, p.Occurrences, p.Category)
	}
	if totals.Count > 0 {
		fmt.Printf("  Monthly recurring cost: %s kr (%s kr/year)\n",
			totals.MonthlyTotal.StringFixed(0), totals.YearlyTotal.StringFixed(0))
	}

	if suggested {
		fmt.Println()
		fmt.Println("SUGGESTED MONTHLY BUDGETS")
		names := make([]string, 0, len(budgets))
		for name := range budgets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-20s %10s kr\n", name, budgets[name].StringFixed(0))
		}
	}
}

func exportCSV(path string, transactions []types.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	if err := ingest.WriteCSV(f, transactions); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("spending-analyzer"),
		kong.Description("Analyze bank transactions: categorization, budgets, and recurring payments"),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
