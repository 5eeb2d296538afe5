package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/finsight/spending-analyzer/internal/budget"
	"github.com/finsight/spending-analyzer/internal/categorize"
	"github.com/finsight/spending-analyzer/internal/commands"
	"github.com/finsight/spending-analyzer/internal/insights"
	"github.com/finsight/spending-analyzer/internal/types"
)

type CLI struct {
	commands.CommonConfig
	commands.CompletionConfig

	Files      []string `arg:"" help:"Transaction files to analyze (CSV or Excel)" type:"existingfile"`
	NoProgress bool     `help:"Disable progress bar" default:"false"`
}

func (c *CLI) Run() error {
	logger, err := commands.SetupLogger(c.CommonConfig)
	if err != nil {
		return err
	}

	transactions, err := commands.LoadTransactions(c.Files, !c.NoProgress, logger)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		return fmt.Errorf("no valid transactions found in input")
	}

	transactions = categorize.CategorizeRules(transactions, categorize.DefaultRules())
	budgetStatus := budget.Status(types.Expenses(transactions), budget.DefaultBudgets())
	months := budget.Months(transactions)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	completer, err := commands.SetupCompleter(ctx, c.CompletionConfig, logger)
	if err != nil {
		return err
	}
	defer commands.CloseCompleter(completer, logger)

	bundle, ok := insights.NewGenerator(completer, logger).Generate(ctx, transactions, budgetStatus, months)
	if !ok || (len(bundle.Insights) == 0 && len(bundle.Recommendations) == 0) {
		fmt.Println("No insights available for this data.")
		return nil
	}

	printBundle(bundle)
	return nil
}

func printBundle(bundle types.InsightBundle) {
	if len(bundle.Insights) > 0 {
		fmt.Println("KEY INSIGHTS")
		for _, insight := range bundle.Insights {
			fmt.Printf("  - %s\n", insight)
		}
	}

	if len(bundle.Recommendations) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("RECOMMENDATIONS")
	for _, priority := range []string{types.PriorityHigh, types.PriorityMedium, types.PriorityLow} {
		for _, rec := range bundle.Recommendations {
			if rec.Priority != priority {
				continue
			}
			fmt.Printf("  [%s] %s\n", rec.Priority, rec.Category)
			if rec.Action != "" {
				fmt.Printf("    Action: %s\n", rec.Action)
			}
			if rec.Impact != "" {
				fmt.Printf("    Impact: %s\n", rec.Impact)
			}
		}
	}
	// Recommendations with a free-form priority still get printed
	for _, rec := range bundle.Recommendations {
		switch rec.Priority {
		case types.PriorityHigh, types.PriorityMedium, types.PriorityLow:
			continue
		}
		fmt.Printf("  [%s] %s\n", rec.Priority, rec.Category)
		if rec.Action != "" {
			fmt.Printf("    Action: %s\n", rec.Action)
		}
		if rec.Impact != "" {
			fmt.Printf("    Impact: %s\n", rec.Impact)
		}
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("spending-insights"),
		kong.Description("Generate AI-backed insights and recommendations from bank transactions"),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
