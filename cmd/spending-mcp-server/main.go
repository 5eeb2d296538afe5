package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/finsight/spending-analyzer/internal/budget"
	"github.com/finsight/spending-analyzer/internal/categorize"
	"github.com/finsight/spending-analyzer/internal/commands"
	"github.com/finsight/spending-analyzer/internal/mcp"
)

type CLI struct {
	commands.CommonConfig

	Files []string `arg:"" help:"Transaction files to serve (CSV or Excel)" type:"existingfile"`
}

func (c *CLI) Run() error {
	logger, err := commands.SetupLogger(c.CommonConfig)
	if err != nil {
		return err
	}

	transactions, err := commands.LoadTransactions(c.Files, false, logger)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		return fmt.Errorf("no valid transactions found in input")
	}
	transactions = categorize.CategorizeRules(transactions, categorize.DefaultRules())
	logger.Info("Serving analysis session", "transactions", len(transactions))

	return mcp.New(transactions, budget.DefaultBudgets(), logger).Run()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("spending-mcp-server"),
		kong.Description("Serve a transaction analysis session over the Model Context Protocol"),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
