// Package mcp exposes one analysis session over the Model Context Protocol:
// a categorized transaction table loaded at startup, queried through tools
// for summaries, budget status, and recurring payments. The session is
// read-only and in-memory; nothing is persisted between runs.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/finsight/spending-analyzer/internal/budget"
	"github.com/finsight/spending-analyzer/internal/categorize"
	"github.com/finsight/spending-analyzer/internal/recurring"
	"github.com/finsight/spending-analyzer/internal/stats"
	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Server struct {
	transactions []types.Transaction
	budgets      budget.Budgets
	logger       *log.Logger
}

// New creates a server over an already-categorized transaction table.
func New(transactions []types.Transaction, budgets budget.Budgets, logger *log.Logger) *Server {
	return &Server{
		transactions: transactions,
		budgets:      budgets,
		logger:       logger,
	}
}

func (s *Server) Run() error {
	mcpServer := server.NewMCPServer(
		"Spending Analyzer",
		"1.0.0",
	)

	mcpServer.AddTool(mcp.NewTool("spending_summary",
		mcp.WithDescription("Overall income, expense, and savings figures for the loaded transactions"),
	), s.summaryHandler)

	mcpServer.AddTool(mcp.NewTool("category_breakdown",
		mcp.WithDescription("Expense totals per category, largest first"),
	), s.categoryBreakdownHandler)

	mcpServer.AddTool(mcp.NewTool("budget_status",
		mcp.WithDescription("Spending per category compared against the configured monthly budgets"),
	), s.budgetStatusHandler)

	mcpServer.AddTool(mcp.NewTool("recurring_payments",
		mcp.WithDescription("Detected recurring payments with monthly and yearly cost totals"),
		mcp.WithString("min_occurrences",
			mcp.Description("Minimum occurrences for a payment to count as recurring (default: 3)"),
		),
	), s.recurringHandler)

	mcpServer.AddTool(mcp.NewTool("list_transactions",
		mcp.WithDescription("List transactions, newest first, with optional filters"),
		mcp.WithString("limit",
			mcp.Description("Maximum number of transactions to return (default: 50)"),
		),
		mcp.WithString("type",
			mcp.Description("Filter by transaction type (Income, Expense)"),
		),
		mcp.WithString("category",
			mcp.Description("Filter by assigned category"),
		),
	), s.listTransactionsHandler)

	s.logger.Info("Serving analysis session over stdio", "transactions", len(s.transactions))
	return server.ServeStdio(mcpServer)
}

// intArgument reads a numeric tool argument that may arrive as int, float,
// or string, falling back to a default when absent.
func intArgument(request mcp.CallToolRequest, name string, fallback int) (int, error) {
	value, ok := request.Params.Arguments[name]
	if !ok {
		return fallback, nil
	}
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", name, err)
		}
		return parsed, nil
	default:
		return 0, errors.New(name + " must be a number or string")
	}
}

func (s *Server) summaryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := stats.Summarize(s.transactions)
	first, last := stats.DateRange(s.transactions)
	months := budget.Months(s.transactions)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transactions: %d (%s to %s, %d month(s))\n",
		summary.Count, first.Format("2006-01-02"), last.Format("2006-01-02"), months)
	fmt.Fprintf(&sb, "Total Income: %s kr\n", summary.TotalIncome.StringFixed(0))
	fmt.Fprintf(&sb, "Total Expenses: %s kr\n", summary.TotalExpenses.StringFixed(0))
	fmt.Fprintf(&sb, "Net Savings: %s kr (%.1f%%)\n", summary.NetSavings.StringFixed(0), summary.SavingsRate)
	fmt.Fprintf(&sb, "Average Transaction: %s kr\n", summary.AvgTransaction.StringFixed(0))
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) categoryBreakdownHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries := categorize.Summarize(s.transactions)

	var sb strings.Builder
	sb.WriteString("Spending by Category\n\n")
	for _, c := range summaries {
		fmt.Fprintf(&sb, "%-20s %s kr total, %s kr average, %d transaction(s)\n",
			c.Category, c.Total.StringFixed(0), c.Average.StringFixed(0), c.Count)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) budgetStatusHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expenses := types.Expenses(s.transactions)
	statuses := budget.Status(expenses, s.budgets)
	months := budget.Months(s.transactions)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Budget Status (%d month(s) of data, spent amounts are period totals)\n\n", months)
	for _, status := range statuses {
		fmt.Fprintf(&sb, "%-20s %s kr spent / %s kr monthly budget (%.1f%%) - %s\n",
			status.Category, status.Spent.StringFixed(0), status.MonthlyBudget.StringFixed(0),
			status.PercentUsed, status.Status)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) recurringHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minOccurrences, err := intArgument(request, "min_occurrences", recurring.DefaultMinOccurrences)
	if err != nil {
		return nil, err
	}
	if minOccurrences < recurring.MinOccurrencesFloor || minOccurrences > recurring.MinOccurrencesCeil {
		return nil, fmt.Errorf("min_occurrences must be between %d and %d", recurring.MinOccurrencesFloor, recurring.MinOccurrencesCeil)
	}

	payments := recurring.Detect(types.Expenses(s.transactions), minOccurrences)
	totals := recurring.Totals(payments)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recurring Payments: %d found\n", totals.Count)
	fmt.Fprintf(&sb, "Monthly Recurring Cost: %s kr\n", totals.MonthlyTotal.StringFixed(0))
	fmt.Fprintf(&sb, "Yearly Recurring Cost: %s kr\n\n", totals.YearlyTotal.StringFixed(0))
	for _, p := range payments {
		fmt.Fprintf(&sb, "%s: %s kr %s (%d occurrences, %s, first %s, last %s)\n",
			p.Description, p.Amount.StringFixed(0), p.Frequency, p.Occurrences,
			p.Category, p.FirstDate.Format("2006-01-02"), p.LastDate.Format("2006-01-02"))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) listTransactionsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := intArgument(request, "limit", 50)
	if err != nil {
		return nil, err
	}
	txType, _ := request.Params.Arguments["type"].(string)
	category, _ := request.Params.Arguments["category"].(string)

	var sb strings.Builder
	var shown int
	for _, t := range s.transactions {
		if txType != "" && string(t.Type) != txType {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s kr - %s", t.Date.Format("2006-01-02"), t.Amount.StringFixed(2), t.Description)
		if t.Category != "" {
			fmt.Fprintf(&sb, " [%s]", t.Category)
		}
		sb.WriteString("\n")
		shown++
		if shown >= limit {
			break
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
