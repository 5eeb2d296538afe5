package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/finsight/spending-analyzer/internal/ingest"
	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/schollz/progressbar/v3"
)

// LoadTransactions ingests one or more statement files into a single table
// in canonical order. Each file must parse; per-row validation failures are
// only logged.
func LoadTransactions(paths []string, progress bool, logger *log.Logger) ([]types.Transaction, error) {
	var bar *progressbar.ProgressBar
	if progress && len(paths) > 1 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Reading statements"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		)
	}

	var transactions []types.Transaction
	var dropped int
	for _, path := range paths {
		result, err := ingest.ReadFile(path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		transactions = append(transactions, result.Transactions...)
		dropped += result.Dropped
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if dropped > 0 {
		logger.Warn("Dropped rows with invalid dates or amounts", "rows", dropped)
	}
	types.SortByDateDesc(transactions)
	return transactions, nil
}
