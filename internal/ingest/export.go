package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/finsight/spending-analyzer/internal/types"
)

// exportHeader lists the columns of the downloadable table. Column presence
// is the contract, not position.
var exportHeader = []string{
	"date", "description", "amount", "account", "category",
	"type", "abs_amount", "year", "month", "month_name", "day_of_week",
}

// WriteCSV serializes the canonical table as comma-delimited text with a
// header row, ISO dates, and period decimal separators, independent of the
// input's conventions.
func WriteCSV(w io.Writer, transactions []types.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range transactions {
		record := []string{
			t.Date.Format("2006-01-02"),
			t.Description,
			t.Amount.String(),
			t.Account,
			t.Category,
			string(t.Type),
			t.AbsAmount.String(),
			strconv.Itoa(t.Year),
			strconv.Itoa(t.Month),
			t.MonthName,
			t.DayOfWeek,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
