// Package ingest parses raw bank statement files into the canonical
// transaction table. Input conventions are ambiguous (semicolon vs comma
// delimiters, comma vs period decimal separators, English or Swedish column
// headers), so parsing runs a fixed list of strategies and the first one
// producing a structurally valid table wins. Rows with an unparseable date
// or amount, or a blank description, are silently dropped.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/finsight/spending-analyzer/internal/types"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// decimalMode selects how the amount column's decimal separator is read.
type decimalMode int

const (
	decimalPeriod decimalMode = iota
	decimalComma
	decimalAuto
)

var requiredColumns = []string{"date", "description", "amount"}

// columnAliases maps normalized header names onto canonical column names.
// English plus the Swedish export headers of the common retail banks.
var columnAliases = map[string]string{
	"date":             "date",
	"transaction date": "date",
	"datum":            "date",
	"transaktionsdag":  "date",
	"bokforingsdag":    "date",
	"bokföringsdag":    "date",

	"description":  "description",
	"beskrivning":  "description",
	"text":         "description",
	"rubrik":       "description",
	"specifikation": "description",

	"amount": "amount",
	"belopp": "amount",
	"summa":  "amount",

	"account":   "account",
	"konto":     "account",
	"kontonamn": "account",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2.1.2006",
	"2006-01-02 15:04:05",
}

// Result is a canonical transaction table plus how many raw rows were
// dropped during validation.
type Result struct {
	Transactions []types.Transaction
	Dropped      int
}

// ReadFile loads a transaction file from disk.
func ReadFile(path string, logger *log.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path), logger)
}

// Read parses raw tabular input into the canonical transaction table.
// The filename is only used to choose the format by extension.
func Read(r io.Reader, filename string, logger *log.Logger) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var (
		rows [][]string
		mode decimalMode
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, mode, err = parseCSV(data)
		if err != nil {
			return nil, &FormatError{Reason: "could not parse CSV input", Err: err}
		}
	case ".xlsx", ".xls":
		rows, err = parseWorkbook(data)
		if err != nil {
			return nil, &FormatError{Reason: "could not parse spreadsheet input", Err: err}
		}
		mode = decimalAuto
	default:
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported file format %q, expected CSV or Excel", ext)}
	}

	result, err := normalize(rows, mode)
	if err != nil {
		return nil, err
	}
	logger.Debug("Ingested transaction file",
		"file", filename,
		"rows", len(result.Transactions),
		"dropped", result.Dropped)
	return result, nil
}

// parseCSV tries delimiter strategies in priority order: semicolon with
// comma decimals, comma with period decimals, then best-effort detection
// from the header line. A semicolon parse yielding fewer than 2 columns
// signals the wrong delimiter and is rejected.
func parseCSV(data []byte) ([][]string, decimalMode, error) {
	rows, err := readDelimited(data, ';')
	if err == nil && len(rows[0]) >= 2 {
		return rows, decimalComma, nil
	}

	rows, commaErr := readDelimited(data, ',')
	if commaErr == nil {
		return rows, decimalPeriod, nil
	}

	rows, sniffErr := readDelimited(data, sniffDelimiter(data))
	if sniffErr == nil {
		return rows, decimalAuto, nil
	}

	return nil, decimalPeriod, fmt.Errorf("all parse strategies failed: %w", commaErr)
}

func readDelimited(data []byte, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}
	// Strip a UTF-8 BOM so the first header cell still aliases correctly
	rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	return rows, nil
}

// sniffDelimiter picks the most frequent candidate delimiter in the header
// line, defaulting to comma.
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	best, bestCount := ',', 0
	for _, candidate := range []byte{';', ',', '\t', '|'} {
		if n := bytes.Count(header, []byte{candidate}); n > bestCount {
			best, bestCount = rune(candidate), n
		}
	}
	return best
}

func parseWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q contains no rows", sheets[0])
	}
	return rows, nil
}

// normalize resolves header aliases, coerces cell values, drops invalid
// rows, and returns the table in canonical descending date order.
func normalize(rows [][]string, mode decimalMode) (*Result, error) {
	index := make(map[string]int)
	for i, header := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(header))
		canonical, ok := columnAliases[name]
		if !ok {
			continue
		}
		if _, seen := index[canonical]; !seen {
			index[canonical] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	result := &Result{Transactions: make([]types.Transaction, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		t, ok := normalizeRow(row, index, mode)
		if !ok {
			result.Dropped++
			continue
		}
		result.Transactions = append(result.Transactions, t)
	}
	types.SortByDateDesc(result.Transactions)
	return result, nil
}

func normalizeRow(row []string, index map[string]int, mode decimalMode) (types.Transaction, bool) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, ok := parseDate(cell("date"))
	if !ok {
		return types.Transaction{}, false
	}
	amount, ok := parseAmount(cell("amount"), mode)
	if !ok {
		return types.Transaction{}, false
	}
	description := cell("description")
	if description == "" {
		return types.Transaction{}, false
	}
	return types.NewTransaction(date, description, amount, cell("account")), true
}

// parseDate returns the time-zone-naive calendar date, or false for values
// that match no known layout.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseAmount reads a signed decimal under the given separator convention.
// Space and non-breaking-space digit grouping is always tolerated.
func parseAmount(s string, mode decimalMode) (decimal.Decimal, bool) {
	s = strings.NewReplacer(" ", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	switch mode {
	case decimalComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case decimalPeriod:
		s = strings.ReplaceAll(s, ",", "")
	case decimalAuto:
		lastComma := strings.LastIndex(s, ",")
		lastPeriod := strings.LastIndex(s, ".")
		switch {
		case lastComma >= 0 && lastPeriod >= 0 && lastComma > lastPeriod:
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		case lastComma >= 0 && lastPeriod < 0:
			s = strings.ReplaceAll(s, ",", ".")
		default:
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}
