package ingest

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestReadCommaDelimited(t *testing.T) {
	input := `Date,Description,Amount,Account
2024-01-15,ICA Supermarket,-450.50,Personal
2024-01-25,Salary Deposit,45000.00,Personal
`
	result, err := Read(strings.NewReader(input), "statement.csv", testLogger())
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, 0, result.Dropped)

	// Canonical order is newest first
	salary := result.Transactions[0]
	ica := result.Transactions[1]

	assert.Equal(t, "Salary Deposit", salary.Description)
	assert.Equal(t, "Income", string(salary.Type))
	assert.True(t, salary.Amount.Equal(decimal.NewFromFloat(45000.00)))

	assert.Equal(t, "ICA Supermarket", ica.Description)
	assert.Equal(t, "Expense", string(ica.Type))
	assert.True(t, ica.Amount.Equal(decimal.NewFromFloat(-450.50)))
	assert.True(t, ica.AbsAmount.Equal(decimal.NewFromFloat(450.50)))
	assert.Equal(t, 2024, ica.Year)
	assert.Equal(t, 1, ica.Month)
	assert.Equal(t, "January", ica.MonthName)
	assert.Equal(t, "Monday", ica.DayOfWeek)
}

func TestReadSemicolonDelimitedSwedishHeaders(t *testing.T) {
	input := `Datum;Beskrivning;Belopp;Konto
2024-02-01;Netflix;-139,00;Privatkonto
2024-02-03;Willys;-1 234,56;Privatkonto
`
	result, err := Read(strings.NewReader(input), "export.csv", testLogger())
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	willys := result.Transactions[0]
	assert.Equal(t, "Willys", willys.Description)
	assert.True(t, willys.Amount.Equal(decimal.NewFromFloat(-1234.56)), "got %s", willys.Amount)
	assert.Equal(t, "Privatkonto", willys.Account)

	netflix := result.Transactions[1]
	assert.True(t, netflix.Amount.Equal(decimal.NewFromFloat(-139.00)))
}

func TestReadByteOrderMark(t *testing.T) {
	input := "\uFEFFDate,Description,Amount\n2024-03-01,Spotify,-119.00\n"
	result, err := Read(strings.NewReader(input), "bom.csv", testLogger())
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Spotify", result.Transactions[0].Description)
}

func TestReadMissingColumns(t *testing.T) {
	input := "Date,Memo\n2024-01-01,whatever\n"
	_, err := Read(strings.NewReader(input), "bad.csv", testLogger())
	require.Error(t, err)

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"description", "amount"}, missing.Columns)
}

func TestReadDropsInvalidRows(t *testing.T) {
	input := `Date,Description,Amount
2024-01-01,Valid Row,-10.00
not-a-date,Bad Date,-10.00
2024-01-03,Bad Amount,abc
2024-01-04,,-5.00
`
	result, err := Read(strings.NewReader(input), "mixed.csv", testLogger())
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 1)
	assert.Equal(t, 3, result.Dropped)
	assert.Equal(t, "Valid Row", result.Transactions[0].Description)
}

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := Read(strings.NewReader("{}"), "data.json", testLogger())
	require.Error(t, err)

	var format *FormatError
	require.True(t, errors.As(err, &format))
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Description", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2024-05-02", "IKEA", "-899.00"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"2024-05-10", "Salary", "32000"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	result, err := Read(bytes.NewReader(buf.Bytes()), "statement.xlsx", testLogger())
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "Salary", result.Transactions[0].Description)
	assert.True(t, result.Transactions[1].Amount.Equal(decimal.NewFromFloat(-899.00)))
}

func TestReadStableAcrossRepeatedIngestion(t *testing.T) {
	input := `Date,Description,Amount
2024-01-10,Same Day A,-10.00
2024-01-10,Same Day B,-20.00
2024-01-05,Older,-30.00
`
	first, err := Read(strings.NewReader(input), "repeat.csv", testLogger())
	require.NoError(t, err)
	second, err := Read(strings.NewReader(input), "repeat.csv", testLogger())
	require.NoError(t, err)
	assert.Equal(t, first.Transactions, second.Transactions)

	// Stable sort keeps input order within a date
	assert.Equal(t, "Same Day A", first.Transactions[0].Description)
	assert.Equal(t, "Same Day B", first.Transactions[1].Description)
	assert.Equal(t, "Older", first.Transactions[2].Description)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	input := `Date,Description,Amount,Account
2024-01-15,ICA Supermarket,-450.50,Personal
2024-01-25,Salary Deposit,45000.00,Personal
`
	result, err := Read(strings.NewReader(input), "statement.csv", testLogger())
	require.NoError(t, err)

	var exported bytes.Buffer
	require.NoError(t, WriteCSV(&exported, result.Transactions))

	reread, err := Read(bytes.NewReader(exported.Bytes()), "export.csv", testLogger())
	require.NoError(t, err)
	require.Len(t, reread.Transactions, len(result.Transactions))
	for i := range result.Transactions {
		got, want := reread.Transactions[i], result.Transactions[i]
		assert.True(t, got.Date.Equal(want.Date))
		assert.Equal(t, want.Description, got.Description)
		assert.True(t, got.Amount.Equal(want.Amount))
		assert.Equal(t, want.Account, got.Account)
		assert.Equal(t, want.Type, got.Type)
	}

	var again bytes.Buffer
	require.NoError(t, WriteCSV(&again, result.Transactions))
	assert.Equal(t, exported.Bytes(), again.Bytes())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"15.1.2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15 13:37:00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"January 15, 2024", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %s", got)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  decimalMode
		want  string
		ok    bool
	}{
		{"period_decimal", "-450.50", decimalPeriod, "-450.5", true},
		{"period_with_thousands", "1,234.56", decimalPeriod, "1234.56", true},
		{"comma_decimal", "-139,00", decimalComma, "-139", true},
		{"comma_with_thousands", "1.234,56", decimalComma, "1234.56", true},
		{"space_grouping", "45 000.00", decimalPeriod, "45000", true},
		{"nbsp_grouping", "45 000,00", decimalComma, "45000", true},
		{"auto_comma_decimal", "-139,50", decimalAuto, "-139.5", true},
		{"auto_period_decimal", "-139.50", decimalAuto, "-139.5", true},
		{"auto_both_comma_last", "1.234,56", decimalAuto, "1234.56", true},
		{"auto_both_period_last", "1,234.56", decimalAuto, "1234.56", true},
		{"empty", "", decimalAuto, "", false},
		{"garbage", "abc", decimalAuto, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAmount(tt.input, tt.mode)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				want, err := decimal.NewFromString(tt.want)
				require.NoError(t, err)
				assert.True(t, got.Equal(want), "got %s want %s", got, want)
			}
		})
	}
}
