// Package spreadsheet reads bank statement and cash-register exports (XLSX
// and CSV) into raw import records. Column positions are discovered from
// header names because every export dialect orders them differently.
package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
	"restobook/recon/internal/normalize"
)

// Reference tags for spreadsheet import paths.
const (
	ReferenceXLSXImport = "XLSX_IMPORT"
	ReferenceCSVImport  = "CSV_IMPORT"
	ReferencePopina     = "POPINA"
)

// Reader parses spreadsheet files.
type Reader struct {
	log logging.Logger
}

// NewReader creates a Reader.
func NewReader(log logging.Logger) *Reader {
	return &Reader{log: log}
}

// findColumn returns the index of the first header containing any of the
// given substrings (case-insensitive), or -1.
func findColumn(headers []string, needles ...string) int {
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		for _, needle := range needles {
			if needle != "" && strings.Contains(lower, needle) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// setDate fills either the serial or string date of a raw record. Raw cell
// values of date-formatted columns arrive as serial day counts.
func setDate(r *normalize.Raw, value string) {
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 20000 {
		r.SerialDate = &serial
		return
	}
	r.Date = value
}

// ReadBankStatement reads a bank statement XLSX: first sheet, one header
// row, then one transaction per row. Supports both a single amount column
// and split debit/credit columns.
func (r *Reader) ReadBankStatement(path string) ([]normalize.Raw, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s is empty or has no data rows", path)
	}

	headers := rows[0]
	dateIdx := findColumn(headers, "date")

	// The label needles are loose enough to match a "Date opération"
	// header, so the date column is masked out of the label search.
	labelHeaders := append([]string{}, headers...)
	if dateIdx != -1 {
		labelHeaders[dateIdx] = ""
	}
	labelIdx := findColumn(labelHeaders, "libell", "label", "description", "op")
	amountIdx := findAmountColumn(headers)
	debitIdx := findColumn(headers, "debit", "débit")
	creditIdx := findColumn(headers, "credit", "crédit")

	if dateIdx == -1 {
		return nil, fmt.Errorf("%s: no date column in header", path)
	}
	if labelIdx == -1 {
		return nil, fmt.Errorf("%s: no description column in header", path)
	}
	if amountIdx == -1 && (debitIdx == -1 || creditIdx == -1) {
		return nil, fmt.Errorf("%s: no amount or debit/credit columns in header", path)
	}

	var raws []normalize.Raw
	for _, row := range rows[1:] {
		if cell(row, dateIdx) == "" && cell(row, labelIdx) == "" {
			continue
		}

		raw := normalize.Raw{
			Description: cell(row, labelIdx),
			Reference:   ReferenceXLSXImport,
			Source:      models.SourceBank,
		}
		setDate(&raw, cell(row, dateIdx))

		if debitIdx != -1 && creditIdx != -1 {
			raw.Debit = cell(row, debitIdx)
			raw.Credit = cell(row, creditIdx)
		} else {
			raw.Amount = cell(row, amountIdx)
		}

		raws = append(raws, raw)
	}

	r.log.WithFields(
		logging.F("file", path),
		logging.F("rows", len(raws)),
	).Info("Parsed bank statement")
	return raws, nil
}

// findAmountColumn looks for a montant/solde column, skipping currency
// columns like "devise".
func findAmountColumn(headers []string) int {
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		if (strings.Contains(lower, "montant") || strings.Contains(lower, "solde")) &&
			!strings.Contains(lower, "devise") {
			return i
		}
	}
	return -1
}
