package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
	"restobook/recon/internal/normalize"
)

// popinaCashColumn is column I of the Popina closure export, which holds
// the cash takings of the day.
const popinaCashColumn = 8

// ReadCashRegister reads a cash-register XLSX export. The main sheet holds
// dated rows with ENTREES and SORTIES columns; an optional separate
// "Sorties" sheet holds additional expense rows.
func (r *Reader) ReadCashRegister(path string) ([]normalize.Raw, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}

	mainSheet := pickSheet(sheets, "caisse", "entrées", "entrees")

	raws, err := r.readCaisseSheet(f, mainSheet, false)
	if err != nil {
		return nil, err
	}

	// A separate "Sorties" sheet contains expense-only rows.
	if outSheet := pickSheet(sheets, "sorties"); outSheet != mainSheet && strings.Contains(strings.ToLower(outSheet), "sorties") {
		outRaws, err := r.readCaisseSheet(f, outSheet, true)
		if err != nil {
			return nil, err
		}
		raws = append(raws, outRaws...)
	}

	r.log.WithFields(
		logging.F("file", path),
		logging.F("rows", len(raws)),
	).Info("Parsed cash register export")
	return raws, nil
}

// pickSheet returns the first sheet whose name contains one of the needles,
// or the first sheet.
func pickSheet(sheets []string, needles ...string) string {
	for _, s := range sheets {
		lower := strings.ToLower(s)
		for _, needle := range needles {
			if strings.Contains(lower, needle) {
				return s
			}
		}
	}
	return sheets[0]
}

func (r *Reader) readCaisseSheet(f *excelize.File, sheet string, outOnly bool) ([]normalize.Raw, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := rows[0]
	dateIdx := findColumn(headers, "date")
	labelIdx := findColumn(headers, "libell", "description")
	outIdx := findColumn(headers, "sortie")
	inIdx := findColumn(headers, "entrée", "entree")
	amountIdx := findColumn(headers, "montant")

	if dateIdx == -1 {
		return nil, fmt.Errorf("sheet %s: no date column", sheet)
	}

	var raws []normalize.Raw
	for _, row := range rows[1:] {
		date := cell(row, dateIdx)
		entrees := cell(row, inIdx)
		sorties := cell(row, outIdx)
		if sorties == "" {
			sorties = cell(row, amountIdx)
		}

		if date == "" || (entrees == "" && sorties == "") {
			continue
		}

		raw := normalize.Raw{
			Description: cell(row, labelIdx),
			Reference:   ReferenceXLSXImport,
			Source:      models.SourceCash,
		}
		setDate(&raw, date)

		// A row is an entry when the ENTREES cell carries the value and
		// the SORTIES cell is empty or zero; otherwise it is an expense.
		if !outOnly && entrees != "" && (sorties == "" || sorties == "0") {
			raw.Amount = entrees
			raw.Type = models.TypeIn
		} else {
			raw.Amount = sorties
			raw.Type = models.TypeOut
		}

		raws = append(raws, raw)
	}

	return raws, nil
}

// ReadPopinaClosure reads a Popina till-closure export: the date column is
// the one labelled "Fin", the day's cash takings sit in column I. Only
// positive cash rows become transactions, always IN.
func (r *Reader) ReadPopinaClosure(path string) ([]normalize.Raw, error) {
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

	dateIdx := findColumn(rows[0], "fin")
	if dateIdx == -1 {
		return nil, fmt.Errorf("%s: no closure date column", path)
	}

	var raws []normalize.Raw
	for _, row := range rows[1:] {
		date := cell(row, dateIdx)
		cash := cell(row, popinaCashColumn)
		if date == "" || cash == "" || strings.HasPrefix(cash, "-") || cash == "0" {
			continue
		}

		raw := normalize.Raw{
			Amount:      cash,
			Description: "Recette Espèces Popina (Clôture)",
			Reference:   ReferencePopina,
			Source:      models.SourceCash,
			Type:        models.TypeIn,
		}
		setDate(&raw, date)
		raws = append(raws, raw)
	}

	r.log.WithFields(
		logging.F("file", path),
		logging.F("rows", len(raws)),
	).Info("Parsed Popina closure export")
	return raws, nil
}
