package spreadsheet

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
	"restobook/recon/internal/normalize"
)

// cashCSVRow is one line of a CSV cash-register export.
type cashCSVRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Libellé"`
	Entrees     string `csv:"Entrées"`
	Sorties     string `csv:"Sorties"`
}

// ReadCashCSV reads a CSV cash-register export with Date, Libellé, Entrées
// and Sorties columns.
func (r *Reader) ReadCashCSV(path string) ([]normalize.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []cashCSVRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var raws []normalize.Raw
	for _, row := range rows {
		if row.Date == "" || (row.Entrees == "" && row.Sorties == "") {
			continue
		}

		raw := normalize.Raw{
			Date:        row.Date,
			Description: row.Description,
			Reference:   ReferenceCSVImport,
			Source:      models.SourceCash,
		}

		if row.Entrees != "" && (row.Sorties == "" || row.Sorties == "0") {
			raw.Amount = row.Entrees
			raw.Type = models.TypeIn
		} else {
			raw.Amount = row.Sorties
			raw.Type = models.TypeOut
		}

		raws = append(raws, raw)
	}

	r.log.WithFields(
		logging.F("file", path),
		logging.F("rows", len(raws)),
	).Info("Parsed cash register CSV")
	return raws, nil
}
