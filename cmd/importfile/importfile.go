// Package importfile implements the import command, which loads a
// spreadsheet or CSV export into the ledger.
package importfile

import (
	"fmt"

	"github.com/spf13/cobra"

	"restobook/recon/cmd/root"
	"restobook/recon/internal/normalize"
	"restobook/recon/internal/spreadsheet"
)

var format string

// Cmd is the import command.
var Cmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a bank statement or cash-register export into the ledger",
	Long: `Import reads a transaction export and inserts its rows into the ledger.
Rows whose fingerprint (day, amount, description) already exists are skipped,
so re-importing an overlapping export is safe.

Formats:
  bank    bank statement XLSX (date / libellé / montant or débit+crédit)
  caisse  cash-register XLSX (ENTREES / SORTIES columns)
  popina  Popina till-closure XLSX (cash takings per day)
  csv     cash-register CSV export`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := root.OpenService()
		if err != nil {
			return err
		}

		reader := spreadsheet.NewReader(root.Log)

		var raws []normalize.Raw
		switch format {
		case "bank":
			raws, err = reader.ReadBankStatement(args[0])
		case "caisse":
			raws, err = reader.ReadCashRegister(args[0])
		case "popina":
			raws, err = reader.ReadPopinaClosure(args[0])
		case "csv":
			raws, err = reader.ReadCashCSV(args[0])
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		if err != nil {
			return err
		}

		summary, err := svc.Import(raws)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d, skipped %d duplicates, %d errors\n",
			summary.Imported, summary.Skipped, summary.Errors)
		for _, recErr := range summary.Errs {
			fmt.Printf("  - %v\n", recErr)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "bank", "export format: bank, caisse, popina or csv")
}
