// Package repair implements the repair command: the parameterized corrective
// routine that fixes cash polarity and optionally removes a known-bad import
// batch before a cutoff date.
package repair

import (
	"fmt"

	"github.com/spf13/cobra"

	"restobook/recon/cmd/root"
	"restobook/recon/internal/dateutils"
)

var cutoff string

// Cmd is the repair command.
var Cmd = &cobra.Command{
	Use:   "repair",
	Short: "Fix mis-signed cash transactions and optionally drop pre-cutoff rows",
	Long: `Repair negates every cash OUT transaction stored with a positive amount,
logging before/after values. With --cutoff it also deletes transactions older
than the given date, preserving the opening-balance entry and the sentinel
adjustment. Both passes are idempotent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := root.OpenService()
		if err != nil {
			return err
		}

		fixes, err := svc.FixPolarity()
		if err != nil {
			return err
		}
		fmt.Printf("Fixed polarity of %d transactions\n", len(fixes))

		if cutoff != "" {
			date, err := dateutils.ParseDate(cutoff)
			if err != nil {
				return fmt.Errorf("invalid --cutoff %q: %w", cutoff, err)
			}
			deleted, err := svc.CleanBefore(dateutils.Truncate(date))
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d transactions before %s\n", deleted, cutoff)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&cutoff, "cutoff", "", "delete transactions before this date (e.g. 2025-11-20)")
}
