// Package categorize implements the categorize command, which assigns
// categories to uncategorized transactions by keyword rules.
package categorize

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"restobook/recon/cmd/root"
)

// Cmd is the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Assign categories to uncategorized transactions",
	Long: `Categorize matches the description of every uncategorized transaction
against the ordered keyword rules and assigns the first matching category.
Already-categorized transactions are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := root.OpenService()
		if err != nil {
			return err
		}

		result, err := svc.Categorize(store)
		if err != nil {
			return err
		}

		fmt.Printf("Assigned %d transactions, %d left uncategorized\n",
			result.Assigned, result.Unmatched)

		names := make([]string, 0, len(result.ByRule))
		for name := range result.ByRule {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-30s %d\n", name, result.ByRule[name])
		}
		return nil
	},
}
