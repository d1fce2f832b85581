package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/thesavant42/waybackpulse/internal/api"
)

var fetchOut string

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Write the table to a file instead of stdout")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <domain>",
	Short: "Prints the raw CDX capture table of one domain as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := api.NormalizeDomain(args[0])
		if err != nil {
			return err
		}

		table, err := newClient().FetchSite(cmd.Context(), domain)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if fetchOut != "" {
			f, err := os.Create(fetchOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", fetchOut, err)
			}
			defer f.Close()
			w = f
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(table); err != nil {
			return fmt.Errorf("failed to encode table: %w", err)
		}

		logger.Info("CDX table written", "domain", domain, "rows", table.DataRows())
		return nil
	},
}
