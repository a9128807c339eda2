package cmd

import (
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Discover Azure resources and print them",
	Long: `graph runs the queries run would, using the same --source, --query, --managementGroupIDs
and --ignoreResourceIDPatterns settings, and prints the deduplicated resources instead of writing HCL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		armSession, err := newSession()
		if err != nil {
			return err
		}

		found, err := discoverResources(cmd.Context(), armSession)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), found)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
