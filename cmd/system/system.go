package system

import "github.com/spf13/cobra"

// NewSystemCommand groups the one-off maintenance commands. On a fresh server
// run init, then migrate.
func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Database setup and tooling commands",
	}

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewGenDocsCommand())

	return cmd
}
