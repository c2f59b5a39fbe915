package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kasalog/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "kasalog %s\n", version.String())
			return err
		},
	}
}
