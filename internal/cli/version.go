package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "minutes-flow "+version.String())
	},
}
