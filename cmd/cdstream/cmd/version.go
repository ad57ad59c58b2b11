package cmd

import (
	"fmt"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cdstream version",
	Args:  cobra.NoArgs,
	// Version needs no configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versioninfo.Short())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
