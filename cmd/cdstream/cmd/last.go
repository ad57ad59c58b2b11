package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// lastCmd represents the last command
var lastCmd = &cobra.Command{
	Use:   "last <file>",
	Short: "Show the last record of a stream",
	Long: `Jump to the last record of a stream and print it.

Example:
  cdstream last records.cds`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := container.OpenSession(args[0])
		if err != nil {
			return err
		}
		defer session.Close()

		nav := session.Navigator
		found, err := nav.Last()
		if err != nil {
			return fmt.Errorf("failed to find last record: %w", err)
		}

		out := cmd.OutOrStdout()
		if !found {
			fmt.Fprintln(out, "stream is empty")
			return nil
		}

		rec, _ := nav.Record()
		visit, _ := nav.VisitOrder()

		table := newRecordTable(out)
		table.Append(recordRow(visit, rec))
		table.Render()
		fmt.Fprintf(out, "payload: %s\n", preview(rec.Payload))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
}
