package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/cdstream/pkg/stream"
)

// walkCmd represents the walk command
var walkCmd = &cobra.Command{
	Use:   "walk <file>",
	Short: "List every record in a stream",
	Long: `Walk a record stream and print one row per record. Use - to read the
stream from standard input.

Examples:
  cdstream walk records.cds
  cdstream walk records.cds --reverse --stats
  cat records.cds | cdstream walk -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reverse, _ := cmd.Flags().GetBool("reverse")
		stats, _ := cmd.Flags().GetBool("stats")

		session, err := container.OpenSession(args[0])
		if err != nil {
			return err
		}
		defer session.Close()

		out := cmd.OutOrStdout()
		table := newRecordTable(out)

		var count int
		if reverse {
			count, err = walkBackward(session.Navigator, func(row []string) { table.Append(row) })
		} else {
			count, err = walkForward(session.Navigator, func(row []string) { table.Append(row) })
		}
		table.Render()
		if err != nil {
			return fmt.Errorf("walk stopped after %d records: %w", count, err)
		}
		fmt.Fprintf(out, "%d records\n", count)

		if stats {
			return printStats(out, container.GetRegistry())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)

	walkCmd.Flags().BoolP("reverse", "r", false, "List records from the last to the first")
	walkCmd.Flags().Bool("stats", false, "Print store and navigation metrics after the walk")
}

func walkForward(nav *stream.Navigator, emit func([]string)) (int, error) {
	count := 0
	for rec, err := range nav.Records() {
		if err != nil {
			return count, err
		}
		visit, _ := nav.VisitOrder()
		emit(recordRow(visit, rec))
		count++
	}
	return count, nil
}

func walkBackward(nav *stream.Navigator, emit func([]string)) (int, error) {
	count := 0
	found, err := nav.Last()
	for ; found && err == nil; found, err = nav.Prev() {
		rec, _ := nav.Record()
		visit, _ := nav.VisitOrder()
		emit(recordRow(visit, rec))
		count++
	}
	return count, err
}
