package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/cdstream/pkg/di"
	"github.com/ssargent/cdstream/pkg/search"
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <file>",
	Short: "Decode a search match buffer",
	Long: `Decode a fixed-layout search match and its summary from a file. The
buffer does not say which layout it uses; pass --large for buffers produced
by the large-summary search call.

Examples:
  cdstream match match.bin
  cdstream match --large match.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		large, _ := cmd.Flags().GetBool("large")

		buf, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		variant := search.Standard
		if large {
			variant = search.Large
		}

		m, err := search.Decode(buf, variant)
		if err != nil {
			return fmt.Errorf("failed to decode match: %w", err)
		}

		table := newTable(cmd.OutOrStdout(), "Field", "Value")
		table.Append([]string{"Variant", m.Variant.String()})
		table.Append([]string{"Note ID", fmt.Sprintf("0x%08X", m.NoteID)})
		table.Append([]string{"UNID", m.UNID()})
		table.Append([]string{"Class", m.Class.String()})
		table.Append([]string{"Flags", m.Flags().String()})
		table.Append([]string{"Privileges", fmt.Sprintf("0x%02X", m.Privileges)})
		table.Append([]string{"Database created", m.File.String()})
		table.Append([]string{"Note modified", m.Note.String()})
		table.Append([]string{"Sequence", fmt.Sprintf("%d", m.Sequence)})
		table.Append([]string{"Sequence time", m.SequenceTime.String()})
		table.Append([]string{"Summary length", fmt.Sprintf("%d", m.SummaryLength)})
		if summary, err := m.Summary(buf); err == nil {
			table.Append([]string{"Summary", preview(summary)})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Bool("large", false, "Decode the large-summary layout")
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		buf []byte
		err error
	)
	if path == di.StdinPath {
		buf, err = io.ReadAll(cmd.InOrStdin())
	} else {
		buf, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return buf, nil
}
