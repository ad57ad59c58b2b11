package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/cdstream/pkg/codec"
)

// headerCmd represents the header command
var headerCmd = &cobra.Command{
	Use:   "header <hex>",
	Short: "Decode a single signature header",
	Long: `Decode one signature header from hex bytes and print its shape,
signature and length. Spaces and a leading 0x are ignored.

Examples:
  cdstream header "07 04"
  cdstream header FF8508010000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := parseHex(args[0])
		if err != nil {
			return err
		}

		h, err := codec.DecodeHeader(raw, 0)
		if err != nil {
			return fmt.Errorf("failed to decode header: %w", err)
		}

		table := newTable(cmd.OutOrStdout(), "Field", "Value")
		table.Append([]string{"Shape", h.Shape.String()})
		table.Append([]string{"Signature", fmt.Sprintf("0x%04X", h.Signature)})
		table.Append([]string{"Name", registry.Name(h.Signature)})
		table.Append([]string{"Length", fmt.Sprintf("%d", h.Length)})
		table.Append([]string{"Header size", fmt.Sprintf("%d", h.Size())})
		table.Append([]string{"Payload length", fmt.Sprintf("%d", h.PayloadLength())})
		table.Append([]string{"Span", fmt.Sprintf("%d", codec.SpanOf(h.Length))})
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(headerCmd)
}

func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return raw, nil
}
