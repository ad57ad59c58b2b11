/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/cdstream/pkg/codec"
	"github.com/ssargent/cdstream/pkg/config"
	"github.com/ssargent/cdstream/pkg/search"
	"go.uber.org/multierr"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration and optionally a sample stream",
	Long: `Write a default cdstream configuration file. An existing file is kept
unless --force is given.

With --sample, also write a record stream that holds records of every header
shape, odd lengths that need padding and an embedded search match.

Examples:
  cdstream init
  cdstream init --config ./cdstream.yaml --sample ./sample.cds`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		samplePath, _ := cmd.Flags().GetString("sample")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		out := cmd.OutOrStdout()
		if config.ConfigExists(configPath) && !force {
			fmt.Fprintf(out, "Config already exists at %s. Use --force to overwrite.\n", configPath)
		} else {
			if _, err := config.BootstrapConfig(configPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote config to %s\n", configPath)
		}

		if samplePath != "" {
			n, err := writeSampleStream(samplePath)
			if err != nil {
				return fmt.Errorf("failed to write sample stream: %w", err)
			}
			fmt.Fprintf(out, "Wrote %d sample records to %s\n", n, samplePath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("sample", "", "Write a sample record stream to this path")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

type sampleRecord struct {
	tag     byte
	payload []byte
}

func sampleRecords() ([]sampleRecord, error) {
	match := &search.Match{
		File:           search.FromTime(time.Date(2014, 1, 8, 9, 30, 0, 0, time.UTC)),
		Note:           search.FromTime(time.Date(2024, 5, 17, 14, 2, 11, 0, time.UTC)),
		NoteID:         0x0000211E,
		OriginatorFile: search.TimeDate{Innards: [2]uint32{0x0000ABCD, 0x85257C3E}},
		OriginatorNote: search.TimeDate{Innards: [2]uint32{0x00000001, 0x0020F00D}},
		Sequence:       3,
		SequenceTime:   search.FromTime(time.Date(2024, 5, 17, 14, 2, 11, 0, time.UTC)),
		Class:          search.ClassDocument,
		Status:         0x01,
		SummaryLength:  5,
		Variant:        search.Standard,
	}
	encoded, err := match.Encode()
	if err != nil {
		return nil, err
	}

	return []sampleRecord{
		{tag: 0x01, payload: []byte("cdstream")},
		{tag: 0x03, payload: []byte("odd")},
		{tag: 0x10, payload: append(encoded, "hello"...)},
		{tag: 0x85, payload: bytes.Repeat([]byte{'w'}, 300)},
		{tag: 0x86, payload: bytes.Repeat([]byte{'d'}, 70001)},
		{tag: 0x07, payload: []byte("end")},
	}, nil
}

// writeSampleStream writes the sample records to path and returns how many
// were written
func writeSampleStream(path string) (int, error) {
	records, err := sampleRecords()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	w := codec.NewStreamWriter(f, codec.DefaultStreamType)
	for i, r := range records {
		if _, err := w.WriteTagged(r.tag, r.payload); err != nil {
			return i, multierr.Append(err, f.Close())
		}
	}

	if err := multierr.Combine(w.Flush(), f.Close()); err != nil {
		return 0, err
	}
	return len(records), nil
}
