package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ideafoundry/toon"
	"github.com/ideafoundry/toon/cmd/toon/convert"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

var (
	statsFormat string

	statsCmd = &cobra.Command{
		Use:   "stats [file]",
		Short: "Compare the size of a document's TOON encoding against its compact JSON encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			format, err := convert.ParseFormat(statsFormat)
			if err != nil {
				return err
			}

			value, err := convert.Decode(data, format)
			if err != nil {
				return err
			}

			// The comparison baseline is the compact (unindented) JSON
			// encoding of the decoded value, not the raw source bytes:
			// source files are hand-formatted YAML/TOML/JSON with
			// whatever indentation their author chose, which would make
			// the ratio measure formatting style rather than the TOON
			// format's own token economy.
			jsonBytes, err := json.Marshal(value)
			if err != nil {
				return err
			}

			toonBytes, err := toon.Marshal(value, toon.WithLengthMarkers(true))
			if err != nil {
				return err
			}

			// Compare NFC-normalized rune counts rather than raw byte
			// counts, so composed and decomposed Unicode input (common in
			// hand-edited YAML/TOML fixtures) doesn't skew the ratio.
			jsonRunes := runeCount(jsonBytes)
			toonRunes := runeCount(toonBytes)

			fmt.Fprintf(cmd.OutOrStdout(), "compact json: %d bytes, %d NFC runes\n", len(jsonBytes), jsonRunes)
			fmt.Fprintf(cmd.OutOrStdout(), "toon output: %d bytes, %d NFC runes\n", len(toonBytes), toonRunes)
			if jsonRunes > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "ratio: %.2f%% of compact json length\n", 100*float64(toonRunes)/float64(jsonRunes))
			}
			return nil
		},
	}
)

func init() {
	statsCmd.Flags().StringVarP(&statsFormat, "from", "f", "json", "source format: json, yaml, or toml")
}

func runeCount(data []byte) int {
	normalized := norm.NFC.Bytes(data)
	count := 0
	for range string(normalized) {
		count++
	}
	return count
}
