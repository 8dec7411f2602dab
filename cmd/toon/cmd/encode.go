package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/ideafoundry/toon"
	"github.com/ideafoundry/toon/cmd/toon/convert"
	"github.com/spf13/cobra"
)

var (
	encodeFormat    string
	encodeIndent    int
	encodeDelimiter string
	encodeLengths   bool

	encodeCmd = &cobra.Command{
		Use:   "encode [file]",
		Short: "Convert JSON, YAML, or TOML input into a TOON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			format, err := convert.ParseFormat(encodeFormat)
			if err != nil {
				return err
			}

			log.WithField("format", format).Debug("decoding source input")
			value, err := convert.Decode(data, format)
			if err != nil {
				return err
			}

			delimiter, err := parseDelimiter(encodeDelimiter)
			if err != nil {
				return err
			}

			out, err := toon.Marshal(value,
				toon.WithIndent(encodeIndent),
				toon.WithArrayDelimiter(delimiter),
				toon.WithDocumentDelimiter(delimiter),
				toon.WithLengthMarkers(encodeLengths),
			)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
)

func init() {
	encodeCmd.Flags().StringVarP(&encodeFormat, "from", "f", "json", "source format: json, yaml, or toml")
	encodeCmd.Flags().IntVar(&encodeIndent, "indent", 2, "spaces per indentation level")
	encodeCmd.Flags().StringVar(&encodeDelimiter, "delimiter", "comma", "array delimiter: comma, tab, or pipe")
	encodeCmd.Flags().BoolVar(&encodeLengths, "length-markers", false, "emit the '#' length marker in array headers")
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	if len(args) != 1 {
		return nil, errors.New("expected at most one input file")
	}
	return os.ReadFile(args[0])
}

func parseDelimiter(s string) (toon.Delimiter, error) {
	switch s {
	case "", "comma":
		return toon.DelimiterComma, nil
	case "tab":
		return toon.DelimiterTab, nil
	case "pipe":
		return toon.DelimiterPipe, nil
	default:
		return 0, errors.New("unsupported delimiter " + s + " (want comma, tab, or pipe)")
	}
}
