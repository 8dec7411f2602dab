package cmd

import (
	"errors"

	"github.com/ideafoundry/toon"
	"github.com/ideafoundry/toon/cmd/toon/convert"
	"github.com/spf13/cobra"
)

var (
	decodeFormat string
	decodeStrict bool

	decodeCmd = &cobra.Command{
		Use:   "decode [file]",
		Short: "Convert a TOON document into JSON, YAML, or TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			format, err := convert.ParseFormat(decodeFormat)
			if err != nil {
				return err
			}

			log.WithField("strict", decodeStrict).Debug("decoding TOON input")
			value, err := toon.Decode(data, toon.WithStrictMode(decodeStrict))
			if err != nil {
				var ce *toon.CodecError
				if errors.As(err, &ce) {
					log.WithFields(map[string]any{"kind": ce.Kind, "line": ce.Line}).Error("malformed TOON document")
				}
				return err
			}

			out, err := convert.Encode(value, format)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
)

func init() {
	decodeCmd.Flags().StringVarP(&decodeFormat, "to", "t", "json", "destination format: json, yaml, or toml")
	decodeCmd.Flags().BoolVar(&decodeStrict, "strict", true, "enforce strict-mode validation")
}
