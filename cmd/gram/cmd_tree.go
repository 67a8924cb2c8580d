package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gram"
	"github.com/dhamidi/gram/diag"
	"github.com/dhamidi/gram/format"
	"github.com/dhamidi/gram/rule"
	"github.com/dhamidi/gram/text"
)

func newTreeCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Dump the lossless parse tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			in := text.NewInput(args[0], data)
			res := gram.ParseAsTree(demoGrammar(), in, gram.CollectErrors())
			errs := res.Errors.([]*rule.Error)
			if _, err := diag.NewRenderer(os.Stderr).RenderAll(errs); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if res.Outcome == rule.FatalError {
				return fmt.Errorf("%s: parsing aborted", args[0])
			}

			var encoder format.Encoder
			switch outputFormat {
			case "text":
				encoder = format.NewTextEncoder(cmd.OutOrStdout())
			case "json":
				encoder = format.NewJSONEncoder(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(res.Tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", "text", "output format: text or json")

	return cmd
}
