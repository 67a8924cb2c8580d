package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gram"
	"github.com/dhamidi/gram/diag"
	"github.com/dhamidi/gram/rule"
	"github.com/dhamidi/gram/text"
)

func newCheckCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a file against the declaration grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			in := text.NewInput(args[0], data)
			res := gram.Validate(demoGrammar(), in, gram.CollectErrors())
			errs := res.Errors.([]*rule.Error)

			var opts []diag.Option
			if noColor {
				opts = append(opts, diag.WithColor(false))
			}
			if _, err := diag.NewRenderer(os.Stderr, opts...).RenderAll(errs); err != nil {
				return fmt.Errorf("render: %w", err)
			}

			switch res.Outcome {
			case rule.FatalError:
				return fmt.Errorf("%s: parsing aborted", args[0])
			case rule.RecoveredError:
				return fmt.Errorf("%s: %d error(s)", args[0], len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")

	return cmd
}
