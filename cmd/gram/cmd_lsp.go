package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/gram/lsp"
)

func newLSPCmd() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbosity, nil)
			server := lsp.NewLSPServer(demoGrammar(), version)
			return server.RunStdio()
		},
	}

	cmd.Flags().IntVar(&verbosity, "verbose", 0, "log verbosity")

	return cmd
}
