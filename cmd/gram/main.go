package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gram",
		Short: "Validate and inspect files with the built-in declaration grammar",
	}

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
