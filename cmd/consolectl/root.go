package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolectl",
		Short: "Admin console maintenance tools",
	}
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newExportCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
