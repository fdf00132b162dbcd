package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genotrance/plugins/pkg/output"
	"github.com/genotrance/plugins/pkg/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print build and version information",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.InitColors()
			fmt.Fprintln(cmd.OutOrStdout(), output.Bold("%s", version.GetVersionString()))
			fmt.Fprintln(cmd.OutOrStdout(), version.GetSystemInfo())
			return nil
		},
	}
}
