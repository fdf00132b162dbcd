package main

import (
	"github.com/spf13/cobra"

	"github.com/genotrance/plugins/pkg/version"
)

// rootOptions holds the flags shared across subcommands that configure
// the Manager.
type rootOptions struct {
	paths          []string
	binaryMode     bool
	compileCommand string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "pluginhostd",
		Short:         "Demo host for the native Go plugin loader",
		Long:          "pluginhostd is a reference host built on pkg/pluginhost. It discovers, compiles, loads, and ticks Go plugins from one or more configured directories, and exposes the reserved command verbs over an interactive stdin prompt.",
		Version:       version.Get(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringArrayVar(&opts.paths, "path", nil, "directory to scan for plugins (repeatable)")
	cmd.PersistentFlags().BoolVar(&opts.binaryMode, "binary-mode", false, "treat each --path entry as a directory of ready-to-load .so files instead of source directories to compile")
	cmd.PersistentFlags().StringVar(&opts.compileCommand, "compile-command", "", "override the source-mode compiler invocation template")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}
