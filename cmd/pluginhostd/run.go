package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/genotrance/plugins/pkg/container"
	"github.com/genotrance/plugins/pkg/output"
	"github.com/genotrance/plugins/pkg/pluginhost"
)

// syncInterval is how often the demo host drives Manager.Sync from its
// own main loop, independent of the Monitor's own pre/post-ready polling
// cadence.
const syncInterval = 100 * time.Millisecond

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "run",
		Short:         "Start the plugin host and read commands from stdin",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd, opts)
		},
	}
}

func runHost(cmd *cobra.Command, opts *rootOptions) error {
	output.InitColors()

	cfg := pluginhost.DefaultManagerConfig()
	if len(opts.paths) > 0 {
		cfg.Paths = opts.paths
	}
	cfg.BinaryMode = opts.binaryMode
	if opts.compileCommand != "" {
		cfg.CompileCommand = opts.compileCommand
	}

	var manager *pluginhost.Manager
	c, err := container.New(
		container.WithManagerConfig(cfg),
		fx.Populate(&manager),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return c.Run(ctx, func() error {
		fmt.Fprintln(cmd.OutOrStdout(), output.InfoText("plugin host running — scanning %v", cfg.Paths))
		return driveHost(ctx, cmd, manager)
	})
}

// driveHost runs the Manager's own Sync loop on a ticker and, in
// parallel, reads router commands from stdin until ctx is cancelled.
func driveHost(ctx context.Context, cmd *cobra.Command, manager *pluginhost.Manager) error {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	lines := make(chan string)
	go scanStdin(cmd, lines)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			manager.Sync()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			routeLine(cmd, manager, line)
		}
	}
}

func scanStdin(cmd *cobra.Command, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines <- line
		}
	}
}

func routeLine(cmd *cobra.Command, manager *pluginhost.Manager, line string) {
	result := manager.Route(line)
	if result == nil {
		return
	}
	out := cmd.OutOrStdout()
	if result.Failed {
		fmt.Fprintln(out, output.ErrorText("%s failed: %s", result.Cmd, strings.Join(result.Returned, " ")))
		return
	}
	if len(result.Returned) > 0 {
		fmt.Fprintln(out, output.SuccessText("%s -> %s", result.Cmd, strings.Join(result.Returned, ", ")))
	}
}
