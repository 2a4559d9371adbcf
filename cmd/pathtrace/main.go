// Command pathtrace traces the network path to a host with the operating
// system's traceroute utility, from the command line or as an MCP server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/deixis/pathtrace"
	"github.com/deixis/pathtrace/internal/config"
	"github.com/deixis/pathtrace/internal/logging"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

// load reads the configuration and builds the logger. The caller closes
// the returned Closer.
func (g *globals) load() (*config.LoadResult, *slog.Logger, io.Closer, error) {
	if g.logLevel != "" {
		if err := config.CheckLogLevel(g.logLevel); err != nil {
			return nil, nil, nil, fmt.Errorf("--log-level %q: %w", g.logLevel, err)
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("determining working directory: %w", err)
	}
	loaded, err := config.Load(g.configPath, dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, closer := logging.New(loaded.Config, g.logLevel)
	return loaded, logger, closer, nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "pathtrace",
		Short: "Trace the network path to a host",
		Long: `pathtrace - network path tracing

Runs the operating system's trace utility against a single host and returns
its output unmodified. Windows uses "tracert -d"; other systems use
traceroute, falling back to tracepath only when traceroute is not installed.

Examples:
  pathtrace run example.com            # Print the trace when it completes
  pathtrace run 2001:db8::1 --stream   # Print each line as it arrives
  pathtrace tools                      # Show which trace tools are installed
  pathtrace serve                      # MCP server on stdio
  pathtrace serve --http 127.0.0.1:9090`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: $"+config.EnvPath+", ./"+config.LocalFile+", then the user config dir)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(g),
		newToolsCmd(),
		newServeCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), pathtrace.Version)
			},
		},
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
