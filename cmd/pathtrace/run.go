package main

import (
	"fmt"
	"io"
	"time"

	"github.com/deixis/pathtrace/internal/trace"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		stream  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <target>",
		Short: "Trace the path to a hostname or IP address",
		Long: `Trace the path to a hostname, IPv4 or IPv6 address.

The tool output is printed unmodified. On failure the reason is printed to
stderr and the exit status is 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, logger, closer, err := g.load()
			if err != nil {
				return err
			}
			defer closer.Close()

			cfg := *loaded.Config
			if timeout > 0 {
				cfg.RawTimeout = timeout.String()
			}
			svc := trace.NewService(&cfg, logger)
			return runTrace(cmd, svc, args[0], stream)
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "print each output line as soon as the tool writes it")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "override the configured deadline (e.g. 45s)")
	return cmd
}

// runTrace prints the trace to the command's stdout. Streamed lines are the
// output, so it is not printed a second time on success.
func runTrace(cmd *cobra.Command, svc *trace.Service, target string, stream bool) error {
	out := cmd.OutOrStdout()

	var onLine func(int, string)
	if stream {
		onLine = func(_ int, line string) {
			fmt.Fprintln(out, line)
		}
	}

	text, err := svc.Trace(cmd.Context(), target, onLine)
	if err != nil {
		return err
	}
	if !stream {
		_, err = io.WriteString(out, text)
	}
	return err
}
