package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/deixis/pathtrace/internal/config"
	ptmcp "github.com/deixis/pathtrace/internal/mcp"
	"github.com/deixis/pathtrace/internal/stream"
	"github.com/deixis/pathtrace/internal/trace"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globals) *cobra.Command {
	var (
		httpAddr     string
		instructions bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server on stdio, or on HTTP when --http (or http.addr in the
config file) is set. The HTTP server also streams traces over a websocket
at /trace.

The config file is watched; changes apply to traces started afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if instructions {
				fmt.Fprint(cmd.OutOrStdout(), ptmcp.Instructions)
				return nil
			}

			loaded, logger, closer, err := g.load()
			if err != nil {
				return err
			}
			defer closer.Close()

			if httpAddr == "" {
				httpAddr = loaded.Config.HTTP.Addr
			}
			return serve(cmd.Context(), loaded, logger, httpAddr)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve HTTP on address (e.g. 127.0.0.1:9090)")
	cmd.Flags().BoolVar(&instructions, "instructions", false, "print model instructions and exit")
	return cmd
}

func serve(ctx context.Context, loaded *config.LoadResult, logger *slog.Logger, httpAddr string) error {
	svc := trace.NewService(loaded.Config, logger)

	if loaded.Path != "" {
		go func() {
			err := config.Watch(ctx, loaded.Path, logger, svc.Reload)
			if err != nil {
				logger.Warn("config watch failed", "path", loaded.Path, "err", err)
			}
		}()
	}

	server := ptmcp.NewServer(svc)

	if httpAddr != "" {
		return serveHTTP(ctx, newHTTPHandler(svc, server), httpAddr, logger)
	}
	logger.Info("serving MCP on stdio", "os", svc.OS())
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

// newHTTPHandler mounts the websocket trace stream at /trace and the MCP
// streamable HTTP transport everywhere else.
func newHTTPHandler(svc *trace.Service, server *mcpsdk.Server) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/trace", stream.NewHandler(svc))
	mux.Handle("/", mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	))
	return mux
}

func serveHTTP(ctx context.Context, handler http.Handler, addr string, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	logger.Info("listening", "addr", ln.Addr().String())
	if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
