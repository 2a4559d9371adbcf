// Package mcp provides the pathtrace MCP server, registering the trace
// tools and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/deixis/pathtrace"
	"github.com/deixis/pathtrace/internal/trace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	svc *trace.Service
}

// NewServer creates an MCP server with all pathtrace tools registered.
func NewServer(svc *trace.Service) *mcp.Server {
	h := &handler{svc: svc}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "pathtrace", Version: pathtrace.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "run_path_trace",
		Description: `Trace the network path to a host using the operating system's traceroute utility.

Returns the raw tool output unmodified. Uses tracert on Windows; traceroute on other
systems, falling back to tracepath only when traceroute is not installed.
Each line of output is also sent as a progress notification when a progress token is supplied.`,
	}, h.traceHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "path_trace_tools",
		Description: "Report the detected platform and which trace executables are installed, in fallback order.",
	}, h.toolsHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
