package mcp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/deixis/pathtrace/internal/platform"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolsParams struct{}

func (h *handler) toolsHandler(ctx context.Context, req *mcp.CallToolRequest, _ toolsParams) (*mcp.CallToolResult, any, error) {
	var b strings.Builder
	WriteToolsReport(&b, h.svc.OS())
	return textResult(b.String())
}

// WriteToolsReport writes the platform and per-candidate availability in
// fallback order.
func WriteToolsReport(w io.Writer, os platform.OS) {
	candidates := platform.Candidates(os, "<target>")
	tools := platform.Available(candidates)

	fmt.Fprintf(w, "Platform: %s\n", os)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Candidates (%d, in fallback order):\n", len(candidates))
	found := 0
	for i, c := range candidates {
		status := "not found"
		if p := tools[i].Path; p != "" {
			status = p
			found++
		}
		fmt.Fprintf(w, "  %d. %s: %s\n", i+1, strings.Join(c.Argv(), " "), status)
	}
	fmt.Fprintln(w)
	if found == 0 {
		fmt.Fprintln(w, "No trace tool is installed; run_path_trace will report the tool as unavailable.")
	}
}
