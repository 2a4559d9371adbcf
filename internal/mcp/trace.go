package mcp

import (
	"context"

	"github.com/deixis/pathtrace/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type traceParams struct {
	Target string `json:"target" jsonschema:"hostname, IPv4 or IPv6 literal to trace (letters, digits, '.', '-', ':', '_'; at most 255 characters)"`
}

func (h *handler) traceHandler(ctx context.Context, req *mcp.CallToolRequest, params traceParams) (*mcp.CallToolResult, any, error) {
	var onLine runner.LineFunc
	if token := req.Params.GetProgressToken(); token != nil && req.Session != nil {
		onLine = func(lineNo int, line string) {
			err := req.Session.NotifyProgress(ctx, &mcp.ProgressNotificationParams{
				ProgressToken: token,
				Progress:      float64(lineNo),
				Message:       line,
			})
			if err != nil {
				h.svc.Logger().Debug("progress notification failed", "err", err)
			}
		}
	}

	out, err := h.svc.Trace(ctx, params.Target, onLine)
	if err != nil {
		return errorResult(err.Error())
	}
	return textResult(out)
}
