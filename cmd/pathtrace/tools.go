package main

import (
	ptmcp "github.com/deixis/pathtrace/internal/mcp"
	"github.com/deixis/pathtrace/internal/platform"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Show the detected platform and installed trace tools",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ptmcp.WriteToolsReport(cmd.OutOrStdout(), platform.Current)
		},
	}
}
