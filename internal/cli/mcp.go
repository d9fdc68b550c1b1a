package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/mcpserver"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start a Model Context Protocol server over stdio with the tools
extract_outline, inspect_pdf and validate_outline.

Example client configuration:
  {
    "mcpServers": {
      "docoutline": {
        "command": "/path/to/docoutline",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().Bool("title-fallback", false, "Guess a title from page-one structure when none is found")
	mcpCmd.Flags().Bool("metadata-title", false, "Use the PDF Info title when none is found")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tools process synchronously, so no worker pool is started.
	orch := pipeline.NewOrchestrator(cfg, log)
	return mcpserver.NewServer(orch, log).Run(ctx)
}
