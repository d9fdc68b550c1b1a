package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every document in the input directory once",
	Long: `Process every matching file in the input directory and write one sidecar per
file into the output directory.

When the input directory does not exist the fallback pair (./input, ./output)
is used. When neither exists there is nothing to do and the command exits
successfully.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	addProcessingFlags(runCmd)
	runCmd.Flags().Bool("json", false, "Print the batch summary as JSON")
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	dirs, err := pipeline.ResolveDirs(cfg)
	if errors.Is(err, pipeline.ErrNoInputDir) {
		log.Warn("nothing to process", "error", err)
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No input directory found, nothing to process."))
		return nil
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)
	defer orch.Stop()

	summary, err := orch.RunBatch(ctx, dirs)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(summary); encErr != nil {
			return encErr
		}
	} else {
		FormatSummary(cmd.OutOrStdout(), summary)
	}
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Files)
	}
	return nil
}
