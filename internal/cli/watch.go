package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process the input directory, then keep processing new files",
	Long: `Process every matching file in the input directory, then watch it and
process files as they are created or rewritten. Writes are debounced by
WATCH_DEBOUNCE. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addProcessingFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", 0, "Quiet period before a changed file is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		cfg.WatchDebounce, _ = cmd.Flags().GetDuration("debounce")
	}

	dirs, err := pipeline.ResolveDirs(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)
	defer orch.Stop()

	w, err := watch.New(orch, dirs, log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	w.OnProcessed = func(snap pipeline.JobSnapshot) {
		FormatProcessed(out, snap)
	}
	return w.Run(ctx)
}
