package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pdfmeta"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Print the outline of individual documents",
	Long: `Classify each file and print its outline to stdout without writing a sidecar.
Use --meta to also show the page count and Info dictionary of PDFs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringP("format", "f", "", "Output format: json, markdown or html")
	inspectCmd.Flags().Bool("meta", false, "Show PDF metadata before each outline")
	inspectCmd.Flags().Bool("title-fallback", false, "Guess a title from page-one structure when none is found")
	inspectCmd.Flags().Bool("metadata-title", false, "Use the PDF Info title when none is found")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}
	showMeta, _ := cmd.Flags().GetBool("meta")

	orch := pipeline.NewOrchestrator(cfg, log)
	out := cmd.OutOrStdout()

	var failed int
	for _, path := range args {
		if !parser.IsSupportedExtension(path) {
			log.Error("skipping file", "file", path, "error", parser.ErrUnsupportedFormat)
			failed++
			continue
		}

		if showMeta && strings.EqualFold(filepath.Ext(path), ".pdf") {
			info, err := pdfmeta.Inspect(path)
			if err != nil {
				log.Warn("metadata unavailable", "file", path, "error", err)
			} else {
				FormatMeta(out, path, info)
			}
		}

		job := pipeline.NewFileJob(path, "", format)
		orch.Process(cmd.Context(), job)
		if job.Result() == nil {
			failed++
			continue
		}
		if err := render.Write(out, format, job.Result()); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be inspected", failed, len(args))
	}
	return nil
}
