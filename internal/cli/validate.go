package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

var validateCmd = &cobra.Command{
	Use:   "validate [SIDECAR.json...]",
	Short: "Check JSON sidecars against the output format",
	Long: `With file arguments, validate each JSON sidecar. Without arguments, check that
every input document has a JSON sidecar in the output directory and that each
one validates.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("input", "i", "", "Input directory (default from INPUT_DIR)")
	validateCmd.Flags().StringP("output", "o", "", "Output directory (default from OUTPUT_DIR)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		dirs, err := pipeline.ResolveDirs(cfg)
		if err != nil {
			return err
		}
		inputs, err := pipeline.Discover(dirs.Input, cfg.InputPatterns)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No input files found."))
			return nil
		}
		for _, in := range inputs {
			paths = append(paths, pipeline.OutputPath(in, dirs.Output, render.FormatJSON))
		}
	}

	out := cmd.OutOrStdout()
	var invalid int
	for _, p := range paths {
		err := validateSidecar(p)
		if err != nil {
			invalid++
		}
		FormatValidation(out, p, err)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d outputs invalid", invalid, len(paths))
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("All %d outputs valid.", len(paths))))
	return nil
}

func validateSidecar(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.New("missing output file")
	}
	return outline.ValidateFile(path)
}
