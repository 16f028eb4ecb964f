// Package cli implements the pipeviz command-line interface.
//
// The root command turns a GitLab CI configuration file into a Mermaid
// diagram (printed raw, or as a mermaid.live / mermaid.ink URL). Subcommands
// provide local SVG export, a local preview server, an interactive output
// picker, and shell completions. All commands support --verbose (-v) for
// debug-level logging; loggers are passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pipeviz/pipeviz/pkg/buildinfo"
	"github.com/pipeviz/pipeviz/pkg/errors"
)

// appName is the application name used for directories and display.
const appName = "pipeviz"

// Output selectors for the root command.
const (
	OutputRaw  = "raw"
	OutputView = "view"
	OutputEdit = "edit"
)

// ValidOutputs is the set of supported output selectors: raw text, the two
// mermaid.live routes, and the mermaid.ink image formats.
var ValidOutputs = map[string]bool{
	OutputRaw:  true,
	OutputView: true,
	OutputEdit: true,
	"png":      true,
	"jpg":      true,
	"svg":      true,
	"webp":     true,
	"pdf":      true,
}

// ValidateOutput checks that an output selector is valid.
func ValidateOutput(output string) error {
	if !ValidOutputs[output] {
		return errors.New(errors.ErrCodeInvalidOutput, "invalid output: %q (must be one of: raw, view, edit, png, jpg, svg, webp, pdf)", output)
	}
	return nil
}

// isURLOutput reports whether the selector produces a URL rather than text.
func isURLOutput(output string) bool {
	return output != OutputRaw
}

// Execute runs the pipeviz CLI and returns an error if any command fails.
func Execute(ctx context.Context) error {
	var verbose bool

	settings, settingsErr := loadSettings()
	opts := vizOpts{mode: settings.Mode, output: settings.Output, settings: settings}

	root := &cobra.Command{
		Use:   "pipeviz <gitlab-ci.yml>",
		Short: "pipeviz visualizes GitLab CI pipelines as Mermaid diagrams",
		Long: `pipeviz reads a local GitLab CI configuration (following its local
includes) and renders the pipeline structure as a Mermaid diagram.

Two visualization modes are available:
  deps    job dependency graph built from needs (default)
  stages  jobs grouped by stage, stages in declared order

Examples:
  pipeviz .gitlab-ci.yml
  pipeviz ci/main.yml --mode stages
  pipeviz .gitlab-ci.yml --output view --open`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			if settingsErr != nil {
				logger.Warnf("Ignoring user settings: %v", settingsErr)
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.open && !isURLOutput(opts.output) {
				return fmt.Errorf("--open can only be used with URL outputs")
			}
			return runVisualize(cmd.Context(), args[0], opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "visualization mode: deps (default), stages")
	root.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output: raw (default), view, edit, png, jpg, svg, webp, pdf")
	root.Flags().BoolVar(&opts.open, "open", false, "open the URL in your default web browser (URL outputs only)")

	root.AddCommand(newExportCmd(settings))
	root.AddCommand(newServeCmd(settings))
	root.AddCommand(newPickCmd(settings))
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
