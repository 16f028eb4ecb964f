package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipeviz/pipeviz/pkg/pipeline"
	"github.com/pipeviz/pipeviz/pkg/render/dot"
	"github.com/pipeviz/pipeviz/pkg/render/mermaid"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	mode   string // visualization mode
	output string // output file path, extension selects DOT or SVG
}

// newExportCmd creates the export command, which renders the pipeline
// locally via Graphviz instead of producing Mermaid text or service URLs.
func newExportCmd(settings Settings) *cobra.Command {
	opts := exportOpts{mode: settings.Mode, output: "pipeline.svg"}

	cmd := &cobra.Command{
		Use:   "export <gitlab-ci.yml>",
		Short: "Render the pipeline to a local SVG or DOT file",
		Long: `Render the pipeline to a local file without any external service.

The output extension selects the format: .dot writes the Graphviz source,
anything else renders SVG via the embedded Graphviz engine.

Examples:
  pipeviz export .gitlab-ci.yml
  pipeviz export .gitlab-ci.yml -o pipeline.dot
  pipeviz export ci/main.yml --mode stages -o stages.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "visualization mode: deps (default), stages")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (.svg or .dot)")

	return cmd
}

func runExport(ctx context.Context, path string, opts exportOpts) error {
	mode, err := mermaid.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	model, err := buildModel(ctx, path)
	if err != nil {
		return err
	}

	var src string
	switch mode {
	case mermaid.ModeStages:
		src = dot.FromStages(pipeline.BuildStageGraph(model))
	default:
		src = dot.FromDeps(pipeline.DependencyGraph(model))
	}

	data := []byte(src)
	if !strings.HasSuffix(strings.ToLower(opts.output), ".dot") {
		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		data, err = dot.RenderSVG(src)
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return fmt.Errorf("render SVG: %w", err)
		}
		spinner.Stop()
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Exported %s view", mode)
	printFile(opts.output)
	return nil
}
