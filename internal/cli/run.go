package cli

import (
	"context"
	"fmt"

	"github.com/pipeviz/pipeviz/pkg/config"
	"github.com/pipeviz/pipeviz/pkg/errors"
	"github.com/pipeviz/pipeviz/pkg/pipeline"
	"github.com/pipeviz/pipeviz/pkg/render/mermaid"
)

// vizOpts holds the root command's flags and resolved settings.
type vizOpts struct {
	mode     string
	output   string
	open     bool
	settings Settings
}

// runVisualize is the root command flow: resolve the configuration, build
// the model, render the selected view, and print either the raw document or
// a service URL.
func runVisualize(ctx context.Context, path string, opts vizOpts) error {
	mode, err := mermaid.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if err := ValidateOutput(opts.output); err != nil {
		return err
	}

	doc, err := renderDocument(ctx, path, mode, opts.settings.MermaidConfig)
	if err != nil {
		return err
	}

	if !isURLOutput(opts.output) {
		fmt.Println(doc)
		return nil
	}

	enc := opts.settings.encoder()
	var url string
	switch opts.output {
	case OutputView, OutputEdit:
		url, err = enc.LiveURL(doc, opts.output == OutputEdit)
	default:
		url, err = enc.InkURL(doc, opts.output)
	}
	if err != nil {
		return err
	}

	printLink(url)
	if opts.open {
		logger := loggerFromContext(ctx)
		if err := openBrowser(url); err != nil {
			logger.Errorf("Failed to open browser: %v", err)
		} else {
			logger.Infof("Opened URL in browser")
		}
	}
	return nil
}

// buildModel resolves path (with includes) and extracts the pipeline model.
// Resolution warnings are logged; an empty job set is an error since there
// is nothing to draw.
func buildModel(ctx context.Context, path string) (*pipeline.Model, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	tree, warnings, err := config.Resolve(path)
	for _, w := range warnings {
		logger.Warnf("%s", w)
		printWarning("%s", w.Message)
	}
	if err != nil {
		return nil, err
	}

	model, err := pipeline.Build(tree)
	if err != nil {
		return nil, err
	}
	if len(model.JobNames) == 0 {
		return nil, errors.New(errors.ErrCodeModelBuild, "no jobs found in the pipeline configuration")
	}

	prog.done(fmt.Sprintf("Parsed %d jobs in %d stages", len(model.JobNames), len(model.Stages)))
	return model, nil
}

// renderDocument builds the model for path and renders the selected view as
// a complete Mermaid document.
func renderDocument(ctx context.Context, path string, mode mermaid.Mode, cfg string) (string, error) {
	model, err := buildModel(ctx, path)
	if err != nil {
		return "", err
	}

	var content string
	switch mode {
	case mermaid.ModeStages:
		content = mermaid.Stages(pipeline.BuildStageGraph(model))
	default:
		g := pipeline.DependencyGraph(model)
		if g.HasCycle() {
			loggerFromContext(ctx).Warnf("dependency graph contains a cycle")
		}
		content = mermaid.Deps(g)
	}

	return mermaid.Document(content, cfg), nil
}
