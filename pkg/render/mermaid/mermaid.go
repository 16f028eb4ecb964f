// Package mermaid renders pipeline graph views as Mermaid diagram text and
// encodes rendered documents into mermaid.live and mermaid.ink URLs.
//
// Rendering is deterministic: the same model always produces byte-identical
// output, because all iteration happens over insertion-ordered sequences.
// The emitted text must match the grammar the external services recognize
// exactly; malformed text shows up as a visible error on the service rather
// than failing locally.
package mermaid

import (
	"strings"

	"github.com/pipeviz/pipeviz/pkg/errors"
)

// Mode selects which graph view is rendered.
type Mode string

const (
	// ModeDeps renders the job dependency state diagram.
	ModeDeps Mode = "deps"
	// ModeStages renders the stage grouping flowchart.
	ModeStages Mode = "stages"
)

// ValidModes is the set of supported rendering modes.
var ValidModes = map[Mode]bool{
	ModeDeps:   true,
	ModeStages: true,
}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !ValidModes[m] {
		return "", errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: deps, stages)", s)
	}
	return m, nil
}

// DefaultConfig is the Mermaid configuration attached to every document
// unless the user overrides it.
const DefaultConfig = "gantt:\n  useWidth: 1600\n"

// Document wraps diagram content with a YAML front-matter config block.
// An empty config yields the bare content.
func Document(content, config string) string {
	if config == "" {
		return content
	}
	parts := []string{
		"---",
		"config:",
		strings.TrimSpace(config),
		"---",
		content,
	}
	return strings.Join(parts, "\n")
}
