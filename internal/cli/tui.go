package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickOption is one selectable mode/output combination.
type pickOption struct {
	mode    string
	output  string
	summary string
}

func pickOptions() []pickOption {
	return []pickOption{
		{"deps", OutputRaw, "dependency graph, raw Mermaid text"},
		{"deps", OutputView, "dependency graph, mermaid.live viewer URL"},
		{"deps", OutputEdit, "dependency graph, mermaid.live editor URL"},
		{"deps", "svg", "dependency graph, mermaid.ink SVG URL"},
		{"deps", "png", "dependency graph, mermaid.ink PNG URL"},
		{"stages", OutputRaw, "stage overview, raw Mermaid text"},
		{"stages", OutputView, "stage overview, mermaid.live viewer URL"},
		{"stages", OutputEdit, "stage overview, mermaid.live editor URL"},
		{"stages", "svg", "stage overview, mermaid.ink SVG URL"},
		{"stages", "png", "stage overview, mermaid.ink PNG URL"},
	}
}

// pickListModel is the bubbletea model for interactive output selection.
type pickListModel struct {
	Options  []pickOption
	Cursor   int
	Selected *pickOption
}

func newPickListModel(options []pickOption) pickListModel {
	return pickListModel{Options: options}
}

func (m pickListModel) Init() tea.Cmd {
	return nil
}

func (m pickListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Options)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Options[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Visualization"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-7s %-5s  %s", cursor, opt.mode, opt.output, listDimStyle.Render(opt.summary))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")

	return b.String()
}

// newPickCmd creates the pick command: an interactive selector for the
// mode/output combination, running the normal visualization afterwards.
func newPickCmd(settings Settings) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "pick <gitlab-ci.yml>",
		Short: "Interactively pick a visualization mode and output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program := tea.NewProgram(newPickListModel(pickOptions()))
			final, err := program.Run()
			if err != nil {
				return fmt.Errorf("selection failed: %w", err)
			}

			model, ok := final.(pickListModel)
			if !ok || model.Selected == nil {
				return fmt.Errorf("no selection made")
			}

			opts := vizOpts{
				mode:     model.Selected.mode,
				output:   model.Selected.output,
				open:     open && isURLOutput(model.Selected.output),
				settings: settings,
			}
			return runVisualize(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "open the URL in your default web browser (URL outputs only)")

	return cmd
}
