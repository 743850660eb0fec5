package main

import (
	"fmt"
	"strings"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <script | name>",
	Short: "Show a script and its expansion side by side",
	Long: "Open an interactive view with the script source on the left and the expanded\n" +
		"commands on the right. Keys: [Tab] switch pane, [r] reload, [q] quit.",
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return scriptCompletion(args, toComplete)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "-" {
			return fmt.Errorf("preview cannot reload from stdin; pass a file or a script name")
		}
		reload := func() previewResult {
			e, err := load()
			if err != nil {
				return previewResult{err: err}
			}
			s, err := e.resolveScript(args[0])
			if err != nil {
				return previewResult{err: err}
			}
			exp, err := e.expand(s, e.subsFor(s))
			return previewResult{script: s, exp: exp, err: err}
		}
		p := tea.NewProgram(newPreviewModel(reload), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

var (
	stylePaneTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	stylePane = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	stylePaneFocused = stylePane.
				BorderForeground(lipgloss.Color("214"))

	stylePreviewHelp = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Padding(0, 1)

	stylePreviewErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// previewResult is one load of the previewed script.
type previewResult struct {
	script scriptyaml.NamedScript
	exp    *cmdparse.Expansion
	err    error
}

type previewModel struct {
	reload func() previewResult
	result previewResult
	source viewport.Model
	output viewport.Model
	focus  int // 0 source, 1 output
	ready  bool
	width  int
}

func newPreviewModel(reload func() previewResult) previewModel {
	return previewModel{reload: reload, result: reload()}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.focus = 1 - m.focus
			return m, nil
		case "r":
			m.result = m.reload()
			m.setContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		paneWidth := msg.Width/2 - 2
		paneHeight := msg.Height - 5 // title, borders, help
		if !m.ready {
			m.source = viewport.New(paneWidth, paneHeight)
			m.output = viewport.New(paneWidth, paneHeight)
			m.ready = true
		} else {
			m.source.Width, m.source.Height = paneWidth, paneHeight
			m.output.Width, m.output.Height = paneWidth, paneHeight
		}
		m.setContent()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.source, cmd = m.source.Update(msg)
	} else {
		m.output, cmd = m.output.Update(msg)
	}
	return m, cmd
}

func (m *previewModel) setContent() {
	if !m.ready {
		return
	}
	m.source.SetContent(renderSource(m.result.script.Script))
	m.output.SetContent(renderExpansion(m.result.exp, m.result.err))
}

func (m previewModel) View() string {
	if !m.ready {
		return "loading..."
	}
	left, right := stylePane, stylePane
	if m.focus == 0 {
		left = stylePaneFocused
	} else {
		right = stylePaneFocused
	}

	title := stylePaneTitle.Render(previewTitle(m.result))
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.source.View()),
		right.Render(m.output.View()),
	)
	help := stylePreviewHelp.Render("[Tab] switch pane | [↑/↓] scroll | [r] reload | [q] quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, panes, help)
}

func previewTitle(r previewResult) string {
	if r.script.Name == "" {
		return appName + " preview"
	}
	if r.exp == nil {
		return fmt.Sprintf("%s  (%s)", r.script.Name, r.script.Source)
	}
	return fmt.Sprintf("%s  (%s)  %d commands, %d macros",
		r.script.Name, r.script.Source, len(r.exp.Commands), r.exp.Macros.Len())
}

// renderSource numbers every line of script from 1.
func renderSource(script string) string {
	return numberLines(strings.Split(strings.TrimRight(script, "\n"), "\n"))
}

// renderExpansion numbers the expanded commands, or shows the error that
// stopped the expansion.
func renderExpansion(exp *cmdparse.Expansion, err error) string {
	if err != nil {
		return stylePreviewErr.Render(err.Error())
	}
	if exp == nil || len(exp.Commands) == 0 {
		return "(no commands)"
	}
	return numberLines(exp.Commands)
}

func numberLines(lines []string) string {
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%*d  %s\n", width, i+1, l)
	}
	return strings.TrimRight(b.String(), "\n")
}
