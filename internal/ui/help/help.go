package help

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/focusmeter/internal/config"
)

type Model struct {
	cfg    config.TrackerConfig
	width  int
	height int
	quit   bool
}

func New(cfg config.TrackerConfig) Model {
	return Model{cfg: cfg}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			return m, tea.Quit
		case key.Matches(msg, keys.Quit):
			m.quit = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	// Use reasonable defaults if dimensions aren't set
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	containerStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF7CCB")).
		Align(lipgloss.Center).
		MarginBottom(2)

	sectionTitleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FDFF8C")).
		MarginBottom(1).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4CAF50")).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC"))

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2).
		Align(lipgloss.Center)

	title := titleStyle.Render("How focus is measured")

	scoringSection := sectionTitleStyle.Render("Focus score")
	scoringContent := descStyle.Render(fmt.Sprintf(
		"Every %s the session checks whether the terminal is focused and\n"+
			"not suspended. That moment scores 100, anything else scores 0.\n"+
			"Time scoring %.0f or more counts as productive, the rest as\n"+
			"unproductive. Your average is weighted by elapsed time.",
		m.cfg.SampleInterval, m.cfg.FocusThreshold))

	awaySection := sectionTitleStyle.Render("Distractions")
	awayContent := fmt.Sprintf("%s - %s\n%s - %s\n%s - %s",
		keyStyle.Render("under "+formatDuration(m.cfg.IgnoreBelow)), descStyle.Render("ignored as a quick glance away"),
		keyStyle.Render(formatDuration(m.cfg.IgnoreBelow)+" to "+formatDuration(m.cfg.LongAbsenceAbove)), descStyle.Render("counted as a tab switch"),
		keyStyle.Render("over "+formatDuration(m.cfg.LongAbsenceAbove)), descStyle.Render("counted as a long absence"))

	reportSection := sectionTitleStyle.Render("Reporting")
	reportContent := descStyle.Render(fmt.Sprintf(
		"Totals are sent to the collector every %s and once more\n"+
			"when the session ends. A failed send never stops the timer.",
		formatDuration(m.cfg.ReportInterval)))

	keysSection := sectionTitleStyle.Render("During a session")
	keysContent := fmt.Sprintf("%s - %s\n%s - %s\n%s - %s",
		keyStyle.Render("e / enter"), descStyle.Render("End the session and view the report"),
		keyStyle.Render("ctrl+z"), descStyle.Render("Step away (suspends the program)"),
		keyStyle.Render("ctrl+c"), descStyle.Render("Abort without a final report"))

	footer := footerStyle.Render("Press 'b/esc' to go back • 'q' to quit")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		scoringSection,
		scoringContent,
		awaySection,
		awayContent,
		reportSection,
		reportContent,
		keysSection,
		keysContent,
		footer,
	)

	return containerStyle.Render(content)
}

func formatDuration(d time.Duration) string {
	if d%time.Minute == 0 && d >= time.Minute {
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return fmt.Sprintf("%ds", int(d/time.Second))
}

func (m Model) ShouldQuit() bool {
	return m.quit
}

type keyMap struct {
	Back key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b/esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
