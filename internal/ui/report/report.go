package report

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/focusmeter/internal/models"
)

const msgUnavailable = "Report unavailable"

// Fetcher loads the collector's report for a finished session.
type Fetcher interface {
	GetReport(ctx context.Context, sessionID string) (models.SessionReport, error)
}

type loadedMsg struct {
	report models.SessionReport
	err    error
}

type Model struct {
	ctx     context.Context
	fetcher Fetcher
	session models.Session

	spinner spinner.Model
	loading bool
	report  models.SessionReport
	failed  bool

	newSession bool
	quit       bool
	width      int
	height     int
}

func New(ctx context.Context, fetcher Fetcher, session models.Session) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7CCB"))

	return Model{
		ctx:     ctx,
		fetcher: fetcher,
		session: session,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.spinner.Tick)
}

func (m Model) fetchCmd() tea.Cmd {
	ctx, fetcher, id := m.ctx, m.fetcher, m.session.ID
	return func() tea.Msg {
		r, err := fetcher.GetReport(ctx, id)
		return loadedMsg{report: r, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("report: session %s: %v", m.session.ID, msg.err)
			m.failed = true
			return m, nil
		}
		m.report = msg.report
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.New):
			m.newSession = true
			return m, tea.Quit
		case key.Matches(msg, keys.Quit):
			m.quit = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF7CCB")).
		MarginBottom(1)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888")).
		MarginBottom(2)

	bodyStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		Foreground(lipgloss.Color("#CCCCCC"))

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	var body string
	switch {
	case m.loading:
		body = m.spinner.View() + " Generating your focus report..."
	case m.failed:
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Render(msgUnavailable)
	default:
		body = FormatText(m.report)
	}

	return containerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("Focus Report"),
		subtitleStyle.Render(m.session.Title),
		bodyStyle.Render(body),
		helpStyle.Render("n: new session • q: quit"),
	))
}

func (m Model) ShouldStartNew() bool {
	return m.newSession
}

func (m Model) ShouldQuit() bool {
	return m.quit
}

// Failed reports whether the report could not be loaded.
func (m Model) Failed() bool {
	return m.failed
}

type keyMap struct {
	New  key.Binding
	Quit key.Binding
}

var keys = keyMap{
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new session"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
