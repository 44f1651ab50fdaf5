package session

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/focusmeter/internal/attention"
	"github.com/adibhanna/focusmeter/internal/config"
	"github.com/adibhanna/focusmeter/internal/models"
)

// Ticks carry the id of the view that armed them so a tick left over from
// an earlier session is dropped.
type clockTickMsg struct {
	id int64
	at time.Time
}

type sampleTickMsg struct {
	id int64
	at time.Time
}

type endedMsg struct{ finished bool }

var lastID int64

func nextID() int64 {
	return atomic.AddInt64(&lastID, 1)
}

// Finisher ends the reporting side of a session.
type Finisher interface {
	Start(ctx context.Context)
	Finish(ctx context.Context) bool
}

type Model struct {
	id       int64
	ctx      context.Context
	session  models.Session
	tracker  *attention.Tracker
	reporter Finisher
	cfg      config.TrackerConfig
	now      func() time.Time

	progress  progress.Model
	ending    bool
	finished  bool
	aborted   bool
	lastEvent string
	width     int
	height    int
}

func New(ctx context.Context, sess models.Session, tracker *attention.Tracker, reporter Finisher, cfg config.TrackerConfig) Model {
	prog := progress.New(progress.WithScaledGradient("#FF7CCB", "#FDFF8C"))
	prog.Width = 60

	return Model{
		id:       nextID(),
		ctx:      ctx,
		session:  sess,
		tracker:  tracker,
		reporter: reporter,
		cfg:      cfg,
		now:      time.Now,
		progress: prog,
	}
}

// WithNow replaces the wall clock used for focus and visibility events.
func (m Model) WithNow(now func() time.Time) Model {
	m.now = now
	return m
}

func (m Model) Init() tea.Cmd {
	m.reporter.Start(m.ctx)
	log.Printf("session %s started: %q, %ds planned", m.session.ID, m.session.Title, m.session.PlannedDurationSeconds)
	return tea.Batch(m.clockTickCmd(), m.sampleTickCmd())
}

func (m Model) clockTickCmd() tea.Cmd {
	id := m.id
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg{id: id, at: t}
	})
}

func (m Model) sampleTickCmd() tea.Cmd {
	id := m.id
	return tea.Tick(m.cfg.SampleInterval, func(t time.Time) tea.Msg {
		return sampleTickMsg{id: id, at: t}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 80)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.End):
			return m.end("ended early")

		case key.Matches(msg, keys.Suspend) && !m.ending:
			m.recordTransition("hidden", m.tracker.SetVisible(false, m.now()))
			return m, tea.Suspend

		case key.Matches(msg, keys.Abort):
			// The final send is already in flight; let it finish.
			if m.ending {
				return m, nil
			}
			m.aborted = true
			log.Printf("session %s aborted without final report", m.session.ID)
			return m, tea.Quit
		}

	case tea.ResumeMsg:
		m.recordTransition("visible", m.tracker.SetVisible(true, m.now()))
		return m, nil

	case tea.BlurMsg:
		m.recordTransition("blur", m.tracker.SetFocused(false, m.now()))
		return m, nil

	case tea.FocusMsg:
		m.recordTransition("focus", m.tracker.SetFocused(true, m.now()))
		return m, nil

	case clockTickMsg:
		if msg.id != m.id || m.ending {
			return m, nil
		}
		if m.tracker.Tick(msg.at) {
			return m.end("countdown complete")
		}
		return m, m.clockTickCmd()

	case sampleTickMsg:
		if msg.id != m.id || m.ending {
			return m, nil
		}
		m.tracker.Sample(msg.at)
		return m, m.sampleTickCmd()

	case endedMsg:
		m.finished = true
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// end runs the end-of-session sequence once; later calls are no-ops.
func (m Model) end(reason string) (tea.Model, tea.Cmd) {
	if m.ending {
		return m, nil
	}
	m.ending = true
	m.tracker.Sample(m.now())
	log.Printf("session %s ending: %s", m.session.ID, reason)

	ctx, reporter := m.ctx, m.reporter
	return m, func() tea.Msg {
		return endedMsg{finished: reporter.Finish(ctx)}
	}
}

func (m *Model) recordTransition(signal string, t attention.Transition) {
	switch {
	case t.Opened:
		m.lastEvent = "Away since " + m.now().Format("15:04:05")
		log.Printf("session %s: %s, away interval opened", m.session.ID, signal)
	case t.Closed && t.Counted:
		m.lastEvent = fmt.Sprintf("Back after %s (%s)", t.Away.Round(time.Second), t.Kind)
		log.Printf("session %s: %s after %v, counted as %s", m.session.ID, signal, t.Away, t.Kind)
	case t.Closed:
		m.lastEvent = ""
		log.Printf("session %s: %s after %v, ignored", m.session.ID, signal, t.Away)
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	st := m.tracker.Status()

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF7CCB")).
		MarginBottom(2)

	timerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(2, 4).
		MarginBottom(2)

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888")).
		MarginTop(1)

	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Render("●")
	status := "Focusing..."
	switch {
	case m.ending:
		status = "Ending session..."
	case st.Presence == attention.Away:
		indicator = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("●")
		status = "Away"
	}

	stats := fmt.Sprintf("Focus %d%% • Productive %s • Distracted %s • Distractions %s",
		st.AvgFocusScore,
		attention.FormatSeconds(int(st.ProductiveSeconds)),
		attention.FormatSeconds(int(st.UnproductiveSeconds)),
		formatDistractions(st.Distractions))

	lines := []string{
		statusStyle.Render(indicator + " " + status),
		titleStyle.Render(m.session.Title),
		timerStyle.Render(attention.FormatSeconds(st.Remaining)),
		m.progress.ViewAs(st.Progress),
		statusStyle.Render(stats),
	}
	if m.lastEvent != "" {
		lines = append(lines, statusStyle.Render(m.lastEvent))
	}
	lines = append(lines, helpView(m.ending))

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func formatDistractions(d []models.Distraction) string {
	if len(d) == 0 {
		return "none"
	}
	out := ""
	for i, item := range d {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s×%d", item.Type, item.Count)
	}
	return out
}

func helpView(ending bool) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	if ending {
		return helpStyle.Render("Sending final report...")
	}
	return helpStyle.Render("e/enter: end session • ctrl+z: step away • ctrl+c: abort")
}

// Finished reports whether the end sequence ran to completion.
func (m Model) Finished() bool {
	return m.finished
}

func (m Model) Aborted() bool {
	return m.aborted
}

func (m Model) Ending() bool {
	return m.ending
}

func (m Model) Session() models.Session {
	return m.session
}

type keyMap struct {
	End     key.Binding
	Suspend key.Binding
	Abort   key.Binding
}

var keys = keyMap{
	End: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "end session"),
	),
	Suspend: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("ctrl+z", "step away"),
	),
	Abort: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "abort"),
	),
}
