package goal

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/focusmeter/internal/models"
)

const (
	titleField = iota
	descriptionField
	hoursField
	minutesField
	secondsField
	fieldCount
)

const (
	msgTitleRequired   = "Please enter a goal title"
	msgDurationTooLow  = "Duration must be at least 1 minute"
	msgNotConfigured   = "API is not configured. Set FOCUSMETER_API_BASE_URL or pass --api-url."
	msgCreateFailed    = "Unable to start session. Please try again."
	minDurationSeconds = 60
)

// Creator registers a session with the collector.
type Creator interface {
	Configured() bool
	CreateSession(ctx context.Context, payload models.CreateSessionPayload) (models.Session, error)
}

type createdMsg struct {
	session models.Session
	err     error
}

type Model struct {
	ctx     context.Context
	creator Creator

	inputs     []textinput.Model
	focusIndex int
	submitting bool
	errorMsg   string

	session  models.Session
	created  bool
	quit     bool
	showHelp bool

	width  int
	height int
}

func New(ctx context.Context, creator Creator) Model {
	inputs := make([]textinput.Model, fieldCount)

	numericValidation := func(text string) error {
		for _, char := range text {
			if !unicode.IsDigit(char) {
				return fmt.Errorf("only numbers allowed")
			}
		}
		return nil
	}

	inputs[titleField] = textinput.New()
	inputs[titleField].Placeholder = "What do you want to get done?"
	inputs[titleField].CharLimit = 120
	inputs[titleField].Width = 40
	inputs[titleField].Focus()

	inputs[descriptionField] = textinput.New()
	inputs[descriptionField].Placeholder = "Optional details"
	inputs[descriptionField].CharLimit = 280
	inputs[descriptionField].Width = 40

	for _, i := range []int{hoursField, minutesField, secondsField} {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = "0"
		inputs[i].CharLimit = 2
		inputs[i].Width = 4
		inputs[i].Validate = numericValidation
	}

	m := Model{
		ctx:     ctx,
		creator: creator,
		inputs:  inputs,
	}
	m.setDuration(models.DefaultDuration())
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case createdMsg:
		m.submitting = false
		if msg.err != nil {
			log.Printf("goal: create session failed: %v", msg.err)
			m.errorMsg = msgCreateFailed
			return m, nil
		}
		m.session = msg.session
		m.created = true
		log.Printf("goal: session %s created", m.session.ID)
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quit = true
			return m, tea.Quit
		}
		if m.submitting {
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Help):
			m.showHelp = true
			return m, tea.Quit

		case key.Matches(msg, keys.Tab):
			return m.moveFocus(1), nil

		case key.Matches(msg, keys.ShiftTab):
			return m.moveFocus(-1), nil

		case key.Matches(msg, keys.Up) && m.onDurationField():
			return m.adjust(1), nil

		case key.Matches(msg, keys.Down) && m.onDurationField():
			return m.adjust(-1), nil

		case key.Matches(msg, keys.Submit):
			return m.submit()
		}
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m Model) onDurationField() bool {
	return m.focusIndex >= hoursField
}

func (m Model) moveFocus(delta int) Model {
	m.normalizeDuration()
	m.focusIndex = (m.focusIndex + delta + fieldCount) % fieldCount
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m Model) adjust(delta int) Model {
	d := m.duration()
	switch m.focusIndex {
	case hoursField:
		d.Hours += delta
	case minutesField:
		d.Minutes += delta
	case secondsField:
		d.Seconds += delta
	}
	m.setDuration(d.Clamp())
	m.errorMsg = ""
	return m
}

// duration reads the three numeric fields; empty fields count as zero.
func (m Model) duration() models.DurationInput {
	field := func(i int) int {
		v, err := strconv.Atoi(m.inputs[i].Value())
		if err != nil {
			return 0
		}
		return v
	}
	return models.DurationInput{
		Hours:   field(hoursField),
		Minutes: field(minutesField),
		Seconds: field(secondsField),
	}
}

func (m *Model) setDuration(d models.DurationInput) {
	m.inputs[hoursField].SetValue(strconv.Itoa(d.Hours))
	m.inputs[minutesField].SetValue(strconv.Itoa(d.Minutes))
	m.inputs[secondsField].SetValue(strconv.Itoa(d.Seconds))
}

func (m *Model) normalizeDuration() {
	m.setDuration(m.duration().Clamp())
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.normalizeDuration()

	title := strings.TrimSpace(m.inputs[titleField].Value())
	if title == "" {
		m.errorMsg = msgTitleRequired
		return m, nil
	}

	seconds := m.duration().TotalSeconds()
	if seconds < minDurationSeconds {
		m.errorMsg = msgDurationTooLow
		return m, nil
	}

	if !m.creator.Configured() {
		log.Printf("goal: collector api is not configured, session not created")
		m.errorMsg = msgNotConfigured
		return m, nil
	}

	m.submitting = true
	m.errorMsg = ""

	payload := models.NewCreateSessionPayload(title, m.inputs[descriptionField].Value(), seconds)
	ctx, creator := m.ctx, m.creator
	return m, func() tea.Msg {
		sess, err := creator.CreateSession(ctx, payload)
		return createdMsg{session: sess, err: err}
	}
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		oldValue := m.inputs[i].Value()
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
		if m.inputs[i].Value() != oldValue {
			m.errorMsg = ""
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(4)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF7CCB")).
		MarginBottom(2)

	formStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		MarginTop(1).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FDFF8C"))

	inputStyle := lipgloss.NewStyle().
		MarginBottom(1)

	var form string
	form += labelStyle.Render("Goal:") + "\n"
	form += inputStyle.Render(m.inputs[titleField].View()) + "\n"
	form += labelStyle.Render("Description:") + "\n"
	form += inputStyle.Render(m.inputs[descriptionField].View()) + "\n"
	form += labelStyle.Render("Duration (hh:mm:ss):") + "\n"
	form += lipgloss.JoinHorizontal(lipgloss.Top,
		m.inputs[hoursField].View(), " : ",
		m.inputs[minutesField].View(), " : ",
		m.inputs[secondsField].View(),
	) + "\n"

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("Set your focus goal"),
		formStyle.Render(form),
		m.renderHelp(),
	)

	if m.submitting {
		content += "\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888")).
			MarginTop(2).
			Render("Starting session...")
	}

	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			MarginTop(2)
		content += "\n" + errorStyle.Render(m.errorMsg)
	}

	return containerStyle.Render(content)
}

func (m Model) renderHelp() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	return helpStyle.Render("tab/shift+tab: switch field • ↑/↓: adjust duration • enter: start • f1: how focus is measured • esc: quit")
}

// Created reports whether the collector accepted a session.
func (m Model) Created() bool {
	return m.created
}

func (m Model) Session() models.Session {
	return m.session
}

func (m Model) ShouldQuit() bool {
	return m.quit
}

func (m Model) ShouldShowHelp() bool {
	return m.showHelp
}

// Resume clears the help request so the form can be run again with its
// input intact.
func (m Model) Resume() Model {
	m.showHelp = false
	return m
}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Submit   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "increase"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "decrease"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start session"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}
