// Package tui provides the interactive terminal front end for the assistant.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/phonebook/internal/assistant"
)

// chromeHeight is the number of rows outside the transcript body:
// title, two border rows, input and help bar.
const chromeHeight = 5

// Model is the Bubble Tea model for a chat session.
type Model struct {
	handler  assistant.Handler
	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	title    string

	transcript []string
	width      int
	done       bool
}

// ModelOption configures optional Model behavior.
type ModelOption func(*Model)

// WithPrompt sets the text shown before the input field.
func WithPrompt(prompt string) ModelOption {
	return func(m *Model) { m.input.Prompt = prompt }
}

// WithTitle sets the heading shown above the transcript.
func WithTitle(title string) ModelOption {
	return func(m *Model) { m.title = title }
}

// NewModel creates a Model that sends each submitted line to h.
func NewModel(h assistant.Handler, opts ...ModelOption) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "type help for commands"
	in.Focus()

	m := Model{
		handler:  h,
		input:    in,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     defaultKeyMap(),
		title:    "Phonebook",
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.input.PromptStyle = promptStyle
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
		m.viewport.Width = max(msg.Width-2, 0)
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	resp := m.handler.Handle(line)
	m.transcript = append(m.transcript, promptStyle.Render(m.input.Prompt)+line)
	if resp.Text != "" {
		style := replyStyle
		if resp.Err {
			style = errorStyle
		}
		m.transcript = append(m.transcript, style.Render(resp.Text))
	}
	m.refresh()

	if resp.Exit {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

// Transcript returns the rendered exchange so far, one entry per line
// submitted or reply received.
func (m Model) Transcript() []string {
	return m.transcript
}

// Done reports whether the session has ended.
func (m Model) Done() bool {
	return m.done
}

// View renders the title, transcript, input line and help bar.
func (m Model) View() string {
	if m.done {
		if n := len(m.transcript); n > 0 {
			return m.transcript[n-1] + "\n"
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(transcriptBorder.Width(m.viewport.Width).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
