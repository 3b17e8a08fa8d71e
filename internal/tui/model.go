// Package tui is the terminal chat client.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/export"
	"bank-chat-client/internal/render"
	"bank-chat-client/internal/session"
)

// Options wires the client to its session and environment.
type Options struct {
	Session      *session.Session
	Endpoint     string
	CustomerID   string // prefilled on the login screen
	ExportDir    string
	GlamourStyle string
	Logger       *zap.Logger
}

type screen int

const (
	screenLogin screen = iota
	screenChat
)

const (
	fieldUsername = iota
	fieldPassword
	fieldCustomerID
	fieldCount
)

// layout rows taken by everything except the transcript viewport
const chromeHeight = 8

type replyMsg struct {
	messages []chat.Message
}

type exportedMsg struct {
	path string
	err  error
}

type Model struct {
	opts Options

	screen   screen
	fields   []textinput.Model
	focus    int
	loginErr string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	status   string

	width  int
	height int
}

func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = "dark"
	}

	fields := make([]textinput.Model, fieldCount)
	for i := range fields {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 40
		fields[i] = ti
	}
	fields[fieldUsername].Placeholder = "Username"
	fields[fieldPassword].Placeholder = "Password"
	fields[fieldPassword].EchoMode = textinput.EchoPassword
	fields[fieldPassword].EchoCharacter = '•'
	fields[fieldCustomerID].Placeholder = "Customer ID (optional)"
	fields[fieldCustomerID].SetValue(opts.CustomerID)
	fields[fieldUsername].Focus()

	input := textinput.New()
	input.Placeholder = "Type your message... (Enter to send, Ctrl+C to exit)"
	input.CharLimit = 2000
	input.Width = 72

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = mutedStyle

	m := Model{
		opts:     opts,
		screen:   screenLogin,
		fields:   fields,
		input:    input,
		viewport: viewport.New(80, 24-chromeHeight),
		spinner:  sp,
		width:    80,
		height:   24,
	}
	m.renderer = m.newRenderer()
	return m
}

func (m Model) newRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.opts.GlamourStyle),
		glamour.WithWordWrap(max(m.width-8, 20)),
	)
	if err != nil {
		m.opts.Logger.Warn("markdown renderer unavailable", zap.Error(err))
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = msg.Width - 8
		m.renderer = m.newRenderer()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			return m.updateLogin(msg)
		}
		return m.updateChat(msg)

	case replyMsg:
		m.refresh()
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Exported to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.opts.Session.Awaiting() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.screen == screenChat {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.focusField((m.focus + 1) % fieldCount), nil
	case "shift+tab", "up":
		return m.focusField((m.focus + fieldCount - 1) % fieldCount), nil
	case "enter":
		err := m.opts.Session.Login(
			m.fields[fieldUsername].Value(),
			m.fields[fieldPassword].Value(),
			m.fields[fieldCustomerID].Value(),
		)
		// the password is not kept past the attempt
		m.fields[fieldPassword].Reset()
		if err != nil {
			m.loginErr = err.Error()
			return m, nil
		}
		m.loginErr = ""
		m.status = ""
		m.screen = screenChat
		m.input.Reset()
		m.input.Focus()
		m.refresh()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusField(i int) Model {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[m.focus].Focus()
	return m
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+l":
		m.opts.Session.Logout()
		m.screen = screenLogin
		m.input.Blur()
		m.status = ""
		m = m.focusField(fieldUsername)
		return m, nil

	case "ctrl+e":
		return m, m.exportLatest()

	case "enter":
		if m.opts.Session.Awaiting() {
			return m, nil
		}
		turn, err := m.opts.Session.Begin(m.input.Value())
		if err != nil {
			if !errors.Is(err, session.ErrEmptyMessage) {
				m.status = err.Error()
			}
			return m, nil
		}
		m.input.Reset()
		m.status = ""
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, complete(turn))

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.opts.Session.Awaiting() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func complete(turn *session.Turn) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{messages: turn.Complete(context.Background())}
	}
}

// exportLatest writes the newest message with renderable tables to a
// workbook in the export directory.
func (m Model) exportLatest() tea.Cmd {
	msgs := m.opts.Session.Messages()
	dir := m.opts.ExportDir
	logger := m.opts.Logger
	return func() tea.Msg {
		for i := len(msgs) - 1; i >= 0; i-- {
			if !msgs[i].HasTables() {
				continue
			}
			grids := render.RenderAll(msgs[i].Tables)
			if len(grids) == 0 {
				continue
			}
			path := filepath.Join(dir, fmt.Sprintf("bank-chat-%d.xlsx", msgs[i].ID))
			f, err := os.Create(path)
			if err != nil {
				return exportedMsg{err: err}
			}
			if err := export.WriteXLSX(f, grids); err != nil {
				f.Close()
				return exportedMsg{err: err}
			}
			if err := f.Close(); err != nil {
				return exportedMsg{err: err}
			}
			logger.Info("exported tables", zap.String("path", path), zap.Int("sheets", len(grids)))
			return exportedMsg{path: path}
		}
		return exportedMsg{err: export.ErrNoGrids}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// Run starts the client on the terminal's alternate screen.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}
