package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap/zaptest"

	"bank-chat-client/internal/backend"
	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/render"
	"bank-chat-client/internal/session"
	"bank-chat-client/internal/store"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type replyBackend struct{ body string }

func (b replyBackend) SendMessage(context.Context, string, backend.SessionContext) (*backend.Reply, error) {
	return &backend.Reply{Status: 200, Body: []byte(b.body)}, nil
}

func newModel(t *testing.T, body string) Model {
	t.Helper()
	logger := zaptest.NewLogger(t)
	sess := session.New(replyBackend{body: body}, chat.NewNormalizer(), store.NewTranscript(), logger)
	return New(Options{
		Session:      sess,
		Endpoint:     "http://localhost:8081/api/v1/chat",
		CustomerID:   "C-5",
		ExportDir:    t.TempDir(),
		GlamourStyle: "notty",
		Logger:       logger,
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd, following batches, and feeds results of the given type
// back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = run(t, m, c)
		}
	case replyMsg, exportedMsg:
		m, _ = update(t, m, msg)
	}
	return m
}

func loggedIn(t *testing.T, body string) Model {
	t.Helper()
	m := newModel(t, body)
	m, _ = update(t, m, key("dana"))
	m, _ = update(t, m, key("tab"))
	m, _ = update(t, m, key("pw"))
	m, _ = update(t, m, key("enter"))
	if m.screen != screenChat {
		t.Fatalf("login failed: %q", m.loginErr)
	}
	return m
}

func TestLoginRequiresCredentials(t *testing.T) {
	m := newModel(t, `{}`)
	m, _ = update(t, m, key("dana"))
	m, _ = update(t, m, key("enter"))
	if m.screen != screenLogin || m.loginErr != "Please enter both username and password" {
		t.Fatalf("unexpected state screen=%v err=%q", m.screen, m.loginErr)
	}
	if !strings.Contains(m.View(), "Please enter both username and password") {
		t.Fatalf("login error not shown")
	}
}

func TestLoginUsesPrefilledCustomerID(t *testing.T) {
	m := loggedIn(t, `{}`)
	u, ok := m.opts.Session.User()
	if !ok || u.Username != "dana" || u.CustomerID != "C-5" {
		t.Fatalf("unexpected user %+v", u)
	}
	if m.fields[fieldPassword].Value() != "" {
		t.Fatalf("password kept after login")
	}
}

func TestEmptyTranscriptPlaceholder(t *testing.T) {
	m := loggedIn(t, `{}`)
	out := m.renderTranscript()
	if !strings.Contains(out, "Start a conversation by sending a message below.") {
		t.Fatalf("missing placeholder in %q", out)
	}
	if !strings.Contains(out, "API Endpoint: http://localhost:8081/api/v1/chat") {
		t.Fatalf("missing endpoint in %q", out)
	}
}

func TestSendRendersReply(t *testing.T) {
	body := `{
		"answer":"Here you go",
		"explanation":"Summed the ledger",
		"tables":[{"headers":["Date","Amount"],"rows":[["100","2024-01-01"]],"accountName":"Checking",
			"metadata":{"hasTotals":true,"totals":{"Amount":"100"},"rowCount":1}}],
		"dataSource":{"description":"Core banking","api":"/ledger","timeRange":"Q1"}
	}`
	m := loggedIn(t, body)
	m.input.SetValue("show ledger")
	m, cmd := update(t, m, key("enter"))
	if !m.opts.Session.Awaiting() {
		t.Fatalf("expected awaiting after send")
	}
	if !strings.Contains(m.View(), "typing") {
		t.Fatalf("typing indicator missing")
	}
	m = run(t, m, cmd)
	if m.opts.Session.Awaiting() {
		t.Fatalf("still awaiting after reply")
	}

	out := m.renderTranscript()
	for _, want := range []string{
		"show ledger", "Here you go", "Checking", "2024-01-01", "Total rows: 1",
		"How I got this:", "Summed the ledger", "Core banking", "API: /ledger", "Period: Q1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("transcript missing %q:\n%s", want, out)
		}
	}
}

func TestBlankInputIgnored(t *testing.T) {
	m := loggedIn(t, `{}`)
	m.input.SetValue("   ")
	m, cmd := update(t, m, key("enter"))
	if cmd != nil || len(m.opts.Session.Messages()) != 0 {
		t.Fatalf("blank input was sent")
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m := loggedIn(t, `{"answer":"hi"}`)
	m.input.SetValue("hello")
	m, cmd := update(t, m, key("enter"))
	m = run(t, m, cmd)

	m, _ = update(t, m, key("ctrl+l"))
	if m.screen != screenLogin {
		t.Fatalf("expected login screen")
	}
	if len(m.opts.Session.Messages()) != 0 {
		t.Fatalf("transcript not cleared")
	}
}

func TestExportLatestTables(t *testing.T) {
	m := loggedIn(t, `{"answer":"t","table":{"headers":["A"],"rows":[["1"]]}}`)
	m.input.SetValue("table please")
	m, cmd := update(t, m, key("enter"))
	m = run(t, m, cmd)

	m, cmd = update(t, m, key("ctrl+e"))
	m = run(t, m, cmd)
	if !strings.HasPrefix(m.status, "Exported to ") {
		t.Fatalf("unexpected status %q", m.status)
	}
	path := strings.TrimPrefix(m.status, "Exported to ")
	if filepath.Dir(path) != m.opts.ExportDir {
		t.Fatalf("exported outside export dir: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestExportWithoutTables(t *testing.T) {
	m := loggedIn(t, `{"answer":"plain"}`)
	m, cmd := update(t, m, key("ctrl+e"))
	m = run(t, m, cmd)
	if !strings.HasPrefix(m.status, "Export failed") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestRenderGridTotalsAndFooter(t *testing.T) {
	out := renderGrid(render.Grid{
		AccountName: "Savings",
		Headers:     []string{"Date", "Amount"},
		Rows:        [][]string{{"2024-01-01", "5"}},
		Totals:      []string{"", "5"},
		Footer:      "Total rows: 1",
	})
	lines := strings.Split(out, "\n")
	if lines[0] != "Savings" {
		t.Fatalf("account name not first: %q", lines[0])
	}
	if lines[len(lines)-1] != "Total rows: 1" {
		t.Fatalf("footer not last: %q", lines[len(lines)-1])
	}
	if strings.Count(out, "5") != 2 {
		t.Fatalf("expected body and totals cells:\n%s", out)
	}
}
