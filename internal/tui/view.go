package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/render"
)

func (m Model) View() string {
	if m.screen == screenLogin {
		return m.loginView()
	}
	return m.chatView()
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bank Chat"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Sign in to continue"))
	b.WriteString("\n\n")
	labels := []string{"Username", "Password", "Customer ID"}
	for i, f := range m.fields {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}
	if m.loginErr != "" {
		b.WriteString(errorStyle.Render(m.loginErr))
		b.WriteString("\n\n")
	}
	b.WriteString(mutedStyle.Render("Tab to switch fields, Enter to log in, Ctrl+C to quit"))
	return panelStyle.Render(b.String())
}

func (m Model) chatView() string {
	var header string
	if u, ok := m.opts.Session.User(); ok {
		header = titleStyle.Render("Bank Chat") + "  " + mutedStyle.Render("Welcome, "+u.Username)
		if u.CustomerID != "" {
			header += mutedStyle.Render(" (" + u.CustomerID + ")")
		}
	}

	status := m.status
	if m.opts.Session.Awaiting() {
		status = m.spinner.View() + " Bot is typing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		mutedStyle.Render(status),
		inputStyle.Render(m.input.View()),
		mutedStyle.Render("Enter send · Ctrl+E export tables · Ctrl+L log out · Ctrl+C quit"),
	)
}

func (m Model) renderTranscript() string {
	msgs := m.opts.Session.Messages()
	if len(msgs) == 0 {
		return mutedStyle.Render("Start a conversation by sending a message below.") + "\n" +
			mutedStyle.Render("API Endpoint: "+m.opts.Endpoint)
	}
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderMessage(msg chat.Message) string {
	var b strings.Builder
	if msg.Sender == chat.SenderUser {
		b.WriteString(userStyle.Render("You"))
	} else {
		b.WriteString(botStyle.Render("Bot"))
	}
	b.WriteString(mutedStyle.Render(" · " + msg.DisplayTime()))
	b.WriteString("\n")

	switch {
	case msg.IsError:
		b.WriteString(errorStyle.Render(msg.Text))
	case msg.Sender == chat.SenderBot:
		b.WriteString(m.markdown(msg.Text))
	default:
		b.WriteString(lipgloss.NewStyle().Width(max(m.width-8, 20)).Render(msg.Text))
	}

	for _, g := range render.RenderAll(msg.Tables) {
		b.WriteString("\n")
		b.WriteString(renderGrid(g))
	}

	if msg.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("How I got this:"))
		b.WriteString("\n")
		b.WriteString(m.markdown(msg.Explanation))
	}

	if ds := msg.DataSource; !ds.Empty() {
		var lines []string
		if ds.Description != "" {
			lines = append(lines, ds.Description)
		}
		if ds.API != "" {
			lines = append(lines, "API: "+ds.API)
		}
		if ds.TimeRange != "" {
			lines = append(lines, "Period: "+ds.TimeRange)
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(strings.Join(lines, "\n")))
	}
	return b.String()
}

// markdown renders bot text, falling back to plain text when the renderer
// is unavailable or fails.
func (m Model) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func renderGrid(g render.Grid) string {
	rows := g.Rows
	if g.HasTotals() {
		rows = append(append([][]string(nil), g.Rows...), g.Totals)
	}
	totalsRow := -1
	if g.HasTotals() {
		totalsRow = len(rows) - 1
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(g.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row == totalsRow:
				return tableTotalsStyle
			default:
				return tableCellStyle
			}
		})

	var b strings.Builder
	if g.AccountName != "" {
		b.WriteString(labelStyle.Render(g.AccountName))
		b.WriteString("\n")
	}
	b.WriteString(t.Render())
	if g.Footer != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(g.Footer))
	}
	return b.String()
}
