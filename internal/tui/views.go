package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateInventory:
		content = m.renderInventory()
	case StateSale:
		content = m.renderSale()
	case StateReport:
		content = m.renderReport()
	default:
		content = m.renderMenu()
	}

	sections := []string{content}
	if m.status != "" {
		sections = append(sections, "", m.renderStatus())
	}
	if m.showHelp {
		sections = append(sections, "", m.help.View(m.keymap))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Virtual Store Inventory System") + "\n")

	for i, item := range menuItems {
		line := string(rune('1'+i)) + ". " + item.title
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString(m.theme.Normal.Render("  "+line) + "\n")
		}
	}

	return m.theme.RoundedBox.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderInventory() string {
	var b strings.Builder
	if err := m.store.DisplayInventory(&b); err != nil {
		return m.theme.StatusError.Render(err.Error())
	}
	return m.renderPage("Inventory", b.String())
}

func (m Model) renderReport() string {
	var b strings.Builder
	if err := m.store.GenerateReport(&b); err != nil {
		return m.theme.StatusError.Render(err.Error())
	}
	return m.renderPage("Transaction Report", strings.TrimLeft(b.String(), "\n"))
}

func (m Model) renderPage(title, body string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render(title),
		m.theme.Table.Render(strings.TrimRight(body, "\n")),
	)
}

func (m Model) renderSale() string {
	fields := make([]string, 0, len(m.inputs)+1)
	fields = append(fields, m.theme.Title.Render("Make a Sale"))
	for _, input := range m.inputs {
		fields = append(fields, input.View())
	}
	fields = append(fields, "", lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Enter on the last field completes the sale"))

	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, fields...))
}

func (m Model) renderStatus() string {
	if m.statusErr {
		return m.theme.StatusError.Render(m.status)
	}
	return m.theme.StatusSuccess.Render(m.status)
}
