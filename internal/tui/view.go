package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/charmbracelet/lipgloss"
)

// View renders the review screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if len(m.candidates) == 0 {
		sections = append(sections, m.theme.Normal.Render("No recurring payments found in this window."))
	} else {
		sections = append(sections, m.renderList())
	}
	sections = append(sections, m.renderFooter(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Review recurring payments")

	sub := fmt.Sprintf("%d candidates", len(m.candidates))
	if !m.config.Now.IsZero() {
		sub = fmt.Sprintf("%s · %s to %s · preset %s",
			sub,
			m.config.Since.Format("2006-01-02"),
			m.config.Now.Format("2006-01-02"),
			m.config.Preset)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Subtitle.Render(sub))
}

func (m Model) renderList() string {
	end := m.offset + m.pageSize()
	if end > len(m.candidates) {
		end = len(m.candidates)
	}

	labelWidth := m.width - 44
	if labelWidth < 12 {
		labelWidth = 12
	}

	lines := make([]string, 0, end-m.offset+1)
	if m.offset > 0 {
		lines = append(lines, m.theme.Low.Render(fmt.Sprintf("  ↑ %d more", m.offset)))
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i, labelWidth))
	}
	if rest := len(m.candidates) - end; rest > 0 {
		lines = append(lines, m.theme.Low.Render(fmt.Sprintf("  ↓ %d more", rest)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i, labelWidth int) string {
	c := m.candidates[i]

	check := "[ ]"
	if m.selected[c.ID] {
		check = m.theme.Checked.Render("[x]")
	}

	label := lipgloss.NewStyle().Width(labelWidth).MaxWidth(labelWidth).Render(truncate(c.Label, labelWidth))
	row := fmt.Sprintf("%s %s %10s/mo  %-26s %s",
		check,
		label,
		c.MonthlyCost().StringFixed(2),
		c.Rhythm.Label(),
		m.confidenceStyle(c.Confidence).Render(string(c.Confidence)))

	if i == m.cursor {
		return m.theme.Cursor.Render("›") + " " + row
	}
	return "  " + row
}

func (m Model) renderFooter() string {
	s := m.Savings()
	text := fmt.Sprintf("Potential savings: %s/month · %s/year (%d selected)",
		s.Monthly.StringFixed(2),
		s.Annual.StringFixed(2),
		s.Count)
	return m.theme.Footer.Render(m.theme.Bold.Render(text))
}

func (m Model) confidenceStyle(c recurring.Confidence) lipgloss.Style {
	switch c {
	case recurring.ConfidenceHigh:
		return m.theme.High
	case recurring.ConfidenceMedium:
		return m.theme.Medium
	default:
		return m.theme.Low
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
