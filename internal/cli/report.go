package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/charmbracelet/lipgloss"
)

const maxLabelWidth = 36

var reportColumns = []string{"ID", "LABEL", "AVG", "MONTHLY", "ANNUAL", "N", "RHYTHM", "CONFIDENCE"}

// ReportHeader describes the run a report was produced from.
type ReportHeader struct {
	Now    time.Time
	Since  time.Time
	Preset string
}

// ConfidenceStyle picks the color a confidence level is shown in.
func ConfidenceStyle(c recurring.Confidence) lipgloss.Style {
	switch c {
	case recurring.ConfidenceHigh:
		return SuccessStyle
	case recurring.ConfidenceMedium:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

// ShortID returns the first block of a candidate ID, enough to tell rows apart.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// Truncate shortens s to at most width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// RenderReport formats a detection result as a table with a savings footer.
func RenderReport(header ReportHeader, result recurring.Result) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Recurring payments"))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s %s to %s · preset %s",
		CalendarIcon,
		header.Since.Format("2006-01-02"),
		header.Now.Format("2006-01-02"),
		header.Preset)))
	b.WriteString("\n\n")

	if result.Total == 0 {
		b.WriteString(FormatInfo("No recurring payments found in this window."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(result.Candidates))
	ids := make([]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		ids = append(ids, c.ID)
		rows = append(rows, []string{
			ShortID(c.ID),
			Truncate(c.Label, maxLabelWidth),
			strconv.FormatInt(c.AverageAmount, 10),
			c.MonthlyCost().StringFixed(2),
			c.AnnualCost().StringFixed(2),
			strconv.Itoa(c.Occurrences),
			c.Rhythm.Label(),
			string(c.Confidence),
		})
	}

	b.WriteString(renderTable(rows, result.Candidates))
	b.WriteString("\n")

	total := recurring.Savings(result.Candidates, ids)
	b.WriteString(BoldStyle.Render(fmt.Sprintf("%s %d candidates · %s/month · %s/year if all were cancelled",
		SavingsIcon,
		result.Total,
		total.Monthly.StringFixed(2),
		total.Annual.StringFixed(2))))
	b.WriteString("\n")

	return b.String()
}

// WriteReport writes RenderReport's output to w.
func WriteReport(w io.Writer, header ReportHeader, result recurring.Result) error {
	if _, err := io.WriteString(w, RenderReport(header, result)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func renderTable(rows [][]string, candidates []recurring.Candidate) string {
	widths := make([]int, len(reportColumns))
	for i, col := range reportColumns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	headerCells := make([]string, len(reportColumns))
	for i, col := range reportColumns {
		headerCells[i] = TableCellStyle.Width(widths[i] + 2).Render(col)
	}

	lines := []string{TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...))}
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := TableCellStyle.Width(widths[i] + 2)
			if i >= 2 && i <= 5 {
				style = style.Align(lipgloss.Right)
			}
			if i == len(row)-1 {
				style = style.Inherit(ConfidenceStyle(candidates[r].Confidence))
			}
			cells[i] = style.Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
