package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/athena-uee/uee/internal/drives"
)

// RenderDriveTable lays drives out as DEVICE / SIZE / MODEL.
func RenderDriveTable(records []drives.Record) string {
	header := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(TextColor).Padding(0, 1)
	muted := cell.Foreground(MutedColor)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Name, r.Size, r.Model})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("DEVICE", "SIZE", "MODEL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(records) && records[row].IsSentinel():
				return muted
			}
			return cell
		})
	return t.String()
}
