package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
)

var (
	previewPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Width(46)

	previewTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")).
		Bold(true)

	previewLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	previewValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))
)

// Preview renders a read-only certificate summary from the current form
// values, with placeholder text for fields not yet filled in. It is a pure
// function of the form: recomputed on every render, no side effects.
func Preview(f *types.Form) string {
	name := strings.TrimSpace(f.FirstName + " " + f.LastName)

	rows := []struct {
		label, value, placeholder string
	}{
		{"Type", f.CertType, "Certificate type"},
		{"Name", name, "First Name Last Name"},
		{"From", f.FromDate, "-"},
		{"To", f.ToDate, "-"},
	}

	var sb strings.Builder
	sb.WriteString(previewTitleStyle.Render("Certificate preview"))
	sb.WriteString("\n\n")

	for _, row := range rows {
		value := row.value
		if value == "" {
			value = row.placeholder
		}
		sb.WriteString(previewLabelStyle.Render(row.label + ": "))
		sb.WriteString(previewValueStyle.Render(value))
		sb.WriteString("\n")
	}

	return previewPanelStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
