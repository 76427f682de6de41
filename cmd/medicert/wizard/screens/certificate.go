// Package screens contains the individual wizard steps as bubbletea
// models, one huh form per step.
package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/components"
	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
)

// CertificateScreen selects the certificate type and leave reason.
type CertificateScreen struct {
	form      *huh.Form
	done      bool
	back      bool
	cancelled bool
	width     int
	height    int
}

// NewCertificateScreen creates the certificate type screen over the form.
func NewCertificateScreen(form *types.Form) *CertificateScreen {
	if form.CertType == "" {
		form.CertType = types.CertTypeSickLeave
	}
	if form.LeaveFrom == "" {
		form.LeaveFrom = "Work"
	}
	if form.Reason == "" {
		form.Reason = "Illness"
	}

	s := &CertificateScreen{}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("cert_type").
				Title("Certificate type").
				Options(
					huh.NewOption("Sick leave", types.CertTypeSickLeave),
					huh.NewOption("Carer's leave", types.CertTypeCarers),
					huh.NewOption("University/School", types.CertTypeUni),
					huh.NewOption("Other", types.CertTypeOther),
				).
				Value(&form.CertType),

			huh.NewSelect[string]().
				Key("leave_from").
				Title("Leave from").
				Options(
					huh.NewOption("Work", "Work"),
					huh.NewOption("University", "University"),
					huh.NewOption("School", "School"),
					huh.NewOption("Other", "Other"),
				).
				Value(&form.LeaveFrom),

			huh.NewInput().
				Key("other_leave").
				Title("Other (if applicable)").
				Value(&form.OtherLeave),

			huh.NewSelect[string]().
				Key("reason").
				Title("Reason").
				Options(
					huh.NewOption("Illness", "Illness"),
					huh.NewOption("Injury", "Injury"),
					huh.NewOption("Medical appointment", "Medical appointment"),
					huh.NewOption("Carer responsibilities", "Carer responsibilities"),
					huh.NewOption("Other", "Other"),
				).
				Value(&form.Reason),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *CertificateScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *CertificateScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *CertificateScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("STEP 1/5 - CERTIFICATE")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		"Tab: Next field | Enter: Continue | Ctrl+C: Cancel",
	)
}

// Done returns true if the form was completed
func (s *CertificateScreen) Done() bool { return s.done }

// Back returns true if the user asked to go back
func (s *CertificateScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *CertificateScreen) Cancelled() bool { return s.cancelled }
