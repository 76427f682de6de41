package screens

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/components"
	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
	"github.com/vividmedi/medicert/internal/api"
)

// LeaveScreen collects the leave date range and symptom details, with the
// live certificate preview alongside.
type LeaveScreen struct {
	form      *huh.Form
	formData  *types.Form
	done      bool
	back      bool
	cancelled bool
	width     int
	height    int
}

// NewLeaveScreen creates the leave details screen over the form.
func NewLeaveScreen(form *types.Form) *LeaveScreen {
	s := &LeaveScreen{formData: form}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("from_date").
				Title("Leave from").
				Description("Format: YYYY-MM-DD").
				Value(&form.FromDate).
				Validate(validateFromDate),

			huh.NewInput().
				Key("to_date").
				Title("Leave to").
				Description(fmt.Sprintf("Maximum %d days", api.MaxLeaveDays)).
				Value(&form.ToDate).
				Validate(func(v string) error {
					// Range rules need both dates; validated on the
					// second field so the message appears where the
					// user is typing.
					return api.ValidateLeaveRange(form.FromDate, v, time.Now())
				}),

			huh.NewText().
				Key("symptoms").
				Title("Symptoms").
				Description("Briefly describe your symptoms").
				Value(&form.Symptoms),

			huh.NewText().
				Key("doctor_note").
				Title("Note for the doctor (optional)").
				Value(&form.DoctorNote),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func validateFromDate(v string) error {
	if v == "" {
		return fmt.Errorf("leave start date is required")
	}
	from, err := api.ParseDate(v)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if from.Before(today.AddDate(0, 0, -api.MaxBackdateDays)) {
		return fmt.Errorf("start date is more than %d days in the past", api.MaxBackdateDays)
	}
	return nil
}

// Init implements tea.Model
func (s *LeaveScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *LeaveScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.back = true
			return s, nil
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
func (s *LeaveScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("STEP 3/5 - LEAVE DETAILS")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		s.form.View(),
		"  ",
		components.Preview(s.formData),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		"",
		"Tab: Next field | Enter: Continue | Esc: Back | Ctrl+C: Cancel",
	)
}

// Done returns true if the form was completed
func (s *LeaveScreen) Done() bool { return s.done }

// Back returns true if the user asked to go back
func (s *LeaveScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *LeaveScreen) Cancelled() bool { return s.cancelled }
