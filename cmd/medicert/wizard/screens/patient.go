package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/components"
	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
	"github.com/vividmedi/medicert/internal/api"
)

// PatientScreen collects identity and contact details.
type PatientScreen struct {
	form      *huh.Form
	done      bool
	back      bool
	cancelled bool
	width     int
	height    int
}

// NewPatientScreen creates the patient details screen over the form.
func NewPatientScreen(form *types.Form) *PatientScreen {
	if form.Gender == "" {
		form.Gender = "Prefer not to say"
	}

	s := &PatientScreen{}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("first_name").
				Title("First name").
				Value(&form.FirstName).
				Validate(requireField("first name")),

			huh.NewInput().
				Key("last_name").
				Title("Last name").
				Value(&form.LastName).
				Validate(requireField("last name")),

			huh.NewInput().
				Key("email").
				Title("Email").
				Description("Your certificate reference will be sent here").
				Value(&form.Email).
				Validate(validateEmail),

			huh.NewInput().
				Key("dob").
				Title("Date of birth").
				Description("Format: YYYY-MM-DD").
				Value(&form.DOB).
				Validate(validateOptionalDate),

			huh.NewInput().
				Key("mobile").
				Title("Mobile").
				Value(&form.Mobile),

			huh.NewSelect[string]().
				Key("gender").
				Title("Gender").
				Options(
					huh.NewOption("Female", "Female"),
					huh.NewOption("Male", "Male"),
					huh.NewOption("Other", "Other"),
					huh.NewOption("Prefer not to say", "Prefer not to say"),
				).
				Value(&form.Gender),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("address").
				Title("Street address").
				Value(&form.Address),

			huh.NewInput().
				Key("city").
				Title("City/Suburb").
				Value(&form.City),

			huh.NewInput().
				Key("state").
				Title("State").
				Value(&form.State),

			huh.NewInput().
				Key("postcode").
				Title("Postcode").
				Value(&form.Postcode),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func requireField(label string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := api.ParseDate(s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// Init implements tea.Model
func (s *PatientScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *PatientScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (s *PatientScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("STEP 2/5 - PATIENT DETAILS")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		"Tab: Next field | Enter: Continue | Esc: Back | Ctrl+C: Cancel",
	)
}

// Done returns true if the form was completed
func (s *PatientScreen) Done() bool { return s.done }

// Back returns true if the user asked to go back
func (s *PatientScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *PatientScreen) Cancelled() bool { return s.cancelled }
