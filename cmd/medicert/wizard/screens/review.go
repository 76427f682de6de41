package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/components"
	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
)

// ReviewAction is the action selected on the review screen.
type ReviewAction int

const (
	// ReviewActionSubmit sends the request to the registry.
	ReviewActionSubmit ReviewAction = iota
	// ReviewActionBack returns to the previous step.
	ReviewActionBack
	// ReviewActionSaveDraft saves the form to a YAML draft file.
	ReviewActionSaveDraft
	// ReviewActionCancel exits the wizard.
	ReviewActionCancel
)

const (
	actionSubmit    = "submit"
	actionBack      = "back"
	actionSaveDraft = "save_draft"
	actionCancel    = "cancel"
)

var (
	reviewLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	reviewValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Bold(true)
)

// ReviewScreen shows the collected request for a final check and offers
// submit, back, save-draft and cancel.
type ReviewScreen struct {
	form      *huh.Form
	formData  *types.Form
	errMsg    string
	action    string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewReviewScreen creates the review screen. errMsg, when non-empty, is a
// previous submission failure shown above the details so the user can fix
// and retry.
func NewReviewScreen(form *types.Form, errMsg string) *ReviewScreen {
	s := &ReviewScreen{
		formData: form,
		errMsg:   errMsg,
		action:   actionSubmit,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(
					huh.NewOption("Submit request", actionSubmit),
					huh.NewOption("Back to edit", actionBack),
					huh.NewOption("Save draft to YAML", actionSaveDraft),
					huh.NewOption("Cancel and exit", actionCancel),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *ReviewScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ReviewScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.action = actionBack
			s.done = true
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
func (s *ReviewScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("STEP 5/5 - REVIEW & SUBMIT")

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if s.errMsg != "" {
		sb.WriteString(components.ErrorStyle.Render("Submission failed: " + s.errMsg))
		sb.WriteString("\n\n")
	}

	sb.WriteString(components.Preview(s.formData))
	sb.WriteString("\n\n")
	sb.WriteString(s.renderDetails())
	sb.WriteString("\n")
	sb.WriteString(s.form.View())
	sb.WriteString("\n")
	sb.WriteString("Enter: Select | Esc: Back | Ctrl+C: Cancel")

	return sb.String()
}

func (s *ReviewScreen) renderDetails() string {
	f := s.formData

	rows := []struct {
		label, value string
	}{
		{"Email", f.Email},
		{"Mobile", f.Mobile},
		{"Date of birth", f.DOB},
		{"Leave from", f.LeaveFrom},
		{"Reason", f.Reason},
		{"Symptoms", f.Symptoms},
	}

	var sb strings.Builder
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(reviewLabelStyle.Render(row.label + ": "))
		sb.WriteString(reviewValueStyle.Render(row.value))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Done returns true if an action was selected
func (s *ReviewScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *ReviewScreen) Cancelled() bool { return s.cancelled }

// Action returns the selected action.
func (s *ReviewScreen) Action() ReviewAction {
	switch s.action {
	case actionBack:
		return ReviewActionBack
	case actionSaveDraft:
		return ReviewActionSaveDraft
	case actionCancel:
		return ReviewActionCancel
	}
	return ReviewActionSubmit
}
