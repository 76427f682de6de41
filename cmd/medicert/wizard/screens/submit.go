package screens

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/components"
)

// SubmittedMsg is sent when the registry accepted the submission.
type SubmittedMsg struct {
	Code string
}

// SubmitFailedMsg is sent when the submission failed; the failure is
// retryable from the review screen.
type SubmitFailedMsg struct {
	Err error
}

var (
	submitSpinnerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63"))

	submitElapsedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))
)

// SubmittingScreen is shown while the one submission call is in flight.
// There is no cancel: once sent, the request runs to completion or failure.
type SubmittingScreen struct {
	spinner   spinner.Model
	startTime time.Time
	width     int
	height    int
}

// NewSubmittingScreen creates the in-flight screen.
func NewSubmittingScreen() *SubmittingScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = submitSpinnerStyle

	return &SubmittingScreen{
		spinner:   sp,
		startTime: time.Now(),
	}
}

// Init implements tea.Model
func (s *SubmittingScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update implements tea.Model
func (s *SubmittingScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	return s, nil
}

// View implements tea.Model
func (s *SubmittingScreen) View() string {
	title := components.TitleStyle.Render("Submitting your request...")
	elapsed := submitElapsedStyle.Render(
		"Elapsed: " + time.Since(s.startTime).Truncate(time.Second).String())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.spinner.View()+" Sending to the registry",
		"",
		elapsed,
	)
}

var (
	confirmSuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	confirmCodeStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Foreground(lipgloss.Color("252")).
		Bold(true).
		Padding(0, 2)

	confirmLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))
)

// ConfirmationScreen shows the issued certificate code. Terminal: the only
// exit is quitting the wizard.
type ConfirmationScreen struct {
	code   string
	done   bool
	width  int
	height int
}

// NewConfirmationScreen creates the confirmation screen for code.
func NewConfirmationScreen(code string) *ConfirmationScreen {
	return &ConfirmationScreen{code: code}
}

// Init implements tea.Model
func (s *ConfirmationScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ConfirmationScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *ConfirmationScreen) View() string {
	var sb strings.Builder

	sb.WriteString(confirmSuccessStyle.Render("✓ Request submitted"))
	sb.WriteString("\n\n")
	sb.WriteString("Your certificate reference:\n\n")
	sb.WriteString(confirmCodeStyle.Render(s.code))
	sb.WriteString("\n\n")
	sb.WriteString(confirmLabelStyle.Render("A doctor will review your request shortly. Keep this code;\n"))
	sb.WriteString(confirmLabelStyle.Render("anyone can check the certificate with:"))
	sb.WriteString("\n\n  medicert verify " + s.code + "\n\n")
	sb.WriteString(components.HintStyle.Render("Press Enter or q to exit"))

	return sb.String()
}

// Done returns true if the user is finished
func (s *ConfirmationScreen) Done() bool { return s.done }

// Code returns the issued certificate code.
func (s *ConfirmationScreen) Code() string { return s.code }

// ErrorScreen displays a fatal wizard error.
type ErrorScreen struct {
	err    error
	done   bool
	width  int
	height int
}

// NewErrorScreen creates the error screen.
func NewErrorScreen(err error) *ErrorScreen {
	return &ErrorScreen{err: err}
}

// Init implements tea.Model
func (s *ErrorScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ErrorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *ErrorScreen) View() string {
	var sb strings.Builder

	sb.WriteString(components.ErrorStyle.Render("✗ Something went wrong"))
	sb.WriteString("\n\n")
	sb.WriteString("  " + s.err.Error())
	sb.WriteString("\n\n")
	sb.WriteString(components.HintStyle.Render("Press Enter or q to exit"))

	return sb.String()
}

// Done returns true if the user is finished
func (s *ErrorScreen) Done() bool { return s.done }

// Error returns the error
func (s *ErrorScreen) Error() error { return s.err }
