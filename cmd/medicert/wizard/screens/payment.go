package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/components"
	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
)

var (
	paymentURLStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	paymentNoticeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)
)

// PaymentScreen is the payment gate. Choosing a payment option records
// that payment was initiated and surfaces the external checkout URL; the
// actual payment happens outside the wizard and is never verified here.
type PaymentScreen struct {
	form         *huh.Form
	choice       string
	acknowledged bool
	proceed      bool
	back         bool
	cancelled    bool
	width        int
	height       int
}

// NewPaymentScreen creates the payment step.
func NewPaymentScreen() *PaymentScreen {
	s := &PaymentScreen{}

	options := make([]huh.Option[string], len(types.PaymentOptions))
	for i, opt := range types.PaymentOptions {
		options[i] = huh.NewOption(opt.Label, opt.URL)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Payment").
				Description("A doctor reviews your request after payment. Choose a payment method to open the checkout page."),

			huh.NewSelect[string]().
				Key("payment_option").
				Title("Payment method").
				Options(options...).
				Value(&s.choice),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *PaymentScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *PaymentScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.back = true
			return s, nil
		case "enter":
			if s.acknowledged {
				s.proceed = true
				return s, nil
			}
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	if s.acknowledged {
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.acknowledged = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *PaymentScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("STEP 4/5 - PAYMENT")

	if !s.acknowledged {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			s.form.View(),
			"",
			"Enter: Select | Esc: Back | Ctrl+C: Cancel",
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		paymentNoticeStyle.Render("Your payment page is ready:"),
		"",
		"  "+paymentURLStyle.Render(s.choice),
		"",
		"Open the link in your browser and complete the payment,",
		"then return here and continue to review your request.",
		"",
		"Enter: Continue | Esc: Back | Ctrl+C: Cancel",
	)
}

// Done returns true once payment was initiated and the user continued.
func (s *PaymentScreen) Done() bool { return s.proceed }

// Acknowledged reports whether a payment option was chosen.
func (s *PaymentScreen) Acknowledged() bool { return s.acknowledged }

// PaymentURL returns the chosen checkout URL.
func (s *PaymentScreen) PaymentURL() string { return s.choice }

// Back returns true if the user asked to go back
func (s *PaymentScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *PaymentScreen) Cancelled() bool { return s.cancelled }
