package wizard

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/components"
	"github.com/vividmedi/medicert/cmd/medicert/wizard/screens"
	"github.com/vividmedi/medicert/internal/api"
)

// phase is the wizard's presentation mode. While phaseFlow, the visible
// screen follows the Flow's current step; the other phases overlay the
// flow without moving it.
type phase int

const (
	phaseFlow phase = iota
	phaseSubmitting
	phaseSaveDraft
	phaseError
)

// Wizard is the bubbletea orchestrator driving the intake flow.
type Wizard struct {
	flow   *Flow
	client *api.Client

	phase phase

	// Screen instances
	certScreen         *screens.CertificateScreen
	patientScreen      *screens.PatientScreen
	leaveScreen        *screens.LeaveScreen
	paymentScreen      *screens.PaymentScreen
	reviewScreen       *screens.ReviewScreen
	submittingScreen   *screens.SubmittingScreen
	confirmationScreen *screens.ConfirmationScreen
	errorScreen        *screens.ErrorScreen

	// Save draft form
	saveDraftForm *huh.Form
	draftPath     string

	// Window size
	width  int
	height int

	// Final state
	cancelled bool
	finished  bool
	err       error
}

// NewWizard creates a wizard over the given flow.
func NewWizard(flow *Flow, client *api.Client) *Wizard {
	if flow == nil {
		flow = NewFlow(nil)
	}

	w := &Wizard{
		flow:   flow,
		client: client,
	}
	w.certScreen = screens.NewCertificateScreen(flow.Form())

	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.certScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = wsm.Width
		w.height = wsm.Height
	}

	switch w.phase {
	case phaseSubmitting:
		return w.updateSubmitting(msg)
	case phaseSaveDraft:
		return w.updateSaveDraft(msg)
	case phaseError:
		return w.updateError(msg)
	}

	switch w.flow.Step() {
	case StepCertificate:
		return w.updateCertificate(msg)
	case StepPatient:
		return w.updatePatient(msg)
	case StepLeave:
		return w.updateLeave(msg)
	case StepPayment:
		return w.updatePayment(msg)
	case StepReview:
		return w.updateReview(msg)
	case StepConfirmation:
		return w.updateConfirmation(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case phaseSubmitting:
		return w.submittingScreen.View()
	case phaseSaveDraft:
		return w.viewSaveDraft()
	case phaseError:
		return w.errorScreen.View()
	}

	switch w.flow.Step() {
	case StepCertificate:
		return w.certScreen.View()
	case StepPatient:
		return w.patientScreen.View()
	case StepLeave:
		return w.leaveScreen.View()
	case StepPayment:
		return w.paymentScreen.View()
	case StepReview:
		return w.reviewScreen.View()
	case StepConfirmation:
		return w.confirmationScreen.View()
	}

	return ""
}

// transition rebuilds the screen for the flow's current step. Field values
// persist because every screen binds to the same form.
func (w *Wizard) transition() tea.Cmd {
	switch w.flow.Step() {
	case StepCertificate:
		w.certScreen = screens.NewCertificateScreen(w.flow.Form())
		return w.certScreen.Init()
	case StepPatient:
		w.patientScreen = screens.NewPatientScreen(w.flow.Form())
		return w.patientScreen.Init()
	case StepLeave:
		w.leaveScreen = screens.NewLeaveScreen(w.flow.Form())
		return w.leaveScreen.Init()
	case StepPayment:
		w.paymentScreen = screens.NewPaymentScreen()
		return w.paymentScreen.Init()
	case StepReview:
		w.reviewScreen = screens.NewReviewScreen(w.flow.Form(), w.flow.FailureReason())
		return w.reviewScreen.Init()
	case StepConfirmation:
		w.confirmationScreen = screens.NewConfirmationScreen(w.flow.CertificateCode())
		return w.confirmationScreen.Init()
	}
	return nil
}

func (w *Wizard) updateCertificate(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.certScreen.Update(msg)
	if cs, ok := model.(*screens.CertificateScreen); ok {
		w.certScreen = cs
	}

	if w.certScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.certScreen.Done() {
		if err := w.flow.Advance(); err == nil {
			return w, w.transition()
		}
	}

	return w, cmd
}

func (w *Wizard) updatePatient(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.patientScreen.Update(msg)
	if ps, ok := model.(*screens.PatientScreen); ok {
		w.patientScreen = ps
	}

	if w.patientScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.patientScreen.Back() {
		w.flow.Retreat()
		return w, w.transition()
	}

	if w.patientScreen.Done() {
		if err := w.flow.Advance(); err == nil {
			return w, w.transition()
		}
	}

	return w, cmd
}

func (w *Wizard) updateLeave(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.leaveScreen.Update(msg)
	if ls, ok := model.(*screens.LeaveScreen); ok {
		w.leaveScreen = ls
	}

	if w.leaveScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.leaveScreen.Back() {
		w.flow.Retreat()
		return w, w.transition()
	}

	if w.leaveScreen.Done() {
		if err := w.flow.Advance(); err == nil {
			return w, w.transition()
		}
	}

	return w, cmd
}

func (w *Wizard) updatePayment(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.paymentScreen.Update(msg)
	if ps, ok := model.(*screens.PaymentScreen); ok {
		w.paymentScreen = ps
	}

	if w.paymentScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.paymentScreen.Back() {
		// Going back does not reset the gate.
		w.flow.Retreat()
		return w, w.transition()
	}

	// Choosing a payment option is the one event that opens the gate.
	if w.paymentScreen.Acknowledged() {
		w.flow.AcknowledgePayment()
	}

	if w.paymentScreen.Done() {
		if err := w.flow.Advance(); err == nil {
			return w, w.transition()
		}
	}

	return w, cmd
}

func (w *Wizard) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.reviewScreen.Update(msg)
	if rs, ok := model.(*screens.ReviewScreen); ok {
		w.reviewScreen = rs
	}

	if w.reviewScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.reviewScreen.Done() {
		switch w.reviewScreen.Action() {
		case screens.ReviewActionSubmit:
			return w.startSubmission()

		case screens.ReviewActionBack:
			w.flow.Retreat()
			return w, w.transition()

		case screens.ReviewActionSaveDraft:
			return w.transitionToSaveDraft()

		case screens.ReviewActionCancel:
			w.cancelled = true
			return w, tea.Quit
		}
	}

	return w, cmd
}

// startSubmission runs the submission protocol: guards and snapshot via
// the flow, then the single network call as a command.
func (w *Wizard) startSubmission() (tea.Model, tea.Cmd) {
	payload, err := w.flow.BeginSubmission()
	if err != nil {
		// Gate or validation failure: stay on review with the message.
		w.reviewScreen = screens.NewReviewScreen(w.flow.Form(), err.Error())
		return w, w.reviewScreen.Init()
	}

	w.phase = phaseSubmitting
	w.submittingScreen = screens.NewSubmittingScreen()

	submit := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		resp, err := w.client.Submit(ctx, payload)
		if err != nil {
			return screens.SubmitFailedMsg{Err: err}
		}
		return screens.SubmittedMsg{Code: resp.CertificateNumber}
	}

	return w, tea.Batch(w.submittingScreen.Init(), submit)
}

func (w *Wizard) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.SubmittedMsg:
		w.flow.CompleteSubmission(msg.Code)
		w.phase = phaseFlow
		return w, w.transition()

	case screens.SubmitFailedMsg:
		w.flow.FailSubmission(msg.Err.Error())
		w.phase = phaseFlow
		return w, w.transition()
	}

	model, cmd := w.submittingScreen.Update(msg)
	if ss, ok := model.(*screens.SubmittingScreen); ok {
		w.submittingScreen = ss
	}

	return w, cmd
}

func (w *Wizard) updateConfirmation(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.confirmationScreen.Update(msg)
	if cs, ok := model.(*screens.ConfirmationScreen); ok {
		w.confirmationScreen = cs
	}

	if w.confirmationScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

func (w *Wizard) transitionToSaveDraft() (tea.Model, tea.Cmd) {
	w.phase = phaseSaveDraft
	w.draftPath = "medicert-draft.yaml"

	w.saveDraftForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("draft_path").
				Title("Save draft to").
				Description("Enter the path for the YAML draft file").
				Value(&w.draftPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveDraftForm.Init()
}

func (w *Wizard) updateSaveDraft(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			w.phase = phaseFlow
			return w, w.transition()
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveDraftForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveDraftForm = f
	}

	if w.saveDraftForm.State == huh.StateCompleted {
		if err := SaveDraft(w.flow.Form(), w.draftPath); err != nil {
			w.err = err
			w.phase = phaseError
			w.errorScreen = screens.NewErrorScreen(err)
			return w, nil
		}

		w.phase = phaseFlow
		return w, w.transition()
	}

	return w, cmd
}

func (w *Wizard) viewSaveDraft() string {
	title := components.TitleStyle.Render("Save Draft")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.saveDraftForm.View(),
		"",
		"Enter: Save | Esc: Back",
	)
}

func (w *Wizard) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.errorScreen.Update(msg)
	if es, ok := model.(*screens.ErrorScreen); ok {
		w.errorScreen = es
	}

	if w.errorScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

// Run starts the interactive intake wizard against the registry at
// serverURL. If fromDraft is non-empty, the form is preloaded from that
// YAML draft file.
func Run(serverURL, fromDraft string) error {
	flow := NewFlow(nil)

	if fromDraft != "" {
		form, err := LoadDraft(fromDraft)
		if err != nil {
			return fmt.Errorf("loading draft: %w", err)
		}
		flow = NewFlow(form)
	}

	wizard := NewWizard(flow, api.NewClient(serverURL))
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	if w, ok := finalModel.(*Wizard); ok {
		if w.cancelled {
			return nil // User cancelled, not an error
		}
		if w.err != nil {
			return w.err
		}
	}

	return nil
}
