// Package wizard provides the interactive terminal intake flow for medical
// certificate requests.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
	"github.com/vividmedi/medicert/internal/api"
)

// Step identifies one section of the intake flow, in presentation order.
type Step int

const (
	StepCertificate Step = iota
	StepPatient
	StepLeave
	StepPayment
	StepReview
	StepConfirmation

	stepCount
)

// SubmissionStatus tracks the one-shot submission lifecycle.
type SubmissionStatus int

const (
	NotSubmitted SubmissionStatus = iota
	Submitting
	Submitted
	SubmissionFailed
)

// Flow gate errors.
var (
	// ErrPaymentRequired is returned when leaving the payment step, or
	// submitting, before a payment option was chosen.
	ErrPaymentRequired = errors.New("please complete your payment first")

	// ErrSubmitStep is returned by Advance on the review step: the only
	// way forward from there is the submission protocol.
	ErrSubmitStep = errors.New("review step advances by submitting")

	// ErrCompleted is returned for transitions out of the terminal step.
	ErrCompleted = errors.New("flow already completed")

	// ErrSubmissionInFlight is returned when a submission is already
	// running or has already succeeded.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// Flow is the wizard's state machine, independent of any UI. It owns the
// current step, the payment gate and the submission lifecycle, and it is
// the single place the transition rules live.
type Flow struct {
	step                Step
	paymentAcknowledged bool

	status          SubmissionStatus
	certificateCode string
	failureReason   string

	form *types.Form
	now  func() time.Time
}

// NewFlow creates a flow at the first step over the given form. A nil form
// starts blank.
func NewFlow(form *types.Form) *Flow {
	if form == nil {
		form = &types.Form{}
	}
	return &Flow{form: form, now: time.Now}
}

// Step returns the current step.
func (f *Flow) Step() Step { return f.step }

// Form returns the working form. Screens mutate it through here; the flow
// itself only reads it.
func (f *Flow) Form() *types.Form { return f.form }

// PaymentAcknowledged reports whether a payment option was chosen.
func (f *Flow) PaymentAcknowledged() bool { return f.paymentAcknowledged }

// Status returns the submission status.
func (f *Flow) Status() SubmissionStatus { return f.status }

// CertificateCode returns the issued code once Status is Submitted.
func (f *Flow) CertificateCode() string { return f.certificateCode }

// FailureReason returns the last submission failure message.
func (f *Flow) FailureReason() string { return f.failureReason }

// Completed reports whether the flow reached its terminal step.
func (f *Flow) Completed() bool { return f.step == StepConfirmation }

// AcknowledgePayment records that the user initiated payment. This is the
// only event that sets the gate; it is deliberately optimistic, since the
// actual payment happens in an external context the wizard cannot observe.
func (f *Flow) AcknowledgePayment() {
	f.paymentAcknowledged = true
}

// Advance moves to the next step. Leaving the payment step requires the
// payment gate; the review step never advances directly (the submission
// protocol moves the flow to confirmation); the confirmation step is
// terminal.
func (f *Flow) Advance() error {
	switch {
	case f.step == StepConfirmation:
		return ErrCompleted
	case f.step == StepReview:
		return ErrSubmitStep
	case f.step == StepPayment && !f.paymentAcknowledged:
		return ErrPaymentRequired
	}

	f.step++
	return nil
}

// Retreat moves one step back. A no-op on the first step. Going back never
// resets the payment gate or any entered field values. The terminal step
// has no transitions.
func (f *Flow) Retreat() error {
	if f.step == StepConfirmation {
		return ErrCompleted
	}
	if f.step > 0 {
		f.step--
	}
	return nil
}

// BeginSubmission runs the pre-flight guards and returns the payload
// snapshot for the one network call. Guards, in order: the payment gate,
// the at-most-once rule, and the courtesy required-field and date checks.
// On success the flow is Submitting and repeated calls fail until
// CompleteSubmission or FailSubmission is invoked.
func (f *Flow) BeginSubmission() (api.SubmissionRequest, error) {
	if !f.paymentAcknowledged {
		return api.SubmissionRequest{}, ErrPaymentRequired
	}
	if f.status == Submitting || f.status == Submitted {
		return api.SubmissionRequest{}, ErrSubmissionInFlight
	}

	payload := BuildPayload(f.form)
	if err := validatePayload(payload, f.now()); err != nil {
		return api.SubmissionRequest{}, err
	}

	f.status = Submitting
	f.failureReason = ""
	return payload, nil
}

// CompleteSubmission records the issued code and moves the flow to its
// terminal confirmation step.
func (f *Flow) CompleteSubmission(code string) {
	if f.status != Submitting {
		return
	}
	f.status = Submitted
	f.certificateCode = code
	f.step = StepConfirmation
}

// FailSubmission records a retryable failure. The flow stays on the
// current step; the next BeginSubmission starts from scratch.
func (f *Flow) FailSubmission(reason string) {
	if f.status != Submitting {
		return
	}
	f.status = SubmissionFailed
	f.failureReason = reason
}

// Reset returns the flow to a fresh session with an empty form.
func (f *Flow) Reset() {
	*f = Flow{form: &types.Form{}, now: f.now}
}

// validatePayload is the client-side courtesy check: required fields
// present and the leave dates within policy. The server enforces the same
// rules authoritatively.
func validatePayload(p api.SubmissionRequest, now time.Time) error {
	required := []struct {
		label, value string
	}{
		{"email", p.Email},
		{"first name", p.FirstName},
		{"last name", p.LastName},
		{"leave start date", p.FromDate},
		{"leave end date", p.ToDate},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%s is required", f.label)
		}
	}

	return api.ValidateLeaveRange(p.FromDate, p.ToDate, now)
}
