// Package registry issues, stores and verifies medical certificate records.
// It is the only writer of the record set; records are append-only.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vividmedi/medicert/internal/api"
)

// ErrValidation marks a submission the caller can correct; handlers map it
// to a non-success response rather than a server error.
var ErrValidation = errors.New("invalid submission")

// maxCodeAttempts bounds the rejection-sampling loop. With a million
// possible codes this only trips when the code space is close to full.
const maxCodeAttempts = 100

// Record is a stored certificate: the submitted fields plus the assigned
// code and issuance time. Immutable once written.
type Record struct {
	ID         string
	Code       string
	CertType   string
	LeaveFrom  string
	OtherLeave string
	Reason     string
	Email      string
	FirstName  string
	LastName   string
	DOB        string
	Mobile     string
	Gender     string
	Address    string
	City       string
	State      string
	Postcode   string
	FromDate   string
	ToDate     string
	Symptoms   string
	DoctorNote string
	IssuedAt   time.Time
}

// View projects the record onto the fields verification exposes.
func (r Record) View() api.CertificateView {
	return api.CertificateView{
		CertificateNumber: r.Code,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		CertType:          r.CertType,
		Reason:            r.Reason,
		FromDate:          r.FromDate,
		ToDate:            r.ToDate,
		IssuedAt:          r.IssuedAt.UTC().Format(time.RFC3339),
	}
}

// Notifier receives finalized records for out-of-band delivery. Dispatch is
// best-effort: the registry never waits on it and never fails a submission
// because of it.
type Notifier interface {
	Enqueue(rec Record)
}

// Registry issues certificates against a Store.
type Registry struct {
	store    *Store
	notifier Notifier
	log      *slog.Logger

	newCode func() string
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithNotifier sets the notification sink for accepted submissions.
func WithNotifier(n Notifier) Option {
	return func(r *Registry) { r.notifier = n }
}

// WithCodeFunc overrides code generation. Used by tests to force collisions.
func WithCodeFunc(f func() string) Option {
	return func(r *Registry) { r.newCode = f }
}

// WithClock overrides the issuance clock.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// New creates a Registry over store.
func New(store *Store, opts ...Option) *Registry {
	r := &Registry{
		store:   store,
		log:     slog.Default(),
		newCode: NewCode,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit validates the payload, assigns a unique certificate code and
// appends the record. The code is drawn repeatedly until an insert
// succeeds; the store's unique constraint makes check-and-append atomic,
// so concurrent submissions can never share a code.
func (r *Registry) Submit(ctx context.Context, req api.SubmissionRequest) (string, error) {
	if err := validate(req, r.now()); err != nil {
		return "", err
	}

	rec := recordFrom(req)
	rec.ID = uuid.NewString()
	rec.IssuedAt = r.now()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		rec.Code = r.newCode()

		err := r.store.Insert(ctx, rec)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", err
		}

		r.log.Info("certificate issued",
			"code", rec.Code,
			"cert_type", rec.CertType,
			"from", rec.FromDate,
			"to", rec.ToDate,
		)

		if r.notifier != nil {
			r.notifier.Enqueue(rec)
		}

		return rec.Code, nil
	}

	return "", fmt.Errorf("no free certificate code after %d attempts", maxCodeAttempts)
}

// Verify looks up a certificate by code. Malformed codes are rejected
// before the store is consulted; a well-formed unknown code is simply not
// found. Never mutates the record set.
func (r *Registry) Verify(ctx context.Context, code string) (Record, bool, error) {
	code = NormalizeCode(code)
	if !WellFormedCode(code) {
		return Record{}, false, nil
	}

	rec, err := r.store.FindByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	return rec, true, nil
}

// validate enforces the required-field set and the shared leave date
// policy. Everything else is accepted as-is: the server treats all fields
// as optional strings beyond this subset.
func validate(req api.SubmissionRequest, now time.Time) error {
	required := []struct {
		name, value string
	}{
		{"email", req.Email},
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"fromDate", req.FromDate},
		{"toDate", req.ToDate},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, f.name)
		}
	}

	if err := api.ValidateLeaveRange(req.FromDate, req.ToDate, now); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	return nil
}

func recordFrom(req api.SubmissionRequest) Record {
	return Record{
		CertType:   req.CertType,
		LeaveFrom:  req.LeaveFrom,
		OtherLeave: req.OtherLeave,
		Reason:     req.Reason,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DOB:        req.DOB,
		Mobile:     req.Mobile,
		Gender:     req.Gender,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Postcode:   req.Postcode,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		Symptoms:   req.Symptoms,
		DoctorNote: req.DoctorNote,
	}
}
