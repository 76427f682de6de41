package wizard

import (
	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
	"github.com/vividmedi/medicert/internal/api"
)

// BuildPayload snapshots the form into a submission payload. Taken
// synchronously at submit time so the submission and the form the user
// last saw cannot diverge.
func BuildPayload(f *types.Form) api.SubmissionRequest {
	return api.SubmissionRequest{
		CertType:   f.CertType,
		LeaveFrom:  f.LeaveFrom,
		OtherLeave: f.OtherLeave,
		Reason:     f.Reason,
		Email:      f.Email,
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		DOB:        f.DOB,
		Mobile:     f.Mobile,
		Gender:     f.Gender,
		Address:    f.Address,
		City:       f.City,
		State:      f.State,
		Postcode:   f.Postcode,
		FromDate:   f.FromDate,
		ToDate:     f.ToDate,
		Symptoms:   f.Symptoms,
		DoctorNote: f.DoctorNote,
	}
}
