// Package api defines the wire types shared by the intake wizard and the
// certificate registry server, together with the HTTP client the wizard uses.
package api

// SubmissionRequest is the payload sent to POST /api/submit. Every field is
// an optional string; the server validates the required subset itself.
type SubmissionRequest struct {
	CertType   string `json:"certType"`
	LeaveFrom  string `json:"leaveFrom"`
	OtherLeave string `json:"otherLeave"`
	Reason     string `json:"reason"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DOB        string `json:"dob"`
	Mobile     string `json:"mobile"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Postcode   string `json:"postcode"`
	FromDate   string `json:"fromDate"`
	ToDate     string `json:"toDate"`
	Symptoms   string `json:"symptoms"`
	DoctorNote string `json:"doctorNote"`
}

// SubmitResponse is returned by POST /api/submit.
type SubmitResponse struct {
	Success           bool   `json:"success"`
	CertificateNumber string `json:"certificateNumber,omitempty"`
	Message           string `json:"message,omitempty"`
}

// CertificateView is the subset of a stored record exposed by verification.
type CertificateView struct {
	CertificateNumber string `json:"certificateNumber"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	CertType          string `json:"certType"`
	Reason            string `json:"reason"`
	FromDate          string `json:"fromDate"`
	ToDate            string `json:"toDate"`
	IssuedAt          string `json:"issuedAt"`
}

// VerifyResponse is returned by GET /api/verify/{code}.
type VerifyResponse struct {
	Valid       bool             `json:"valid"`
	Certificate *CertificateView `json:"certificate,omitempty"`
}
