// Package types holds the data collected by the intake wizard, shared
// between the wizard orchestrator and its screens.
package types

// Form is the working set of field values the wizard collects. Screens
// bind inputs directly to these fields; the submission payload is built
// as a snapshot at submit time.
type Form struct {
	// Certificate section
	CertType   string
	LeaveFrom  string
	OtherLeave string
	Reason     string

	// Patient section
	Email     string
	FirstName string
	LastName  string
	DOB       string
	Mobile    string
	Gender    string
	Address   string
	City      string
	State     string
	Postcode  string

	// Leave section
	FromDate   string
	ToDate     string
	Symptoms   string
	DoctorNote string
}

// Certificate types offered by the intake flow.
const (
	CertTypeSickLeave = "Sick Leave"
	CertTypeCarers    = "Carer's Leave"
	CertTypeUni       = "University/School"
	CertTypeOther     = "Other"
)

// PaymentOption is an external checkout destination. Payment happens in a
// context the wizard cannot observe; selecting an option only records that
// payment was initiated.
type PaymentOption struct {
	Label string
	URL   string
}

// PaymentOptions are the hosted checkout pages offered on the payment step.
var PaymentOptions = []PaymentOption{
	{Label: "Pay by card", URL: "https://pay.vividmedi.com/card"},
	{Label: "PayPal", URL: "https://pay.vividmedi.com/paypal"},
}
