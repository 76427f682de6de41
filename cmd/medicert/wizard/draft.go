package wizard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
)

// draftForm mirrors types.Form with YAML tags for draft serialization.
type draftForm struct {
	CertType   string `yaml:"cert_type"`
	LeaveFrom  string `yaml:"leave_from"`
	OtherLeave string `yaml:"other_leave,omitempty"`
	Reason     string `yaml:"reason"`
	Email      string `yaml:"email"`
	FirstName  string `yaml:"first_name"`
	LastName   string `yaml:"last_name"`
	DOB        string `yaml:"dob"`
	Mobile     string `yaml:"mobile"`
	Gender     string `yaml:"gender"`
	Address    string `yaml:"address"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	Postcode   string `yaml:"postcode"`
	FromDate   string `yaml:"from_date"`
	ToDate     string `yaml:"to_date"`
	Symptoms   string `yaml:"symptoms,omitempty"`
	DoctorNote string `yaml:"doctor_note,omitempty"`
}

// SaveDraft writes the in-progress form to a YAML file so the request can
// be resumed later with --from.
func SaveDraft(f *types.Form, path string) error {
	data, err := yaml.Marshal(draftForm(*f))
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}

	return nil
}

// LoadDraft reads a previously saved draft.
func LoadDraft(path string) (*types.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	var d draftForm
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}

	form := types.Form(d)
	return &form, nil
}
