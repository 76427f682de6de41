package screens

import (
	"testing"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
)

func TestRequireField(t *testing.T) {
	validate := requireField("first name")

	if err := validate(""); err == nil {
		t.Error("Expected error for empty value")
	}
	if err := validate("Ann"); err != nil {
		t.Errorf("Expected no error for non-empty value, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	if err := validateEmail(""); err == nil {
		t.Error("Expected error for empty email")
	}
	if err := validateEmail("not-an-email"); err == nil {
		t.Error("Expected error for address without @")
	}
	if err := validateEmail("ann@example.com"); err != nil {
		t.Errorf("Expected no error for valid email, got %v", err)
	}
}

func TestValidateOptionalDate(t *testing.T) {
	if err := validateOptionalDate(""); err != nil {
		t.Errorf("Expected empty optional date accepted, got %v", err)
	}
	if err := validateOptionalDate("1990-05-20"); err != nil {
		t.Errorf("Expected valid date accepted, got %v", err)
	}
	if err := validateOptionalDate("20/05/1990"); err == nil {
		t.Error("Expected error for wrong date format")
	}
}

func TestNewCertificateScreen_Defaults(t *testing.T) {
	form := &types.Form{}
	NewCertificateScreen(form)

	if form.CertType != types.CertTypeSickLeave {
		t.Errorf("Expected default cert type, got %q", form.CertType)
	}
	if form.LeaveFrom != "Work" {
		t.Errorf("Expected default leave-from, got %q", form.LeaveFrom)
	}
}

func TestNewCertificateScreen_KeepsExistingValues(t *testing.T) {
	form := &types.Form{CertType: types.CertTypeCarers, LeaveFrom: "University"}
	NewCertificateScreen(form)

	if form.CertType != types.CertTypeCarers {
		t.Errorf("Expected cert type untouched, got %q", form.CertType)
	}
	if form.LeaveFrom != "University" {
		t.Errorf("Expected leave-from untouched, got %q", form.LeaveFrom)
	}
}

func TestNewPatientScreen_GenderDefault(t *testing.T) {
	form := &types.Form{}
	NewPatientScreen(form)

	if form.Gender != "Prefer not to say" {
		t.Errorf("Expected gender default, got %q", form.Gender)
	}
}
