package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vividmedi/medicert/cmd/medicert/wizard/types"
)

func TestSaveLoadDraft_RoundTrip(t *testing.T) {
	form := &types.Form{
		CertType:  types.CertTypeSickLeave,
		LeaveFrom: "Work",
		Reason:    "Flu",
		Email:     "ann@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		DOB:       "1990-05-20",
		Mobile:    "0400000000",
		Gender:    "Female",
		Address:   "1 Example St",
		City:      "Melbourne",
		State:     "VIC",
		Postcode:  "3000",
		FromDate:  "2026-03-10",
		ToDate:    "2026-03-12",
		Symptoms:  "Fever",
	}

	path := filepath.Join(t.TempDir(), "draft.yaml")
	if err := SaveDraft(form, path); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	loaded, err := LoadDraft(path)
	if err != nil {
		t.Fatalf("LoadDraft failed: %v", err)
	}

	if *loaded != *form {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", *loaded, *form)
	}
}

func TestSaveDraft_YAMLKeys(t *testing.T) {
	form := &types.Form{FirstName: "Ann", FromDate: "2026-03-10"}

	path := filepath.Join(t.TempDir(), "draft.yaml")
	if err := SaveDraft(form, path); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading draft failed: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "first_name: Ann") {
		t.Errorf("Expected snake_case keys, got:\n%s", content)
	}
	if !strings.Contains(content, "from_date:") {
		t.Errorf("Expected from_date key, got:\n%s", content)
	}
	// Empty optional fields stay out of the file
	if strings.Contains(content, "doctor_note") {
		t.Errorf("Expected empty optional fields omitted, got:\n%s", content)
	}
}

func TestLoadDraft_MissingFile(t *testing.T) {
	if _, err := LoadDraft(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing draft file")
	}
}

func TestLoadDraft_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o600); err != nil {
		t.Fatalf("Writing file failed: %v", err)
	}

	if _, err := LoadDraft(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestBuildPayload_CopiesEveryField(t *testing.T) {
	form := &types.Form{
		CertType:   types.CertTypeCarers,
		LeaveFrom:  "University",
		OtherLeave: "Placement",
		Reason:     "Family",
		Email:      "ann@example.com",
		FirstName:  "Ann",
		LastName:   "Lee",
		DOB:        "1990-05-20",
		Mobile:     "0400000000",
		Gender:     "Female",
		Address:    "1 Example St",
		City:       "Melbourne",
		State:      "VIC",
		Postcode:   "3000",
		FromDate:   "2026-03-10",
		ToDate:     "2026-03-12",
		Symptoms:   "Fever",
		DoctorNote: "Needs rest",
	}

	p := BuildPayload(form)

	if p.CertType != form.CertType || p.LeaveFrom != form.LeaveFrom ||
		p.OtherLeave != form.OtherLeave || p.Reason != form.Reason {
		t.Error("Certificate section not copied")
	}
	if p.Email != form.Email || p.FirstName != form.FirstName || p.LastName != form.LastName ||
		p.DOB != form.DOB || p.Mobile != form.Mobile || p.Gender != form.Gender {
		t.Error("Patient section not copied")
	}
	if p.Address != form.Address || p.City != form.City || p.State != form.State || p.Postcode != form.Postcode {
		t.Error("Address section not copied")
	}
	if p.FromDate != form.FromDate || p.ToDate != form.ToDate ||
		p.Symptoms != form.Symptoms || p.DoctorNote != form.DoctorNote {
		t.Error("Leave section not copied")
	}
}
