package api

import (
	"testing"
	"time"
)

func TestParseDate_Valid(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 15 {
		t.Errorf("Expected 2026-03-15, got %v", d)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	invalid := []string{"", "15/03/2026", "2026-3-15", "tomorrow", "2026-13-01"}
	for _, s := range invalid {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("Expected error for %q, got none", s)
		}
	}
}

func TestLeaveDays_Inclusive(t *testing.T) {
	from, _ := ParseDate("2026-03-10")

	// Same day counts as one day of leave
	if days := LeaveDays(from, from); days != 1 {
		t.Errorf("Expected 1 day for same-day leave, got %d", days)
	}

	to, _ := ParseDate("2026-03-14")
	if days := LeaveDays(from, to); days != 5 {
		t.Errorf("Expected 5 days, got %d", days)
	}
}

func TestValidateLeaveRange(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"single day", "2026-03-10", "2026-03-10", false},
		{"max length", "2026-03-10", "2026-03-14", false},
		{"too long", "2026-03-10", "2026-03-15", true},
		{"end before start", "2026-03-12", "2026-03-10", true},
		{"backdated within policy", "2026-03-03", "2026-03-05", false},
		{"backdated too far", "2026-03-02", "2026-03-04", true},
		{"future start", "2026-03-20", "2026-03-22", false},
		{"bad from format", "10-03-2026", "2026-03-12", true},
		{"bad to format", "2026-03-10", "soon", true},
		{"empty dates", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLeaveRange(tt.from, tt.to, now)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %s to %s, got none", tt.from, tt.to)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error for %s to %s, got %v", tt.from, tt.to, err)
			}
		})
	}
}
