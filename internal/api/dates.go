package api

import (
	"fmt"
	"time"
)

// Leave date policy, enforced both by the wizard and by the registry.
const (
	// MaxLeaveDays is the longest leave period a certificate may cover,
	// counted inclusively (from and to on the same day is one day).
	MaxLeaveDays = 5

	// MaxBackdateDays is how far in the past the leave may start.
	MaxBackdateDays = 7
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD form date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// LeaveDays returns the inclusive number of whole days between from and to.
func LeaveDays(from, to time.Time) int {
	return int(to.Sub(from)/(24*time.Hour)) + 1
}

// ValidateLeaveRange checks the requested leave period against the policy:
// the start date may not precede now by more than MaxBackdateDays, the end
// date may not precede the start date, and the inclusive duration may not
// exceed MaxLeaveDays.
func ValidateLeaveRange(fromDate, toDate string, now time.Time) error {
	from, err := ParseDate(fromDate)
	if err != nil {
		return err
	}
	to, err := ParseDate(toDate)
	if err != nil {
		return err
	}

	if to.Before(from) {
		return fmt.Errorf("end date %s is before start date %s", toDate, fromDate)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	earliest := today.AddDate(0, 0, -MaxBackdateDays)
	if from.Before(earliest) {
		return fmt.Errorf("start date %s is more than %d days in the past", fromDate, MaxBackdateDays)
	}

	if days := LeaveDays(from, to); days > MaxLeaveDays {
		return fmt.Errorf("leave period is %d days, maximum is %d", days, MaxLeaveDays)
	}

	return nil
}
