package registry

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// CodePrefix and CodeDigits define the certificate code format:
// "MEDC" followed by six ASCII digits.
const (
	CodePrefix = "MEDC"
	CodeDigits = 6
)

var codePattern = regexp.MustCompile(`^MEDC\d{6}$`)

// NewCode draws a uniformly random certificate code. Uniqueness is not
// guaranteed here; Submit rejection-samples against the store.
func NewCode() string {
	return fmt.Sprintf("%s%06d", CodePrefix, rand.IntN(1000000))
}

// NormalizeCode upper-cases and trims a user-supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// WellFormedCode reports whether code matches the MEDC###### format.
// Callers should normalize first.
func WellFormedCode(code string) bool {
	return codePattern.MatchString(code)
}
