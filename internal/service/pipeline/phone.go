package pipeline

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/leadhive/superapp/api/internal/entity"
)

// PhoneClass is the validity bucket a raw phone string falls into.
type PhoneClass string

const (
	PhoneEmpty   PhoneClass = "empty"
	PhoneValid   PhoneClass = "valid"
	PhoneInvalid PhoneClass = "invalid"
)

const countryCode = "972"

// Landline area codes accepted in the 9-digit local form.
var landlinePrefixes = []string{"02", "03", "04", "08", "09"}

const phoneRegion = "IL"

// CleanDigits strips every non-digit rune from the input.
func CleanDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Classify buckets a raw phone string. Whitespace-only input is "empty",
// not "invalid". Validity is judged on the digits-only form: international
// (972 + 12 digits), local mobile (05 + 10 digits), or local landline
// (0 + 9 digits with a known area code).
func Classify(raw string) PhoneClass {
	if strings.TrimSpace(raw) == "" {
		return PhoneEmpty
	}

	digits := CleanDigits(raw)
	switch {
	case strings.HasPrefix(digits, countryCode) && len(digits) == 12:
		return PhoneValid
	case strings.HasPrefix(digits, "05") && len(digits) == 10:
		return PhoneValid
	case strings.HasPrefix(digits, "0") && len(digits) == 9 && hasLandlinePrefix(digits):
		return PhoneValid
	default:
		return PhoneInvalid
	}
}

func hasLandlinePrefix(digits string) bool {
	for _, prefix := range landlinePrefixes {
		if strings.HasPrefix(digits, prefix) {
			return true
		}
	}
	return false
}

// FormatPhone renders a number in the dashed local display form. The
// transform is cosmetic and best-effort: any shape it does not recognize
// comes back unchanged.
func FormatPhone(raw string) string {
	digits := CleanDigits(raw)
	switch {
	case strings.HasPrefix(digits, countryCode) && len(digits) > len(countryCode):
		local := digits[len(countryCode):]
		if strings.HasPrefix(local, "5") {
			if len(local) < 3 {
				return raw
			}
			return "0" + local[:2] + "-" + local[2:]
		}
		if len(local) < 2 {
			return raw
		}
		return "0" + local[:1] + "-" + local[1:]
	case strings.HasPrefix(digits, "05"):
		if len(digits) < 4 {
			return raw
		}
		return digits[:3] + "-" + digits[3:]
	case strings.HasPrefix(digits, "0"):
		if len(digits) < 3 {
			return raw
		}
		return digits[:2] + "-" + digits[2:]
	default:
		return raw
	}
}

// E164 renders a valid local number in E.164 for tel: and WhatsApp links.
// Returns "" when the number cannot be parsed as an IL number.
func E164(raw string) string {
	number, err := phonenumbers.Parse(raw, phoneRegion)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// PhoneBuckets groups leads by phone validity for the cleanup tool.
// Duplicates holds every member of each over-populated digit group, the
// first-seen record included.
type PhoneBuckets struct {
	Valid      []entity.Lead `json:"valid"`
	Invalid    []entity.Lead `json:"invalid"`
	Duplicates []entity.Lead `json:"duplicates"`
	Empty      []entity.Lead `json:"empty"`
}

// AnalyzePhones classifies a batch of leads into cleanup buckets. Valid
// keeps the first record per cleaned digit string; a second pass moves
// every member of a multi-record group into Duplicates.
func AnalyzePhones(leads []entity.Lead) PhoneBuckets {
	var buckets PhoneBuckets
	groups := make(map[string][]entity.Lead)
	order := make([]string, 0, len(leads))

	for _, lead := range leads {
		switch Classify(lead.Phone) {
		case PhoneEmpty:
			buckets.Empty = append(buckets.Empty, lead)
		case PhoneInvalid:
			buckets.Invalid = append(buckets.Invalid, lead)
		case PhoneValid:
			digits := CleanDigits(lead.Phone)
			if _, ok := groups[digits]; !ok {
				order = append(order, digits)
				buckets.Valid = append(buckets.Valid, lead)
			}
			groups[digits] = append(groups[digits], lead)
		}
	}

	for _, digits := range order {
		if members := groups[digits]; len(members) > 1 {
			buckets.Duplicates = append(buckets.Duplicates, members...)
		}
	}

	return buckets
}
