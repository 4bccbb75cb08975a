package pipeline

import (
	"strings"

	"github.com/leadhive/superapp/api/internal/entity"
)

// Dedupe collapses records that describe the same business, keeping the
// first record seen for each identity key and preserving input order.
// Records with no usable key are treated as unique and always survive.
func Dedupe(leads []entity.Lead) []entity.Lead {
	return DedupeAgainst(leads, nil)
}

// DedupeAgainst behaves like Dedupe but also drops records whose identity
// key already appears among existing leads, so an import can be checked
// against current state. Existing records are never returned.
func DedupeAgainst(leads, existing []entity.Lead) []entity.Lead {
	seen := make(map[string]struct{}, len(leads)+len(existing))
	for _, lead := range existing {
		if key := identityKey(lead); key != "" {
			seen[key] = struct{}{}
		}
	}

	unique := make([]entity.Lead, 0, len(leads))
	for _, lead := range leads {
		key := identityKey(lead)
		if key == "" {
			unique = append(unique, lead)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, lead)
	}
	return unique
}

// identityKey derives the composite key deciding whether two records refer
// to the same business. The provider's place identifier wins when present.
// Phone digits are compared cleaned, so "03-1234567" and "031234567" match.
// An empty return means the record cannot be safely matched.
func identityKey(lead entity.Lead) string {
	if lead.ExternalID != nil && strings.TrimSpace(*lead.ExternalID) != "" {
		return "ext:" + strings.TrimSpace(*lead.ExternalID)
	}

	name := strings.TrimSpace(lead.BusinessName)
	phone := CleanDigits(lead.Phone)
	website := strings.TrimSpace(lead.Website)

	if phone == "" && website == "" {
		if name == "" {
			return ""
		}
		return "name:" + name
	}
	return name + "|" + phone + "|" + website
}
