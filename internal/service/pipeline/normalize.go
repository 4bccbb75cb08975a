package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/leadhive/superapp/api/internal/entity"
)

// Field priority per canonical attribute. Upstream providers disagree on
// names: one sends title/phone/address, another business_name/phone_number/
// location. The first populated source field wins.
var (
	nameKeys     = []string{"title", "business_name", "name"}
	phoneKeys    = []string{"phone", "phone_number"}
	addressKeys  = []string{"address", "location"}
	websiteKeys  = []string{"website", "link"}
	categoryKeys = []string{"category", "type"}
	emailKeys    = []string{"email"}
	externalKeys = []string{"place_id", "cid", "data_id"}
)

// Normalize maps loosely-typed provider results onto the canonical Lead
// shape. Non-object entries are skipped, absent values become empty
// strings, and the original record is kept as a raw snapshot. The source
// tag records which ingestion path produced the batch.
func Normalize(items []any, source string) []entity.Lead {
	leads := make([]entity.Lead, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		leads = append(leads, normalizeOne(record, source))
	}
	return leads
}

func normalizeOne(record map[string]any, source string) entity.Lead {
	lead := entity.Lead{
		ID:           uuid.New(),
		BusinessName: firstString(record, nameKeys),
		Phone:        stripSpaces(firstString(record, phoneKeys)),
		Email:        firstString(record, emailKeys),
		Address:      firstString(record, addressKeys),
		Website:      firstString(record, websiteKeys),
		Category:     firstString(record, categoryKeys),
		Status:       entity.StatusNew,
		Notes:        "",
		Source:       source,
	}

	if external := firstString(record, externalKeys); external != "" {
		lead.ExternalID = &external
	}

	if raw, err := json.Marshal(record); err == nil {
		lead.Raw = raw
	} else {
		lead.Raw = json.RawMessage("{}")
	}

	return lead
}

// firstString returns the first key whose value renders to a non-empty
// string. Category arrays collapse to their first element.
func firstString(record map[string]any, keys []string) string {
	for _, key := range keys {
		value, ok := record[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case []any:
			for _, elem := range v {
				if s, ok := elem.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		case float64:
			// Numeric ids from JSON decoding (cid is often numeric).
			return strings.TrimSpace(strings.TrimSuffix(jsonNumber(v), ".0"))
		}
	}
	return ""
}

func jsonNumber(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func stripSpaces(value string) string {
	return strings.Join(strings.Fields(value), "")
}
