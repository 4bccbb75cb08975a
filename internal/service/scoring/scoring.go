// Package scoring rates how actionable a lead is for an outreach team,
// based purely on the data already on the record.
package scoring

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/leadhive/superapp/api/internal/entity"
	"github.com/leadhive/superapp/api/internal/service/pipeline"
)

const (
	categoryContact    = "contact_completeness"
	categoryProfile    = "business_profile"
	categoryProvenance = "provenance"
)

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"squarespace.com",
	"medium.com",
	"substack.com",
	"godaddysites.com",
	"notion.site",
	"googlepages.com",
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// ScoreLead evaluates a lead and returns the score breakdown. The maximum
// is 100: 45 for reachable contact details, 30 for a complete business
// profile and 25 for trustworthy provenance.
func ScoreLead(lead entity.Lead) ScoreResult {
	breakdown := map[string]int{
		categoryContact:    scoreContact(lead),
		categoryProfile:    scoreProfile(lead),
		categoryProvenance: scoreProvenance(lead),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreContact(lead entity.Lead) int {
	score := 0
	switch pipeline.Classify(lead.Phone) {
	case pipeline.PhoneValid:
		score += 20
	case pipeline.PhoneInvalid:
		score += 5
	}
	if strings.TrimSpace(lead.Email) != "" {
		score += 15
	}
	if strings.TrimSpace(lead.Website) != "" {
		score += 10
	}
	if score > 45 {
		return 45
	}
	return score
}

func scoreProfile(lead entity.Lead) int {
	score := 0
	if hasCompleteAddress(lead.Address) {
		score += 15
	}
	if strings.TrimSpace(lead.Category) != "" {
		score += 10
	}
	if strings.TrimSpace(lead.BusinessName) != "" {
		score += 5
	}
	if score > 30 {
		return 30
	}
	return score
}

func scoreProvenance(lead entity.Lead) int {
	score := 0
	if lead.ExternalID != nil && strings.TrimSpace(*lead.ExternalID) != "" {
		score += 15
	}
	if highQualityDomain(lead.Website) {
		score += 10
	}
	if score > 25 {
		return 25
	}
	return score
}

func hasCompleteAddress(raw string) bool {
	addr := strings.TrimSpace(raw)
	if len(addr) < 10 {
		return false
	}
	var hasLetter, hasDigit bool
	separatorCount := 0
	for _, r := range addr {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ',':
			separatorCount++
		}
	}
	return hasLetter && hasDigit && separatorCount >= 1
}

func highQualityDomain(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, bad := range freeHostingDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return false
		}
	}
	return strings.Count(domain, ".") >= 1
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	host := strings.TrimSpace(strings.ToLower(parsed.Host))
	host = strings.TrimPrefix(host, "www.")
	return host
}
