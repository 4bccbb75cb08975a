package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/leadhive/superapp/api/internal/dto"
)

var (
	stopwordExpr    = regexp.MustCompile(`(?i)\b(find|search|get|show|me|some|please|leads?|for|תמצא|חפש|בבקשה|לידים)\b`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|near|around)\s+([a-zA-Z\s]+)`)
)

// PromptService interprets free-form search prompts.
type PromptService struct {
	DefaultLocation string
}

// PromptResult contains structured search parameters derived from a prompt.
type PromptResult struct {
	Query    string
	Location string
}

// NewPromptService creates a prompt parser with sensible defaults.
func NewPromptService(defaultLocation string) *PromptService {
	if strings.TrimSpace(defaultLocation) == "" {
		defaultLocation = "Israel"
	}
	return &PromptService{DefaultLocation: defaultLocation}
}

// Parse converts a prompt request into a structured search query.
func (s *PromptService) Parse(req dto.PromptSearchRequest) (PromptResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return PromptResult{}, errors.New("prompt is required")
	}

	location, query := extractLocationAndQuery(prompt)
	if location == "" {
		location = s.DefaultLocation
	}
	if query == "" {
		return PromptResult{}, errors.New("prompt has no search terms")
	}

	return PromptResult{
		Query:    query,
		Location: location,
	}, nil
}

func extractLocationAndQuery(prompt string) (string, string) {
	match := locationPattern.FindStringSubmatch(prompt)
	location := ""
	if len(match) > 1 {
		location = titleCase(match[1])
	}

	lower := strings.ToLower(prompt)
	if len(match) > 0 {
		idx := strings.Index(lower, strings.ToLower(match[0]))
		if idx >= 0 {
			prompt = strings.TrimSpace(prompt[:idx])
		}
	}

	query := stopwordExpr.ReplaceAllString(prompt, "")
	query = strings.Join(strings.Fields(query), " ")
	return location, query
}

func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	parts := strings.Fields(value)
	for i, p := range parts {
		lower := strings.ToLower(p)
		if len(lower) == 0 {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
