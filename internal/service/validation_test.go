package service

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/leadhive/superapp/api/internal/entity"
)

func TestSanitizeEmailValidatesSyntaxAndMX(t *testing.T) {
	resolver := &stubDNSResolver{
		mx: map[string]bool{
			"example.com": true,
		},
	}
	s := NewLeadSanitizer(WithDNSResolver(resolver), WithHTTPClient(&noopHTTPClient{}))
	s.VerifyMX = true

	cache := make(map[string]bool)
	if got := s.sanitizeEmail(context.Background(), "Test@Example.com", cache); got != "test@example.com" {
		t.Fatalf("expected normalized email, got %q", got)
	}
	if got := s.sanitizeEmail(context.Background(), "invalid@", cache); got != "" {
		t.Fatalf("expected invalid syntax rejected, got %q", got)
	}
	if got := s.sanitizeEmail(context.Background(), "user@missingmx.com", cache); got != "" {
		t.Fatalf("expected missing MX rejected, got %q", got)
	}
}

func TestSanitizeEmailSkipsMXWhenDisabled(t *testing.T) {
	s := NewLeadSanitizer(WithDNSResolver(&stubDNSResolver{}), WithHTTPClient(&noopHTTPClient{}))

	got := s.sanitizeEmail(context.Background(), "USER@EXAMPLE.COM", make(map[string]bool))
	if got != "user@example.com" {
		t.Fatalf("expected lowercased email without MX check, got %q", got)
	}
}

func TestSanitizeWebsiteNormalizesAndStripsTracking(t *testing.T) {
	s := NewLeadSanitizer(WithHTTPClient(&noopHTTPClient{}))

	got := s.sanitizeWebsite(context.Background(), "company.com/contact?utm_source=ads")
	if got != "https://company.com/contact" {
		t.Fatalf("unexpected website: %q", got)
	}

	if got := s.sanitizeWebsite(context.Background(), "   "); got != "" {
		t.Fatalf("expected empty for blank input, got %q", got)
	}
	if got := s.sanitizeWebsite(context.Background(), "://bad"); got != "" {
		t.Fatalf("expected empty for invalid url, got %q", got)
	}
}

func TestSanitizeWebsiteVerifiesResolution(t *testing.T) {
	httpClient := &stubHTTPClient{
		responses: map[string]int{
			"HEAD https://alive.example":   http.StatusOK,
			"HEAD https://headless.example": http.StatusMethodNotAllowed,
			"GET https://headless.example":  http.StatusOK,
		},
	}
	s := NewLeadSanitizer(WithHTTPClient(httpClient))
	s.VerifyWebsites = true

	if got := s.sanitizeWebsite(context.Background(), "alive.example"); got != "https://alive.example" {
		t.Fatalf("expected resolving website kept, got %q", got)
	}
	if got := s.sanitizeWebsite(context.Background(), "headless.example"); got != "https://headless.example" {
		t.Fatalf("expected HEAD/GET fallback to keep website, got %q", got)
	}
	if got := s.sanitizeWebsite(context.Background(), "dead.example"); got != "" {
		t.Fatalf("expected unresolvable website cleared, got %q", got)
	}
}

func TestSanitizeAllCleansContactFields(t *testing.T) {
	s := NewLeadSanitizer(WithHTTPClient(&noopHTTPClient{}))

	leads := s.SanitizeAll(context.Background(), []entity.Lead{
		{
			BusinessName: "Cafe Aroma",
			Email:        " INFO@Aroma.co.il ",
			Website:      "aroma.co.il?utm_campaign=spring",
		},
		{
			BusinessName: "No Contact",
			Email:        "not-an-email",
		},
	})

	if leads[0].Email != "info@aroma.co.il" {
		t.Fatalf("email not normalized: %q", leads[0].Email)
	}
	if leads[0].Website != "https://aroma.co.il" {
		t.Fatalf("website not normalized: %q", leads[0].Website)
	}
	if leads[1].Email != "" {
		t.Fatalf("invalid email should be cleared, got %q", leads[1].Email)
	}
	if leads[0].BusinessName != "Cafe Aroma" || leads[1].BusinessName != "No Contact" {
		t.Fatal("business names must be untouched")
	}
}

type stubDNSResolver struct {
	mx map[string]bool
}

func (s *stubDNSResolver) LookupMX(_ context.Context, domain string) ([]*net.MX, error) {
	if s.mx == nil {
		return nil, errors.New("no mx")
	}
	if ok := s.mx[domain]; ok {
		return []*net.MX{{Host: "mail." + domain, Pref: 10}}, nil
	}
	return nil, errors.New("no mx")
}

type stubHTTPClient struct {
	responses map[string]int
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.responses == nil {
		return nil, errors.New("no response configured")
	}
	key := req.Method + " " + req.URL.String()
	status, ok := c.responses[key]
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

type noopHTTPClient struct{}

func (n *noopHTTPClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("http client disabled for test")
}
