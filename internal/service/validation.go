package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/idna"

	"github.com/leadhive/superapp/api/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup

	errEmptyURL   = errors.New("empty url")
	errInvalidURL = errors.New("invalid url")
)

const (
	trackingPrefix     = "utm_"
	defaultHTTPTimeout = 5 * time.Second
)

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// HTTPClient abstracts HTTP requests for validation purposes.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// LeadSanitizer cleans the contact fields of imported leads: emails are
// lowercased, syntax-checked and optionally verified against MX records;
// websites are normalized to https and stripped of tracking parameters.
type LeadSanitizer struct {
	// VerifyMX enables the DNS check for email domains.
	VerifyMX bool
	// VerifyWebsites enables a liveness probe for website URLs.
	VerifyWebsites bool

	dnsResolver DNSResolver
	httpClient  HTTPClient
}

// SanitizerOption configures optional dependencies.
type SanitizerOption func(*LeadSanitizer)

// WithDNSResolver overrides the default DNS resolver.
func WithDNSResolver(resolver DNSResolver) SanitizerOption {
	return func(s *LeadSanitizer) {
		s.dnsResolver = resolver
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) SanitizerOption {
	return func(s *LeadSanitizer) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewLeadSanitizer builds a sanitizer with sensible defaults.
func NewLeadSanitizer(opts ...SanitizerOption) *LeadSanitizer {
	s := &LeadSanitizer{
		dnsResolver: systemDNSResolver{},
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SanitizeAll cleans the contact fields of every lead in place and
// returns the slice. Values that fail validation are cleared rather than
// dropping the lead.
func (s *LeadSanitizer) SanitizeAll(ctx context.Context, leads []entity.Lead) []entity.Lead {
	domainCache := make(map[string]bool)
	for i := range leads {
		leads[i].Email = s.sanitizeEmail(ctx, leads[i].Email, domainCache)
		leads[i].Website = s.sanitizeWebsite(ctx, leads[i].Website)
	}
	return leads
}

func (s *LeadSanitizer) sanitizeEmail(ctx context.Context, raw string, domainCache map[string]bool) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if !emailPattern.MatchString(email) {
		return ""
	}

	parts := strings.SplitN(email, "@", 2)
	domain := parts[1]
	if !isDomainValid(domain) {
		return ""
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return ""
	}

	if s.VerifyMX {
		ok, cached := domainCache[asciiDomain]
		if !cached {
			ok = s.hasMXRecord(ctx, asciiDomain)
			domainCache[asciiDomain] = ok
		}
		if !ok {
			return ""
		}
	}

	return parts[0] + "@" + asciiDomain
}

func (s *LeadSanitizer) sanitizeWebsite(ctx context.Context, raw string) string {
	u, err := sanitizeURL(raw)
	if err != nil {
		return ""
	}
	stripTracking(u)

	if s.VerifyWebsites && !s.urlResolves(ctx, u.String()) {
		return ""
	}
	return u.String()
}

func (s *LeadSanitizer) hasMXRecord(ctx context.Context, domain string) bool {
	if s.dnsResolver == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	records, err := s.dnsResolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

func (s *LeadSanitizer) urlResolves(ctx context.Context, target string) bool {
	if s.httpClient == nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	resp, err := s.httpClient.Do(req)
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
		if resp.StatusCode != http.StatusMethodNotAllowed {
			return false
		}
	}

	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	resp, err = s.httpClient.Do(getReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errEmptyURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errInvalidURL
	}
	u.Scheme = "https"
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
