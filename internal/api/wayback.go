package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/thesavant42/waybackpulse/internal/models"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultBaseURL = "https://web.archive.org"
	cdxPath        = "/cdx/search/cdx"
	cdxTimeout     = 180 * time.Second // large domains take minutes to index
)

// WaybackClient handles Wayback Machine CDX API requests
type WaybackClient struct {
	http   *resty.Client
	logger *log.Logger
}

// ClientOptions configures a WaybackClient. Zero values use the defaults.
type ClientOptions struct {
	BaseURL string
	Timeout time.Duration
}

// NewWaybackClient creates a new Wayback Machine API client
func NewWaybackClient(logger *log.Logger, opts ClientOptions) *WaybackClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = cdxTimeout
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetTimeout(timeout)
	// Headers emulating a real browser; the archive throttles bare clients harder
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	client.SetHeader("Referer", "https://web.archive.org/")
	client.SetHeader("Accept", "application/json, text/plain, */*")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &WaybackClient{
		http:   client,
		logger: logger,
	}
}

// NormalizeDomain reduces a hostname or URL to a lowercase bare hostname
// Examples:
//   - "https://www.nytimes.com/section" -> "www.nytimes.com"
//   - "Example.COM." -> "example.com"
//
// The host must have a registrable domain according to the public suffix list.
func NormalizeDomain(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty domain")
	}

	// Bare hosts get a scheme so url.Parse strips userinfo, port and path
	if !strings.Contains(input, "://") {
		input = "http://" + input
	}
	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	input = parsed.Hostname()

	if net.ParseIP(input) != nil {
		return "", fmt.Errorf("invalid domain %q: IP addresses are not supported", input)
	}

	input = strings.ToLower(strings.TrimSuffix(input, "."))
	if input == "" {
		return "", fmt.Errorf("empty domain")
	}

	if _, err := publicsuffix.EffectiveTLDPlusOne(input); err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", input, err)
	}

	return input, nil
}

// SiteLabel derives a short label for a domain from its registrable name
// Examples:
//   - "www.nytimes.com" -> "nytimes"
//   - "bbc.co.uk" -> "bbc"
func SiteLabel(domain string) string {
	root, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	suffix, _ := publicsuffix.PublicSuffix(root)
	label := strings.TrimSuffix(strings.TrimSuffix(root, suffix), ".")
	if label == "" {
		return domain
	}
	return label
}

// BuildCDXQuery constructs the raw query string for a full-domain capture listing
// Returns the query string WITHOUT the leading '?'
// matchType=domain includes every subdomain; collapse=digest drops consecutive
// captures with identical content.
func BuildCDXQuery(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))

	return fmt.Sprintf(
		"url=%s&matchType=domain&output=json&collapse=digest",
		url.QueryEscape(domain),
	)
}

// FetchSite fetches the full capture index for a domain in a single request.
// The returned table still carries the header row.
func (c *WaybackClient) FetchSite(ctx context.Context, domain string) (models.RawTable, error) {
	started := time.Now()
	if c.logger != nil {
		c.logger.Debug("Fetching CDX index", "domain", domain, "query", BuildCDXQuery(domain))
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryString(BuildCDXQuery(domain)).
		Get(cdxPath)
	if err != nil {
		return nil, &FetchError{Domain: domain, Cause: fmt.Errorf("request failed: %w", err)}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &FetchError{
			Domain: domain,
			Cause:  fmt.Errorf("CDX API returned status %d: %s", resp.StatusCode(), truncateBody(resp.String())),
		}
	}

	table, err := parseCDXResponse(resp.Body())
	if err != nil {
		return nil, &FetchError{Domain: domain, Cause: err}
	}

	if c.logger != nil {
		c.logger.Info("CDX index fetched", "domain", domain, "rows", table.DataRows(), "elapsed", time.Since(started).Round(time.Millisecond))
	}

	return table, nil
}

// parseCDXResponse decodes the CDX JSON body
// Format: [[header], [record1], [record2], ...]
// The archive answers an empty body or [] when nothing was captured.
func parseCDXResponse(body []byte) (models.RawTable, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return models.RawTable{}, nil
	}

	var rows models.RawTable
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if rows == nil {
		rows = models.RawTable{}
	}
	return rows, nil
}

func truncateBody(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
