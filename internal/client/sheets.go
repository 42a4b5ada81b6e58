package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"sponsor/etl/internal/config"
)

// maxSheetRedirects bounds the redirect chain for one tab fetch; a
// sixth redirect fails the fetch.
const maxSheetRedirects = 5

// SheetsClient fetches one published spreadsheet tab as CSV text.
type SheetsClient interface {
	FetchTab(ctx context.Context, gid string) (string, error)
}

type sheetsClient struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
	baseURL    string
	publishID  string
}

func NewSheetsClient(cfg config.SpreadsheetConfig, clientCfg config.ClientConfig) SheetsClient {
	httpClient := resty.New().
		SetTimeout(time.Duration(clientCfg.Timeout) * time.Second).
		SetRedirectPolicy(resty.NoRedirectPolicy())

	return &sheetsClient{
		rl:         ratelimit.New(clientCfg.MaxRequestsPerSecond),
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		publishID:  cfg.PublishID,
	}
}

// FetchTab retrieves one tab's CSV export, following only 301/307
// redirects and requiring every redirect target to be https. Transient
// failures are surfaced, not retried.
func (c *sheetsClient) FetchTab(ctx context.Context, gid string) (string, error) {
	target := fmt.Sprintf("%s/spreadsheets/d/e/%s/pub?gid=%s&single=true&output=csv",
		c.baseURL, c.publishID, url.QueryEscape(gid))

	for hop := 0; hop <= maxSheetRedirects; hop++ {
		c.rl.Take()

		resp, err := c.httpClient.R().SetContext(ctx).Get(target)
		if err != nil {
			return "", fmt.Errorf("failed to fetch tab gid=%s: %w", gid, err)
		}

		switch resp.StatusCode() {
		case http.StatusMovedPermanently, http.StatusTemporaryRedirect:
			next, err := resolveLocation(resp, target)
			if err != nil {
				return "", fmt.Errorf("tab gid=%s: %w", gid, err)
			}
			if next.Scheme != "https" {
				return "", fmt.Errorf("tab gid=%s: insecure redirect target %s", gid, next)
			}
			log.Debugf("Sheet tab gid=%s redirected to %s", gid, next)
			target = next.String()
			continue
		}

		if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
			return "", fmt.Errorf("tab gid=%s: HTTP %d %s", gid, resp.StatusCode(), resp.Status())
		}

		// Response.String trims surrounding whitespace, which would
		// drop the CSV's trailing newline.
		return string(resp.Bytes()), nil
	}

	return "", fmt.Errorf("redirect loop fetching tab gid=%s: more than %d redirects", gid, maxSheetRedirects)
}

// resolveLocation resolves a redirect's Location header against the
// URL that produced it.
func resolveLocation(resp *resty.Response, current string) (*url.URL, error) {
	loc := resp.Header().Get("Location")
	if loc == "" {
		return nil, fmt.Errorf("redirect response missing Location header")
	}
	base, err := url.Parse(current)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", current, err)
	}
	next, err := base.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect target %q: %w", loc, err)
	}
	return next, nil
}
