package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"SheetSentinel/internal/model"
)

var spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// ExtractSpreadsheetID accepts a Google Sheets URL or a bare id and returns
// the id (the path segment after /d/).
func ExtractSpreadsheetID(urlOrID string) string {
	if m := spreadsheetIDPattern.FindStringSubmatch(urlOrID); m != nil {
		return m[1]
	}
	return strings.TrimSpace(urlOrID)
}

// CSVExportURL builds the CSV export link of one sheet tab.
func CSVExportURL(sheetID string, gid int) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%d", url.PathEscape(sheetID), gid)
}

// SheetsFetcher downloads a Google Sheets tab through its CSV export.
type SheetsFetcher struct {
	URL        string
	Client     *http.Client
	Limiter    *rate.Limiter
	MaxElapsed time.Duration // retry budget for transient failures
}

// NewSheetsFetcher creates a fetcher for one tab with optional proxy support.
func NewSheetsFetcher(sheet string, gid int, proxyURL string, timeout time.Duration) *SheetsFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SheetsFetcher{
		URL: CSVExportURL(ExtractSpreadsheetID(sheet), gid),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		MaxElapsed: 30 * time.Second,
	}
}

// MaxTableBytes caps a downloaded export.
const MaxTableBytes = 10 << 20

func (f *SheetsFetcher) Name() string { return "sheets" }

// FetchTable downloads and parses the export. 5xx responses and transport
// errors are retried with exponential backoff; 4xx responses are not.
func (f *SheetsFetcher) FetchTable(ctx context.Context) (*model.Table, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			return fmt.Errorf("sheets fetch: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxTableBytes+1))
		if err != nil {
			return fmt.Errorf("sheets read body: %w", err)
		}
		if len(data) > MaxTableBytes {
			return backoff.Permanent(fmt.Errorf("sheets: export larger than %d bytes", MaxTableBytes))
		}
		if resp.StatusCode != http.StatusOK {
			err := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data), 200)}
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		body = data
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = f.MaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return ParseCSV(strings.NewReader(string(body)))
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheets: status %d, body: %s", e.StatusCode, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
