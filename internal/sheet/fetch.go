package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	applog "github.com/htu-dlearn/courseboard/internal/log"
)

const (
	defaultFetchTimeout = 30 * time.Second
	// maxExportBytes bounds a single export download.
	maxExportBytes = 32 << 20
)

// Fetcher downloads spreadsheet exports.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a fetcher whose client gives up after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch GETs url and returns the body. Non-2xx answers are ErrBadStatus.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d from %s", ErrBadStatus, resp.StatusCode, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxExportBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxExportBytes {
		return nil, fmt.Errorf("export from %s exceeds %d bytes", url, maxExportBytes)
	}
	applog.Debugf("fetched %d bytes from %s in %s", len(body), url, time.Since(start).Round(time.Millisecond))
	return body, nil
}
