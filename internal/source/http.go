package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

// HTTP fetches the dataset from a URL on every Load.
type HTTP struct {
	URL     string
	Client  *http.Client
	Options ParseOptions
}

// NewHTTP returns an HTTP source for url. A nil client means
// http.DefaultClient; the request is bounded by the Load context.
func NewHTTP(url string, client *http.Client, opts ParseOptions) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{URL: url, Client: client, Options: opts}
}

// Name identifies the source in logs and status output.
func (h *HTTP) Name() string {
	return "http:" + h.URL
}

// Load GETs the URL and parses the body. Transport failures and non-2xx
// responses are reported as core.ErrSourceUnavailable.
func (h *HTTP) Load(ctx context.Context) ([]core.Record, core.LoadStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, core.LoadStats{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := h.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.LoadStats{}, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, ctx.Err())
		}
		return nil, core.LoadStats{}, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, core.LoadStats{}, fmt.Errorf("%w: GET %s: %s", core.ErrSourceUnavailable, h.URL, resp.Status)
	}

	return ParseCSV(resp.Body, h.Options)
}
