// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hbellamy/iepgen/internal/httputil"
	"github.com/hbellamy/iepgen/pkg/types"
)

// DefaultUserAgent imitates a desktop browser. bls.gov serves occupation
// pages only to browser-like agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

// fetch retrieves a remote source over HTTP GET. Non-2xx responses and
// network failures surface as a FetchError carrying the cause.
func fetch(ctx context.Context, client *http.Client, url string, cfg types.HTTPConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.FetchError{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}
	return body, nil
}
