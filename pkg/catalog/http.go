package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// indexFile is the well-known index name at the catalog root.
const indexFile = "index.yaml"

// maxFileSize caps how much of any catalog file is read; definitions past
// the storage upload ceiling could never be installed anyway.
const maxFileSize = 1 << 20

// HTTPCatalog reads a catalog served as static files: {base}/index.yaml
// plus the definition files the index points at.
type HTTPCatalog struct {
	base   string
	client *http.Client
}

// NewHTTPCatalog returns a catalog client for baseURL. A nil httpClient
// uses a default with a request timeout.
func NewHTTPCatalog(baseURL string, httpClient *http.Client) *HTTPCatalog {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPCatalog{base: strings.TrimRight(baseURL, "/"), client: httpClient}
}

func (c *HTTPCatalog) Index(ctx context.Context) ([]Entry, error) {
	data, err := c.get(ctx, c.base+"/"+indexFile)
	if err != nil {
		return nil, err
	}
	return parseIndex(data)
}

func (c *HTTPCatalog) Raw(ctx context.Context, file string) (string, error) {
	data, err := c.get(ctx, c.base+"/"+url.PathEscape(file))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *HTTPCatalog) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch %s: %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", u, err)
	}
	return data, nil
}
