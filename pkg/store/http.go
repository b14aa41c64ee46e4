package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout bounds every backend request when the caller's context
// carries no deadline of its own.
const defaultTimeout = 15 * time.Second

// HTTPStore talks to the dashboard's theme storage API:
//
//	GET    {base}/themes        -> JSON array of entries
//	GET    {base}/themes/{id}   -> raw definition text, 404 when absent
//	PUT    {base}/themes/{id}   -> create or replace
//	DELETE {base}/themes/{id}   -> 200, or 404 when already absent
//
// Error responses may carry a JSON body {"message": "..."}; when present
// it is surfaced to the caller verbatim.
type HTTPStore struct {
	base   string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPStore returns a client for the backend at baseURL. A nil
// httpClient uses a default with a request timeout.
func NewHTTPStore(baseURL string, httpClient *http.Client, logger *slog.Logger) *HTTPStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HTTPStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: httpClient,
		logger: logger,
	}
}

func (s *HTTPStore) List(ctx context.Context) ([]Entry, error) {
	body, err := s.do(ctx, http.MethodGet, s.base+"/themes", nil)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("store: decode theme list: %w", err)
	}
	return entries, nil
}

func (s *HTTPStore) Fetch(ctx context.Context, id string) (string, error) {
	body, err := s.do(ctx, http.MethodGet, s.themeURL(id), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (s *HTTPStore) Upload(ctx context.Context, name string, data []byte) error {
	if err := ValidateUpload(name, data); err != nil {
		return err
	}
	id := strings.TrimSuffix(name, FileExt)
	_, err := s.do(ctx, http.MethodPut, s.themeURL(id), data)
	return err
}

func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	_, err := s.do(ctx, http.MethodDelete, s.themeURL(id), nil)
	return err
}

func (s *HTTPStore) themeURL(id string) string {
	return s.base + "/themes/" + url.PathEscape(id)
}

// do runs one request and maps the response: 2xx returns the body, 404
// returns ErrNotFound, anything else surfaces the backend message when the
// body carries one.
func (s *HTTPStore) do(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/toml")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("store: read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		if msg := backendMessage(data); msg != "" {
			return nil, fmt.Errorf("store: backend: %s", msg)
		}
		return nil, fmt.Errorf("store: backend returned %s", resp.Status)
	}
}

// backendMessage extracts the message field from an error body, if any.
func backendMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Message
}
