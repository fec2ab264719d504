// Package client talks to the tenant website API: it fetches tenant
// documents and submits save payloads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// API paths.
const (
	GetTenantPath = "/tenant-website/getTenant"
	SavePagesPath = "/tenant-website/save-pages"
)

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// APIError is a non-2xx response. Message is the server-provided message,
// if any.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API returned status %d", e.Status)
}

// Client is an HTTP client of the tenant website API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New returns a client for baseURL. A zero timeout means 30 seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.ForService("client"),
	}
}

// FetchTenant posts {websiteName} to the fetch endpoint. An empty body
// yields a nil document, a 404 or 204 yields model.ErrTenantNotFound and
// a body that is not a document wraps model.ErrMalformedDocument.
func (c *Client) FetchTenant(ctx context.Context, websiteName string) (*model.TenantDocument, error) {
	body, err := json.Marshal(map[string]string{"websiteName": websiteName})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	resp, err := c.post(ctx, GetTenantPath, "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusNoContent:
		return nil, fmt.Errorf("%s: %w", websiteName, model.ErrTenantNotFound)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.StatusCode, data)
	}
	c.logger.Debugf("fetched tenant %s (%d bytes)", websiteName, len(data))
	return model.ParseDocument(bytes.TrimSpace(data))
}

// SavePages submits p with a bearer token. Any 2xx is a confirmation.
func (c *Client) SavePages(ctx context.Context, token string, p model.SavePayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	resp, err := c.post(ctx, SavePagesPath, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	return apiError(resp.StatusCode, data)
}

func (c *Client) post(ctx context.Context, path, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	return resp, nil
}

// apiError extracts {"message": ...} from a failure body when present.
func apiError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &msg) == nil {
		e.Message = msg.Message
	}
	return e
}
