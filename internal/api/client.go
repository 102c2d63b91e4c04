package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const callTimeout = 8 * time.Second

// Client is a thin JSON client for the opsdeck backend.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		httpc:   &http.Client{},
	}
}

// Session fetches the authenticated operator's identity and permission set.
func (c *Client) Session(ctx context.Context) (Session, error) {
	var out Session
	if err := c.get(ctx, "/api/v1/session", &out); err != nil {
		return Session{}, fmt.Errorf("fetch session: %w", err)
	}
	return out, nil
}

// Inventory fetches the current infrastructure object summaries.
func (c *Client) Inventory(ctx context.Context) ([]ObjectSummary, error) {
	var out struct {
		Objects []ObjectSummary `json:"objects"`
	}
	if err := c.get(ctx, "/api/v1/objects", &out); err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	return out.Objects, nil
}

// Services fetches the service catalog with script declarations.
func (c *Client) Services(ctx context.Context) ([]ServiceDef, error) {
	var out struct {
		Services []ServiceDef `json:"services"`
	}
	if err := c.get(ctx, "/api/v1/services", &out); err != nil {
		return nil, fmt.Errorf("fetch services: %w", err)
	}
	return out.Services, nil
}

// DeployPreview fetches the dry-run summary for a service deploy.
func (c *Client) DeployPreview(ctx context.Context, service string) (DeployPreview, error) {
	var out DeployPreview
	path := "/api/v1/services/" + url.PathEscape(service) + "/deploy/preview"
	if err := c.get(ctx, path, &out); err != nil {
		return DeployPreview{}, fmt.Errorf("fetch deploy preview for %q: %w", service, err)
	}
	return out, nil
}

// ActiveDeployments lists the currently-active deployment names for a service.
// Backs the dependent-select input kind.
func (c *Client) ActiveDeployments(ctx context.Context, service string) ([]string, error) {
	var out struct {
		Deployments []string `json:"deployments"`
	}
	path := "/api/v1/services/" + url.PathEscape(service) + "/deployments"
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("fetch deployments for %q: %w", service, err)
	}
	return out.Deployments, nil
}

// EnrollableKeys lists the key identities enrollable against a service.
// Backs the key-multiselect input kind.
func (c *Client) EnrollableKeys(ctx context.Context, service string) ([]string, error) {
	var out struct {
		Keys []string `json:"keys"`
	}
	path := "/api/v1/services/" + url.PathEscape(service) + "/keys"
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("fetch keys for %q: %w", service, err)
	}
	return out.Keys, nil
}

// RunServiceScript invokes a script against a service.
func (c *Client) RunServiceScript(ctx context.Context, service string, req InvokeRequest) (InvokeResult, error) {
	path := "/api/v1/services/" + url.PathEscape(service) + "/run"
	return c.invoke(ctx, path, req)
}

// RunObjectScript invokes a script against an inventory object.
func (c *Client) RunObjectScript(ctx context.Context, objectID int64, req InvokeRequest) (InvokeResult, error) {
	path := fmt.Sprintf("/api/v1/objects/%d/run", objectID)
	return c.invoke(ctx, path, req)
}

func (c *Client) invoke(ctx context.Context, path string, req InvokeRequest) (InvokeResult, error) {
	if req.Inputs == nil {
		req.Inputs = map[string]any{}
	}
	var out InvokeResult
	if err := c.post(ctx, path, req, &out); err != nil {
		return InvokeResult{}, fmt.Errorf("invoke %q: %w", req.Script, err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
