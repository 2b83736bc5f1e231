package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
)

// Client calls a remote transformation service.
type Client struct {
	baseURL string
	http    *http.Client
	format  codec.Format
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithWireFormat selects the response encoding asked for (default protobuf).
func WithWireFormat(f codec.Format) ClientOption {
	return func(cl *Client) {
		cl.format = f
	}
}

// NewClient creates a client for the service at baseURL, e.g.
// http://localhost:8080. A bare host:port is accepted too.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		format:  codec.FormatProto,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transform sends CNF text and returns the remote tree. Service errors come
// back as *domain.RemoteError, so errors.Is against the domain sentinels works.
func (c *Client) Transform(ctx context.Context, text string) (*domain.Node, error) {
	return c.Do(ctx, TransformRequest{Text: text})
}

// Do sends a full transform request.
func (c *Client) Do(ctx context.Context, req TransformRequest) (*domain.Node, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transform", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", c.format.ContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, data)
	}

	tree, err := codec.Unmarshal(c.format, data)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("malformed response tree: %w", err)
	}
	return tree, nil
}

// Health checks that the service is up and returns its version.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("health check: unexpected status %s", resp.Status)
	}
	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return "", fmt.Errorf("decode health: %w", err)
	}
	return h.Version, nil
}

func decodeError(status int, data []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != nil {
		return er.Error
	}
	return &domain.RemoteError{
		Kind:    domain.KindInternal,
		Message: fmt.Sprintf("unexpected status %d: %s", status, strings.TrimSpace(string(data))),
	}
}
