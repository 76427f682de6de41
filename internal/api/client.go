package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single submit or verify call. The wizard treats
// expiry like any other transport failure: retryable, non-fatal.
const DefaultTimeout = 15 * time.Second

// Client talks to a certificate registry server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the registry at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Submit sends the collected form to the registry. A server-reported
// failure (success:false) is returned as an error so the caller has a
// single failure path for transport and validation problems.
func (c *Client) Submit(ctx context.Context, req SubmissionRequest) (SubmitResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("encoding submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("submitting request: %w", err)
	}
	defer httpResp.Body.Close()

	var resp SubmitResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return SubmitResponse{}, fmt.Errorf("decoding response: %w", err)
	}

	if !resp.Success {
		if resp.Message != "" {
			return resp, fmt.Errorf("submission rejected: %s", resp.Message)
		}
		return resp, fmt.Errorf("submission rejected (status %d)", httpResp.StatusCode)
	}

	return resp, nil
}

// Verify looks up a certificate code. An unknown code is not an error:
// the response simply has Valid set to false.
func (c *Client) Verify(ctx context.Context, code string) (VerifyResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/verify/"+url.PathEscape(code), nil)
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("building request: %w", err)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("verifying code: %w", err)
	}
	defer httpResp.Body.Close()

	var resp VerifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return VerifyResponse{}, fmt.Errorf("decoding response: %w", err)
	}

	return resp, nil
}
