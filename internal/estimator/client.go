// Package estimator is the boundary to the external estimation and
// image-generation services. Both calls are single-attempt with no retry; a
// failed attempt surfaces directly and the user resubmits.
package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aliraza167/construction-planner/api/internal/config"
	"github.com/aliraza167/construction-planner/api/internal/models"
)

// Client defines the estimation service operations the workflow depends on.
type Client interface {
	// SubmitEstimate posts the plot payload and returns the parsed estimate.
	// A non-2xx reply or transport failure returns a *ServiceError; callers
	// must leave previously confirmed data untouched on failure.
	SubmitEstimate(ctx context.Context, req models.EstimateRequest) (*models.EstimateResponse, error)

	// GenerateImages posts the floor geometry and returns the raw response.
	// The workflow only checks URL presence; the body is stored verbatim.
	GenerateImages(ctx context.Context, req models.ImageRequest) (map[string]interface{}, error)
}

// ServiceError is a failure reported by (or while reaching) the estimation
// service. Message carries the upstream human-readable message when present.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("estimation service returned %d: %s", e.StatusCode, e.Message)
}

// httpClient is the concrete HTTP implementation of Client.
type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an estimation service client from configuration.
func NewClient(cfg config.EstimatorConfig) Client {
	return &httpClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *httpClient) SubmitEstimate(ctx context.Context, req models.EstimateRequest) (*models.EstimateResponse, error) {
	var resp models.EstimateResponse
	if err := c.post(ctx, "/estimate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) GenerateImages(ctx context.Context, req models.ImageRequest) (map[string]interface{}, error) {
	var resp map[string]interface{}
	if err := c.post(ctx, "/generate-images", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// post sends one JSON request and decodes the reply into dest.
func (c *httpClient) post(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return &ServiceError{Message: fmt.Sprintf("estimation service unreachable: %v", err)}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &ServiceError{
			StatusCode: httpResp.StatusCode,
			Message:    upstreamMessage(httpResp.Body),
		}
	}

	if err := json.NewDecoder(httpResp.Body).Decode(dest); err != nil {
		return &ServiceError{
			StatusCode: httpResp.StatusCode,
			Message:    fmt.Sprintf("invalid response body: %v", err),
		}
	}
	return nil
}

// upstreamMessage extracts the service's {"message": ...} error field, falling
// back to a generic message when the body is not in that shape.
func upstreamMessage(body io.Reader) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return "an error occurred while getting the estimate"
}
