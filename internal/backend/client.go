package backend

import (
	"context"
	"fmt"
	"mime"
	"time"

	"github.com/contentclicks/dashboard/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Client talks to the collector backend's JSON API. All responses share the
// `{success, ..., error}` envelope; success=false or a non-2xx status is
// surfaced as an error.
type Client struct {
	client  *resty.Client
	baseURL string
}

// Config holds configuration for the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration // zero uses the resty default
	Token   string
}

// NewClient creates a new collector backend client.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.Token)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		client:  client,
		baseURL: cfg.BaseURL,
	}
}

// envelope is the common response wrapper used by every backend endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e *envelope) check(resp *resty.Response, op string) error {
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		if e.Error != "" {
			return fmt.Errorf("%s: HTTP %d: %s", op, resp.StatusCode(), e.Error)
		}
		return fmt.Errorf("%s: HTTP %d: %s", op, resp.StatusCode(), string(resp.Body()))
	}
	if !e.Success {
		if e.Error != "" {
			return fmt.Errorf("%s: backend error: %s", op, e.Error)
		}
		return fmt.Errorf("%s: backend reported failure", op)
	}
	return nil
}

// ListCustomers fetches all customer profiles.
func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var out struct {
		envelope
		Customers []domain.Customer `json:"customers"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		Get("/api/customers")
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if err := out.check(resp, "list customers"); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

// GetCustomer fetches a single customer profile.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	var out struct {
		envelope
		Customer domain.Customer `json:"customer"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		Get("/api/customers/{id}")
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if err := out.check(resp, "get customer"); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

// CreateCustomer creates a customer profile on the backend.
func (c *Client) CreateCustomer(ctx context.Context, name, industry string) (*domain.Customer, error) {
	var out struct {
		envelope
		Customer domain.Customer `json:"customer"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "industry": industry}).
		SetResult(&out).
		SetError(&out).
		Post("/api/customers")
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	if err := out.check(resp, "create customer"); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

// UpdateCustomer updates a customer profile on the backend.
func (c *Client) UpdateCustomer(ctx context.Context, customerID, name, industry string) (*domain.Customer, error) {
	var out struct {
		envelope
		Customer domain.Customer `json:"customer"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "industry": industry}).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		Put("/api/customers/{id}")
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	if err := out.check(resp, "update customer"); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

// DeleteCustomer removes a customer profile from the backend.
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	var out struct {
		envelope
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		Delete("/api/customers/{id}")
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return out.check(resp, "delete customer")
}

// GetMetrics fetches the full latest metrics snapshot for a customer.
func (c *Client) GetMetrics(ctx context.Context, customerID string) (domain.MetricsSnapshot, error) {
	var out struct {
		envelope
		Metrics domain.MetricsSnapshot `json:"metrics"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		Get("/api/customers/{id}/metrics")
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}
	if err := out.check(resp, "get metrics"); err != nil {
		return nil, err
	}
	return out.Metrics, nil
}

// GetHistory fetches the time series for one KPI.
func (c *Client) GetHistory(ctx context.Context, customerID, medium, journeyStage, kpiName string, limit int) ([]domain.HistoryPoint, error) {
	var out struct {
		envelope
		History []domain.HistoryPoint `json:"history"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		SetQueryParams(map[string]string{
			"medium":        medium,
			"journey_stage": journeyStage,
			"kpi_name":      kpiName,
			"limit":         fmt.Sprintf("%d", limit),
		}).
		Get("/api/customers/{id}/metrics/history")
	if err != nil {
		return nil, fmt.Errorf("failed to get metric history: %w", err)
	}
	if err := out.check(resp, "get metric history"); err != nil {
		return nil, err
	}
	return out.History, nil
}

// GetTopPerformers fetches the top performing content for a medium.
func (c *Client) GetTopPerformers(ctx context.Context, customerID, medium string, limit int) ([]domain.TopPerformer, error) {
	var out struct {
		envelope
		TopPerformers []domain.TopPerformer `json:"top_performers"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		SetQueryParams(map[string]string{
			"medium": medium,
			"limit":  fmt.Sprintf("%d", limit),
		}).
		Get("/api/customers/{id}/top-performers")
	if err != nil {
		return nil, fmt.Errorf("failed to get top performers: %w", err)
	}
	if err := out.check(resp, "get top performers"); err != nil {
		return nil, err
	}
	return out.TopPerformers, nil
}

// StartCollection submits a collection job for the customer. Success means
// the job was accepted; progress is learned only through CollectionStatus.
func (c *Client) StartCollection(ctx context.Context, customerID string, req domain.CollectionRequest) error {
	var out struct {
		envelope
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		Post("/api/customers/{id}/collect")
	if err != nil {
		return fmt.Errorf("failed to start collection: %w", err)
	}
	return out.check(resp, "start collection")
}

// CollectionStatus fetches the current collection job status for a customer.
func (c *Client) CollectionStatus(ctx context.Context, customerID string) (*domain.CollectionStatus, error) {
	var out struct {
		envelope
		Status domain.CollectionStatus `json:"status"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		SetPathParam("id", customerID).
		Get("/api/customers/{id}/collect/status")
	if err != nil {
		return nil, fmt.Errorf("failed to get collection status: %w", err)
	}
	if err := out.check(resp, "get collection status"); err != nil {
		return nil, err
	}
	return &out.Status, nil
}

// ExportPDF asks the backend to render the dashboard to PDF and returns the
// raw document bytes along with the suggested filename, if any.
func (c *Client) ExportPDF(ctx context.Context, customerID string, charts map[string]string) ([]byte, string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"charts": charts}).
		SetPathParam("id", customerID).
		Post("/api/customers/{id}/export/pdf")
	if err != nil {
		return nil, "", fmt.Errorf("failed to export PDF: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, "", fmt.Errorf("export PDF: HTTP %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	filename := filenameFromDisposition(resp.Header().Get("Content-Disposition"))
	return resp.Body(), filename, nil
}

// filenameFromDisposition extracts the filename from a Content-Disposition
// header, returning "" when absent or malformed.
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// DiscoverPages resolves the Facebook pages and Instagram accounts reachable
// from a system user token.
func (c *Client) DiscoverPages(ctx context.Context, systemUserToken string) ([]domain.DiscoveredPage, error) {
	var out struct {
		envelope
		Pages []domain.DiscoveredPage `json:"pages"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"system_user_token": systemUserToken}).
		SetResult(&out).
		SetError(&out).
		Post("/api/discover-pages")
	if err != nil {
		return nil, fmt.Errorf("failed to discover pages: %w", err)
	}
	if err := out.check(resp, "discover pages"); err != nil {
		return nil, err
	}
	return out.Pages, nil
}
