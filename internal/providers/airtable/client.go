package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.airtable.com"

// Store is the tabular-sink surface the relay needs.
type Store interface {
	CreateRecord(ctx context.Context, fields map[string]any) (string, error)
	// ListRecords performs a bounded read, used by the provisioning
	// check and health probe.
	ListRecords(ctx context.Context, maxRecords int) error
}

type Config struct {
	APIKey    string
	BaseID    string
	TableName string
}

type Client struct {
	cfg     Config
	baseURL string
	client  *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: defaultAPIBase,
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", apiError(resp)
	}

	var record struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return "", err
	}
	if record.ID == "" {
		return "", errors.New("airtable_response_invalid")
	}
	return record.ID, nil
}

func (c *Client) ListRecords(ctx context.Context, maxRecords int) error {
	if maxRecords <= 0 {
		maxRecords = 1
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.tableURL()+"?maxRecords="+strconv.Itoa(maxRecords), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}
	return nil
}

func (c *Client) tableURL() string {
	return c.baseURL + "/v0/" + url.PathEscape(c.cfg.BaseID) + "/" + url.PathEscape(c.cfg.TableName)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
}

func apiError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("airtable_request_failed: status %d", resp.StatusCode)
	}
	return errors.New(apiErr.Error.Message)
}

// SchemaDescription lists the expected table columns so an operator can
// create the table manually when the provisioning check fails.
func SchemaDescription() string {
	return strings.Join([]string{
		"Payment ID (single line text)",
		"Customer Email (email)",
		"Customer Name (single line text)",
		"Amount (number, 2 decimal places)",
		"Currency (single line text)",
		"Failure Reason (long text)",
		"Failed At (date, include time)",
		"Status (single select: Failed, Retrying, Resolved)",
	}, "; ")
}
