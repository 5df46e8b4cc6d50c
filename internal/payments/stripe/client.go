package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/failrelay/internal/payments/domain"
)

const defaultAPIBase = "https://api.stripe.com"

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type stripeCustomer struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

// Client talks to the Stripe REST API directly.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultAPIBase,
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Customer{}, domain.ErrInvalidEvent
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id))
	if err != nil {
		return domain.Customer{}, err
	}

	var customer stripeCustomer
	if err := json.Unmarshal(body, &customer); err != nil {
		return domain.Customer{}, err
	}
	if customer.Deleted {
		return domain.Customer{}, errors.New("customer_deleted")
	}
	return domain.Customer{
		Email: strings.TrimSpace(customer.Email),
		Name:  strings.TrimSpace(customer.Name),
	}, nil
}

func (c *Client) ListPaymentIntents(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = 1
	}
	_, err := c.doRequest(ctx, http.MethodGet, "/v1/payment_intents?limit="+strconv.Itoa(limit))
	return err
}

func (c *Client) doRequest(ctx context.Context, method string, path string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("stripe_api_key_missing")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var stripeErr stripeErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err != nil {
			return nil, errors.New("stripe_request_failed")
		}
		message := strings.TrimSpace(stripeErr.Error.Message)
		if message == "" {
			message = "stripe_request_failed"
		}
		return nil, errors.New(message)
	}

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		return nil, err
	}
	return buf, nil
}
