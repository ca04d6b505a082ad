package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// MaxOrderIDLength is the gateway's limit on the order_id field.
const MaxOrderIDLength = 30

// Config holds the gateway contract parameters.
type Config struct {
	BaseURL          string
	APIKey           string
	Salt             string
	Currency         string
	ReturnURL        string // redirect-return callback
	ReturnURLFailure string
	ReturnURLCancel  string
}

// Configured reports whether the credentials needed to sign and initiate
// payments are present.
func (c Config) Configured() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.Salt != ""
}

// CheckoutRequest carries the customer and amount details for initiating a
// payment attempt.
type CheckoutRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Name        string
	Email       string
	Phone       string
	City        string
	Country     string
	ZipCode     string
}

// CheckoutResponse is the gateway's reply to a payment initiation.
type CheckoutResponse struct {
	PaymentURL string `json:"payment_url"`
	PaymentID  string `json:"payment_id"`
}

// Client initiates payments against the gateway's HTTP API.
type Client struct {
	cfg  Config
	http *resty.Client
}

// NewClient creates a gateway client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(15 * time.Second),
	}
}

// BuildFields assembles the fixed outbound field set in contract order and
// signs it. The hash covers every field value, trimmed, in this exact order.
func (c *Client) BuildFields(req CheckoutRequest) map[string]string {
	amount := req.Amount.StringFixed(2)

	// Contract order matters for the request hash.
	ordered := []string{
		c.cfg.APIKey,
		req.OrderID,
		amount,
		req.Currency,
		req.Description,
		req.Name,
		req.Email,
		req.Phone,
		req.City,
		req.Country,
		req.ZipCode,
		c.cfg.ReturnURL,
		c.cfg.ReturnURLFailure,
		c.cfg.ReturnURLCancel,
	}

	fields := map[string]string{
		"api_key":            c.cfg.APIKey,
		"order_id":           req.OrderID,
		"amount":             amount,
		"currency":           req.Currency,
		"description":        req.Description,
		"name":               req.Name,
		"email":              req.Email,
		"phone":              req.Phone,
		"city":               req.City,
		"country":            req.Country,
		"zip_code":           req.ZipCode,
		"return_url":         c.cfg.ReturnURL,
		"return_url_failure": c.cfg.ReturnURLFailure,
		"return_url_cancel":  c.cfg.ReturnURLCancel,
	}
	fields[HashFieldName] = ComputeRequestHash(ordered, c.cfg.Salt)

	return fields
}

// CreatePayment posts the signed field set to the gateway and returns the
// hosted payment page details.
func (c *Client) CreatePayment(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var out CheckoutResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(c.BuildFields(req)).
		SetResult(&out).
		Post("/api/v1/payment/initiate")
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway returned %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}
	if out.PaymentURL == "" {
		return nil, fmt.Errorf("gateway response missing payment_url")
	}

	return &out, nil
}

// NewOrderID derives a gateway-facing order id from the registration id and
// the current time, truncated to the gateway's 30-character limit. Each
// payment attempt gets a fresh id; earlier orders are never reused.
func NewOrderID(registrationID string, now time.Time) string {
	id := fmt.Sprintf("%s_%d", registrationID, now.Unix())
	if len(id) > MaxOrderIDLength {
		id = id[:MaxOrderIDLength]
	}
	return id
}
