package linkapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ClientConfig of the bank-data API client.
type ClientConfig struct {
	Environment Environment
	ClientID    string
	Secret      string
	PublicKey   string
	// BaseURL overrides the environment base URL, used in tests.
	BaseURL string
}

// Client is a thin wrapper over the bank-data API. Every operation is
// a single remote call; failures surface directly as a typed *Error,
// no retries.
type Client struct {
	config     ClientConfig
	baseURL    string
	httpClient http.Client
}

func NewClient(config ClientConfig) (*Client, error) {
	if config.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if config.Secret == "" {
		return nil, fmt.Errorf("secret is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = config.Environment.BaseURL()
	}

	return &Client{
		config:  config,
		baseURL: baseURL,
	}, nil
}

// Environment reports which upstream environment the client targets.
func (c *Client) Environment() Environment {
	return c.config.Environment
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*TokenExchange, error) {
	var out TokenExchange
	err := c.post(ctx, "/item/public_token/exchange", exchangeRequest{
		ClientID:    c.config.ClientID,
		Secret:      c.config.Secret,
		PublicToken: publicToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetItem(ctx context.Context, accessToken string) (*Item, error) {
	var out itemResponse
	err := c.post(ctx, "/item/get", accessTokenRequest{
		ClientID:    c.config.ClientID,
		Secret:      c.config.Secret,
		AccessToken: accessToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// GetIdentity returns the raw identity document for an item. The
// payload shape is owned by the upstream and proxied through.
func (c *Client) GetIdentity(ctx context.Context, accessToken string) (RawDocument, error) {
	return c.postRaw(ctx, "/identity/get", accessTokenRequest{
		ClientID:    c.config.ClientID,
		Secret:      c.config.Secret,
		AccessToken: accessToken,
	})
}

// GetAuth returns the raw auth (account/routing) document for an item.
func (c *Client) GetAuth(ctx context.Context, accessToken string) (RawDocument, error) {
	return c.postRaw(ctx, "/auth/get", accessTokenRequest{
		ClientID:    c.config.ClientID,
		Secret:      c.config.Secret,
		AccessToken: accessToken,
	})
}

func (c *Client) CreatePaymentRecipient(ctx context.Context, name, iban string, address Address) (string, error) {
	var out recipientCreateResponse
	err := c.post(ctx, "/payment_initiation/recipient/create", recipientCreateRequest{
		ClientID: c.config.ClientID,
		Secret:   c.config.Secret,
		Name:     name,
		IBAN:     iban,
		Address:  address,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.RecipientID, nil
}

func (c *Client) ListPaymentRecipients(ctx context.Context) ([]Recipient, error) {
	var out recipientListResponse
	err := c.post(ctx, "/payment_initiation/recipient/list", recipientListRequest{
		ClientID: c.config.ClientID,
		Secret:   c.config.Secret,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Recipients, nil
}

func (c *Client) CreatePayment(ctx context.Context, recipientID, reference string, currency string, value decimal.Decimal) (string, error) {
	var out paymentCreateResponse
	err := c.post(ctx, "/payment_initiation/payment/create", paymentCreateRequest{
		ClientID:    c.config.ClientID,
		Secret:      c.config.Secret,
		RecipientID: recipientID,
		Reference:   reference,
		Amount:      Amount{Currency: currency, Value: value},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.PaymentID, nil
}

func (c *Client) CreatePaymentToken(ctx context.Context, paymentID string) (*PaymentToken, error) {
	var out PaymentToken
	err := c.post(ctx, "/payment_initiation/payment/token/create", paymentTokenRequest{
		ClientID:  c.config.ClientID,
		Secret:    c.config.Secret,
		PaymentID: paymentID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment returns the raw payment status document.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (RawDocument, error) {
	return c.postRaw(ctx, "/payment_initiation/payment/get", paymentGetRequest{
		ClientID:  c.config.ClientID,
		Secret:    c.config.Secret,
		PaymentID: paymentID,
	})
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := c.postRaw(ctx, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) postRaw(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, resp.Body)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	return raw, nil
}
