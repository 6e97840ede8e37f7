package linkapi

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Address of a payment recipient.
type Address struct {
	Street     []string `json:"street"`
	City       string   `json:"city"`
	PostalCode string   `json:"postal_code"`
	Country    string   `json:"country"`
}

// Amount of a payment. Value is decimal to keep "12.34" exact.
type Amount struct {
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

// TokenExchange is the result of exchanging a Link public token.
type TokenExchange struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type Item struct {
	ItemID            string   `json:"item_id"`
	InstitutionID     string   `json:"institution_id,omitempty"`
	AvailableProducts []string `json:"available_products,omitempty"`
	BilledProducts    []string `json:"billed_products,omitempty"`
}

type Recipient struct {
	RecipientID string   `json:"recipient_id"`
	Name        string   `json:"name"`
	IBAN        string   `json:"iban"`
	Address     *Address `json:"address,omitempty"`
}

type PaymentToken struct {
	PaymentToken string `json:"payment_token"`
	Expiration   string `json:"payment_token_expiration_time,omitempty"`
}

// request bodies

type exchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
}

type accessTokenRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
}

type recipientCreateRequest struct {
	ClientID string  `json:"client_id"`
	Secret   string  `json:"secret"`
	Name     string  `json:"name"`
	IBAN     string  `json:"iban"`
	Address  Address `json:"address"`
}

type recipientListRequest struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type paymentCreateRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	RecipientID string `json:"recipient_id"`
	Reference   string `json:"reference"`
	Amount      Amount `json:"amount"`
}

type paymentTokenRequest struct {
	ClientID  string `json:"client_id"`
	Secret    string `json:"secret"`
	PaymentID string `json:"payment_id"`
}

type paymentGetRequest struct {
	ClientID  string `json:"client_id"`
	Secret    string `json:"secret"`
	PaymentID string `json:"payment_id"`
}

// response bodies

type itemResponse struct {
	Item      Item   `json:"item"`
	RequestID string `json:"request_id"`
}

type recipientCreateResponse struct {
	RecipientID string `json:"recipient_id"`
	RequestID   string `json:"request_id"`
}

type recipientListResponse struct {
	Recipients []Recipient `json:"recipients"`
	RequestID  string      `json:"request_id"`
}

type paymentCreateResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
}

// RawDocument is an upstream payload proxied through unchanged, such
// as identity or auth data.
type RawDocument = json.RawMessage
