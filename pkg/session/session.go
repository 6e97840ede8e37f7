package session

// Data is the correlation state a session carries between the
// payment-initiation endpoints. All fields are optional; a zero Data
// is a fresh session.
type Data struct {
	// ReferenceID correlates the session with the CRM payment record.
	ReferenceID string `json:"reference_id,omitempty"`
	// PaymentID and PaymentToken identify the in-flight payment at
	// the link API.
	PaymentID    string `json:"payment_id,omitempty"`
	PaymentToken string `json:"payment_token,omitempty"`
	// AccessToken and ItemID are set after a public token exchange.
	// Held in the session only; lost on expiry.
	AccessToken string `json:"access_token,omitempty"`
	ItemID      string `json:"item_id,omitempty"`
}
