package crm

import "github.com/shopspring/decimal"

// Status of a payment record.
type Status string

const (
	StatusPaymentPending Status = "payment_pending"
	StatusConfirmed      Status = "confirmed"
	StatusError          Status = "error"
)

// PaymentRecord is the CRM's view of a payment, keyed by reference
// id. The CRM is the single source of truth for whether a payment has
// already been processed.
type PaymentRecord struct {
	ReferenceID string
	RecipientID string
	Status      Status
	Currency    string
	Amount      decimal.Decimal
}
