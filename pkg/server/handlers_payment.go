package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pardna/paylink/pkg/crm"
	"github.com/pardna/paylink/pkg/linkapi"
)

type initPaymentRequest struct {
	TransacID string `json:"transacId" validate:"required"`
}

// postInitPayment creates the payment chain for a CRM record that is
// still payment_pending. The status check is what stops a page
// refresh from paying twice; it is best effort, the CRM has no
// compare-and-swap.
func (s *Server) postInitPayment(c echo.Context) error {
	var req initPaymentRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, err)
	}

	ctx := c.Request().Context()

	record, err := s.crm.FetchPaymentRecord(ctx, req.TransacID)
	if err != nil {
		return jsonError(c, err)
	}

	if record.Status != crm.StatusPaymentPending {
		return jsonError(c, ErrAlreadyConfirmed)
	}

	recipientID := record.RecipientID
	if recipientID == "" {
		recipientID, err = s.link.CreatePaymentRecipient(ctx, s.recipient.Name, s.recipient.IBAN, linkapi.Address{
			Street:     s.recipient.Address.Street,
			City:       s.recipient.Address.City,
			PostalCode: s.recipient.Address.PostalCode,
			Country:    s.recipient.Address.Country,
		})
		if err != nil {
			return jsonError(c, err)
		}
	}

	paymentID, err := s.link.CreatePayment(ctx, recipientID, record.ReferenceID, record.Currency, record.Amount)
	if err != nil {
		return jsonError(c, err)
	}

	token, err := s.link.CreatePaymentToken(ctx, paymentID)
	if err != nil {
		return jsonError(c, err)
	}

	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}
	sess.Data.ReferenceID = record.ReferenceID
	sess.Data.PaymentID = paymentID
	sess.Data.PaymentToken = token.PaymentToken
	if err := sess.Save(ctx); err != nil {
		return jsonError(c, err)
	}

	// Move the record off payment_pending so a reload cannot create a
	// second payment for the same reference.
	if _, err := s.crm.UpdateStatus(ctx, record.ReferenceID, crm.StatusConfirmed); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"paymentToken": token.PaymentToken})
}

type updatePaymentRequest struct {
	EventName string `json:"eventName"`
	ErrorCode int    `json:"errorCode"`
}

// postUpdatePayment records a client-side Link failure in the CRM.
// Anything that is not an error event is a no-op success.
func (s *Server) postUpdatePayment(c echo.Context) error {
	var req updatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, err)
	}

	if req.EventName != "ERROR" && req.ErrorCode == 0 {
		return c.JSON(http.StatusOK, map[string]any{})
	}

	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}
	if sess.Data.ReferenceID == "" {
		return jsonError(c, &SessionError{Missing: "referenceId"})
	}

	if _, err := s.crm.UpdateStatus(c.Request().Context(), sess.Data.ReferenceID, crm.StatusError); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{})
}

type finishPaymentRequest struct {
	PublicToken string         `json:"public_token" validate:"required"`
	Metadata    map[string]any `json:"metadata"`
}

// postFinishPayment exchanges the public token from the completed
// Link flow and marks the CRM record confirmed.
func (s *Server) postFinishPayment(c echo.Context) error {
	var req finishPaymentRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, err)
	}

	ctx := c.Request().Context()

	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}
	if sess.Data.ReferenceID == "" {
		return jsonError(c, &SessionError{Missing: "referenceId"})
	}

	exchange, err := s.link.ExchangePublicToken(ctx, req.PublicToken)
	if err != nil {
		return jsonError(c, err)
	}

	sess.Data.AccessToken = exchange.AccessToken
	if err := sess.Save(ctx); err != nil {
		return jsonError(c, err)
	}

	if _, err := s.crm.UpdateStatus(ctx, sess.Data.ReferenceID, crm.StatusConfirmed); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"access_token": exchange.AccessToken})
}
