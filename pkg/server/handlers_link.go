package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pardna/paylink/pkg/linkapi"
	"github.com/shopspring/decimal"
)

// Handlers for the simple item demo flow. State lives in the
// caller's session, never in process globals, so two browser tabs
// cannot clobber each other's tokens.

type getAccessTokenRequest struct {
	PublicToken string `json:"public_token" validate:"required"`
}

func (s *Server) postGetAccessToken(c echo.Context) error {
	var req getAccessTokenRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, err)
	}

	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}

	exchange, err := s.link.ExchangePublicToken(c.Request().Context(), req.PublicToken)
	if err != nil {
		return jsonError(c, err)
	}

	sess.Data.AccessToken = exchange.AccessToken
	sess.Data.ItemID = exchange.ItemID
	if err := sess.Save(c.Request().Context()); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"access_token": exchange.AccessToken,
		"item_id":      exchange.ItemID,
	})
}

func (s *Server) getIdentity(c echo.Context) error {
	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}
	if sess.Data.AccessToken == "" {
		return jsonError(c, &SessionError{Missing: "accessToken"})
	}

	identity, err := s.link.GetIdentity(c.Request().Context(), sess.Data.AccessToken)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"identity": identity})
}

func (s *Server) getAuth(c echo.Context) error {
	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}
	if sess.Data.AccessToken == "" {
		return jsonError(c, &SessionError{Missing: "accessToken"})
	}

	auth, err := s.link.GetAuth(c.Request().Context(), sess.Data.AccessToken)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"auth": auth})
}

func (s *Server) getPayment(c echo.Context) error {
	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}
	if sess.Data.PaymentID == "" {
		return jsonError(c, &SessionError{Missing: "paymentId"})
	}

	payment, err := s.link.GetPayment(c.Request().Context(), sess.Data.PaymentID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"payment": payment})
}

type setAccessTokenRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

func (s *Server) postSetAccessToken(c echo.Context) error {
	var req setAccessTokenRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, err)
	}

	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}

	item, err := s.link.GetItem(c.Request().Context(), req.AccessToken)
	if err != nil {
		return jsonError(c, err)
	}

	sess.Data.AccessToken = req.AccessToken
	sess.Data.ItemID = item.ItemID
	if err := sess.Save(c.Request().Context()); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"item_id": item.ItemID})
}

// demoAmount is the fixed sandbox payment used by the token demo.
var demoAmount = decimal.RequireFromString("12.34")

// postSetPaymentToken creates a full recipient → payment → token
// chain against the preset recipient so the demo needs no input.
func (s *Server) postSetPaymentToken(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.sessions.Load(c)
	if err != nil {
		return jsonError(c, err)
	}

	recipientID, err := s.link.CreatePaymentRecipient(ctx, s.recipient.Name, s.recipient.IBAN, linkapi.Address{
		Street:     s.recipient.Address.Street,
		City:       s.recipient.Address.City,
		PostalCode: s.recipient.Address.PostalCode,
		Country:    s.recipient.Address.Country,
	})
	if err != nil {
		return jsonError(c, err)
	}

	reference := "demo-" + uuid.NewString()[:8]
	paymentID, err := s.link.CreatePayment(ctx, recipientID, reference, "GBP", demoAmount)
	if err != nil {
		return jsonError(c, err)
	}

	token, err := s.link.CreatePaymentToken(ctx, paymentID)
	if err != nil {
		return jsonError(c, err)
	}

	sess.Data.PaymentID = paymentID
	sess.Data.PaymentToken = token.PaymentToken
	if err := sess.Save(ctx); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"paymentToken": token.PaymentToken})
}

type paymentRecipientRequest struct {
	Name    string `json:"name" validate:"required"`
	IBAN    string `json:"iban" validate:"required"`
	Address struct {
		Street     []string `json:"street" validate:"required,min=1"`
		City       string   `json:"city" validate:"required"`
		PostalCode string   `json:"postal_code" validate:"required"`
		Country    string   `json:"country" validate:"required"`
	} `json:"address"`
}

func (s *Server) postPaymentRecipient(c echo.Context) error {
	var req paymentRecipientRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, err)
	}

	recipientID, err := s.link.CreatePaymentRecipient(c.Request().Context(), req.Name, req.IBAN, linkapi.Address{
		Street:     req.Address.Street,
		City:       req.Address.City,
		PostalCode: req.Address.PostalCode,
		Country:    req.Address.Country,
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"recipient": map[string]any{"recipient_id": recipientID},
	})
}

// getRecipients is only served in the sandbox environment.
func (s *Server) getRecipients(c echo.Context) error {
	if s.link.Environment() != linkapi.EnvironmentSandbox {
		return jsonError(c, ErrNotFound)
	}

	recipients, err := s.link.ListPaymentRecipients(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"recipients": recipients})
}
