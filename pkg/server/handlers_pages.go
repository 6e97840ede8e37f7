package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pardna/paylink/pkg/crm"
)

func (s *Server) getIndex(c echo.Context) error {
	sess, err := s.sessions.Load(c)
	if err != nil {
		return renderError(c, err)
	}

	data := s.pageData()
	data["ItemID"] = sess.Data.ItemID
	data["AccessToken"] = sess.Data.AccessToken
	return c.Render(http.StatusOK, "index.html", data)
}

// getInitPayment starts a payment: the session is regenerated so no
// stale correlation state leaks in, and the CRM record moves to
// payment_pending. The payment itself is created later by
// postInitPayment.
func (s *Server) getInitPayment(c echo.Context) error {
	var transacID string
	binderr := echo.QueryParamsBinder(c).
		MustString("transacid", &transacID).
		BindError()
	if binderr != nil {
		return renderError(c, echo.NewHTTPError(http.StatusBadRequest, binderr.Error()))
	}

	if _, err := s.sessions.Regenerate(c); err != nil {
		return renderError(c, err)
	}

	if _, err := s.crm.UpdateStatus(c.Request().Context(), transacID, crm.StatusPaymentPending); err != nil {
		return renderError(c, err)
	}

	data := s.pageData()
	data["TransacID"] = transacID
	return c.Render(http.StatusOK, "init-payment.html", data)
}

// getConfirmPayment is the OAuth redirect landing page. The session
// is destroyed regardless of outcome.
func (s *Server) getConfirmPayment(c echo.Context) error {
	return s.confirmLanding(c, false)
}

func (s *Server) getOAuthResponse(c echo.Context) error {
	return s.confirmLanding(c, true)
}

func (s *Server) confirmLanding(c echo.Context, withToken bool) error {
	sess, err := s.sessions.Load(c)
	if err != nil {
		s.destroySession(c)
		return renderError(c, err)
	}

	referenceID := sess.Data.ReferenceID
	paymentToken := sess.Data.PaymentToken

	// Destroyed before anything is written so the expired cookie
	// reaches the client even on the error paths.
	s.destroySession(c)

	// A reload after the session is gone must not reach the CRM with
	// an empty reference filter.
	if referenceID == "" {
		return renderError(c, &SessionError{Missing: "referenceId"})
	}

	if _, err := s.crm.UpdateStatus(c.Request().Context(), referenceID, crm.StatusConfirmed); err != nil {
		return renderError(c, err)
	}

	data := s.pageData()
	if withToken {
		data["PaymentToken"] = paymentToken
	}
	return c.Render(http.StatusOK, "confirm-payment.html", data)
}

func (s *Server) destroySession(c echo.Context) {
	if err := s.sessions.Destroy(c); err != nil {
		slog.Error("destroy session", "error", err)
	}
}
