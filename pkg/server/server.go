package server

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pardna/paylink/pkg/config"
	"github.com/pardna/paylink/pkg/crm"
	"github.com/pardna/paylink/pkg/linkapi"
	"github.com/pardna/paylink/pkg/nonce"
	"github.com/pardna/paylink/pkg/session"
)

type Option func(*Server) error

// Server orchestrates the payment-initiation workflow between the
// link API, the CRM and the browser.
type Server struct {
	cfg        *config.Config
	sessions   *session.Manager
	link       *linkapi.Client
	crm        *crm.Bridge
	recipient  config.RecipientPreset
	oauthNonce string
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithSessionManager(m *session.Manager) Option {
	return func(s *Server) error {
		s.sessions = m
		return nil
	}
}

func WithLinkClient(c *linkapi.Client) Option {
	return func(s *Server) error {
		s.link = c
		return nil
	}
}

func WithCRMBridge(b *crm.Bridge) Option {
	return func(s *Server) error {
		s.crm = b
		return nil
	}
}

func WithRecipientPreset(p config.RecipientPreset) Option {
	return func(s *Server) error {
		s.recipient = p
		return nil
	}
}

func NewServer(opts ...Option) (*Server, error) {
	s := &Server{
		recipient: config.DefaultRecipientPreset(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if s.sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if s.link == nil {
		return nil, fmt.Errorf("link client is required")
	}
	if s.crm == nil {
		return nil, fmt.Errorf("CRM bridge is required")
	}

	s.oauthNonce = s.cfg.OAuthNonce
	if s.oauthNonce == "" {
		gen, err := nonce.NewGenerator()
		if err != nil {
			return nil, fmt.Errorf("create nonce generator: %w", err)
		}
		s.oauthNonce, err = gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate oauth nonce: %w", err)
		}
	}

	return s, nil
}

// MountRoutes registers every endpoint on e.
func (s *Server) MountRoutes(e *echo.Echo) {
	e.Use(
		middleware.Recover(),
		middleware.Logger(),
		ErrorLogMiddleware,
	)

	// page endpoints
	e.GET("/", s.getIndex)
	e.GET("/init-payment.html", s.getInitPayment)
	e.GET("/confirm-payment.html", s.getConfirmPayment)
	e.GET("/oauth-response.html", s.getOAuthResponse)

	// simple item demo flow
	e.POST("/get_access_token", s.postGetAccessToken)
	e.GET("/identity", s.getIdentity)
	e.GET("/auth", s.getAuth)
	e.GET("/payment_get", s.getPayment)
	e.POST("/set_access_token", s.postSetAccessToken)
	e.POST("/set_payment_token", s.postSetPaymentToken)
	e.POST("/payment_recipient", s.postPaymentRecipient)
	e.GET("/recipients", s.getRecipients)

	// payment initiation workflow
	e.POST("/init_payment", s.postInitPayment)
	e.POST("/update_payment", s.postUpdatePayment)
	e.POST("/finish_payment", s.postFinishPayment)
}

// pageData is the template payload shared by the Link pages.
func (s *Server) pageData() map[string]any {
	return map[string]any{
		"LinkPublicKey":    s.cfg.LinkPublicKey,
		"LinkEnv":          s.cfg.Environment,
		"LinkProducts":     strings.Join(s.cfg.Products, ","),
		"LinkCountryCodes": strings.Join(s.cfg.CountryCodes, ","),
		"OAuthRedirectURI": s.cfg.OAuthRedirectURI,
		"OAuthNonce":       s.oauthNonce,
	}
}
