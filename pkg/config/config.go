package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pardna/paylink/pkg/util"
)

// Config holds the full server configuration, sourced from the
// environment. Credentials for the two upstreams are mandatory,
// everything else has a usable default.
type Config struct {
	Addr          string `validate:"required"`
	Environment   string `validate:"required,oneof=sandbox development production"`
	SessionSecret string `validate:"required,min=16"`
	SessionStore  string `validate:"required,oneof=memory redis"`
	RedisAddr     string `validate:"required_if=SessionStore redis"`
	SessionMaxAge time.Duration

	CRMBaseURL   string `validate:"required,url"`
	CRMAuthToken string `validate:"required"`

	LinkClientID  string `validate:"required"`
	LinkSecret    string `validate:"required"`
	LinkPublicKey string `validate:"required"`
	LinkBaseURL   string `validate:"omitempty,url"`

	Products     []string `validate:"required,min=1"`
	CountryCodes []string `validate:"required,min=1"`

	OAuthRedirectURI string `validate:"required,url"`
	// OAuthNonce re-opens Link after the OAuth redirect. When left
	// empty a nonce is generated at startup.
	OAuthNonce string `validate:"omitempty,min=16"`

	RecipientPresetPath string
}

// Load reads the configuration from the environment, applying a
// .env file first when one is present.
func Load() (*Config, error) {
	godotenv.Load()

	maxAge, err := time.ParseDuration(util.GetEnv("SESSION_MAX_AGE", "100m"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_MAX_AGE: %w", err)
	}

	config := &Config{
		Addr:                ":" + util.GetEnv("PORT", "8000"),
		Environment:         util.GetEnv("LINK_ENV", "sandbox"),
		SessionSecret:       util.GetEnv("APP_SECRET_SESSION", ""),
		SessionStore:        util.GetEnv("SESSION_STORE", "memory"),
		RedisAddr:           util.GetEnv("REDIS_ADDR", ""),
		SessionMaxAge:       maxAge,
		CRMBaseURL:          util.GetEnv("CRM_BASE_URL", "https://creator.zoho.com/api"),
		CRMAuthToken:        util.GetEnv("CRM_ACCESS_TOKEN", ""),
		LinkClientID:        util.GetEnv("LINK_CLIENT_ID", ""),
		LinkSecret:          util.GetEnv("LINK_SECRET", ""),
		LinkPublicKey:       util.GetEnv("LINK_PUBLIC_KEY", ""),
		LinkBaseURL:         util.GetEnv("LINK_BASE_URL", ""),
		Products:            splitList(util.GetEnv("LINK_PRODUCTS", "transactions")),
		CountryCodes:        splitList(util.GetEnv("LINK_COUNTRY_CODES", "GB")),
		OAuthRedirectURI:    util.GetEnv("LINK_OAUTH_REDIRECT_URI", "http://localhost:8000/confirm-payment.html"),
		OAuthNonce:          util.GetEnv("LINK_OAUTH_NONCE", ""),
		RecipientPresetPath: util.GetEnv("RECIPIENT_PRESET_PATH", ""),
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
