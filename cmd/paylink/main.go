package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/pardna/paylink/pkg/config"
	"github.com/pardna/paylink/pkg/crm"
	"github.com/pardna/paylink/pkg/linkapi"
	"github.com/pardna/paylink/pkg/server"
	"github.com/pardna/paylink/pkg/session"
	"github.com/pardna/paylink/pkg/util"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var store session.Store
	switch cfg.SessionStore {
	case "redis":
		store, err = session.NewRedisStore(cfg.RedisAddr, cfg.SessionMaxAge)
		if err != nil {
			log.Fatal(err)
		}
	default:
		store = session.NewMemoryStore()
	}

	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionMaxAge, cfg.Environment == "production")

	link, err := linkapi.NewClient(linkapi.ClientConfig{
		Environment: linkapi.NewEnvironment(cfg.Environment),
		ClientID:    cfg.LinkClientID,
		Secret:      cfg.LinkSecret,
		PublicKey:   cfg.LinkPublicKey,
		BaseURL:     cfg.LinkBaseURL,
	})
	if err != nil {
		log.Fatal(err)
	}

	bridge, err := crm.NewBridge(cfg.CRMBaseURL, cfg.CRMAuthToken)
	if err != nil {
		log.Fatal(err)
	}

	recipient, err := config.LoadRecipientPreset(cfg.RecipientPresetPath)
	if err != nil {
		log.Fatal(err)
	}

	srv, err := server.NewServer(
		server.WithConfig(cfg),
		server.WithSessionManager(sessions),
		server.WithLinkClient(link),
		server.WithCRMBridge(bridge),
		server.WithRecipientPreset(*recipient),
	)
	if err != nil {
		log.Fatal(err)
	}

	renderer, err := server.NewRenderer(util.GetEnv("TEMPLATES_GLOB", "templates/*.html"))
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Validator = server.NewCustomValidator()
	e.Renderer = renderer
	e.JSONSerializer = server.JSONSerializer{}
	e.Static("/", "public")

	srv.MountRoutes(e)

	slog.Info("paylink server listening", "addr", cfg.Addr, "env", cfg.Environment)
	e.Logger.Fatal(e.Start(cfg.Addr))
}
