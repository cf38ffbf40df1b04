package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/dosalabel/internal/api"
	"github.com/terraincognita07/dosalabel/internal/cli"
	"github.com/terraincognita07/dosalabel/internal/config"
	"github.com/terraincognita07/dosalabel/internal/i18n"
	"github.com/terraincognita07/dosalabel/internal/security"
	"github.com/terraincognita07/dosalabel/internal/services"
)

const (
	csrfCookieName = "dosalabel_csrf"
	csrfFormField  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

var errMissingCSRFToken = errors.New("missing csrf token")

type ServeCmd struct{}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	secretKey, ephemeral, err := resolveSecretKey(cfg.Auth.SecretKey)
	if err != nil {
		return err
	}
	if ephemeral {
		ctx.Logger.Warn("SECRET_KEY is not set; sessions will not survive a restart")
	}

	server, err := newServer(ctx, secretKey)
	if err != nil {
		return err
	}
	defer server.close()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.app.ShutdownWithContext(shutdownCtx); err != nil {
			ctx.Logger.Error("server shutdown failed", "err", err)
		}
	}()

	ctx.Logger.Info("dosalabel listening",
		"addr", cfg.Server.Addr(),
		"storage", cfg.Storage.Backend,
		"tz", cfg.Server.Timezone,
		"login", cfg.Auth.LoginEnabled(),
	)
	if err := server.app.Listen(cfg.Server.Addr()); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

type server struct {
	app   *fiber.App
	close func() error
}

func newServer(ctx *cli.Context, secretKey string) (*server, error) {
	cfg := ctx.Config
	location, err := ctx.Location()
	if err != nil {
		return nil, err
	}

	repositories, err := ctx.OpenStore(context.Background())
	if err != nil {
		return nil, err
	}

	i18nManager, err := i18n.NewManager(cfg.Server.DefaultLanguage, cfg.Server.LocalesDir)
	if err != nil {
		_ = repositories.Close()
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	labels := ctx.NewLabelService(repositories.States, location)
	handler, err := api.NewHandler(api.HandlerOptions{
		Labels: labels,
		Dictation: services.NewDictationService(labels, services.DictationOptions{
			SilenceTimeout: cfg.Dictation.SilenceTimeout,
			Logger:         ctx.Logger.WithPrefix("dictation"),
		}),
		Operators:               services.NewOperatorAuthService(cfg.Auth.OperatorEmail, cfg.Auth.OperatorPasswordHash),
		SecretKey:               secretKey,
		TemplatesDir:            cfg.Server.TemplatesDir,
		Location:                location,
		I18n:                    i18nManager,
		Logger:                  ctx.Logger,
		CookieSecure:            cfg.Server.CookieSecure,
		SessionTTL:              cfg.Auth.SessionTTL,
		Clinic:                  cfg.Clinic.Identity(),
		DictationLocale:         cfg.Dictation.Locale,
		DictationSilenceTimeout: cfg.Dictation.SilenceTimeout,
		LoginMaxAttempts:        cfg.Auth.LoginMaxAttempts,
		LoginAttemptWindow:      cfg.Auth.LoginAttemptWindow,
	})
	if err != nil {
		_ = repositories.Close()
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Dosalabel",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(requestLoggerConfig(ctx.Logger)))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.Server.CookieSecure)))

	app.Static("/static", cfg.Server.StaticDir)
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	return &server{app: app, close: repositories.Close}, nil
}

// resolveSecretKey rejects placeholder or short keys. An empty key yields a
// random per-process key; ephemeral reports that case.
func resolveSecretKey(raw string) (secret string, ephemeral bool, err error) {
	secret = strings.TrimSpace(raw)
	if err := config.ValidateSecretKey(secret, true); err != nil {
		return "", false, fmt.Errorf("SECRET_KEY: %w", err)
	}
	if secret != "" {
		return secret, false, nil
	}

	generated, err := security.NewSecretKey()
	if err != nil {
		return "", false, err
	}
	return generated, true, nil
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:" + csrfFormField,
		Extractor:      csrfTokenExtractor,
		CookieName:     csrfCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

// csrfTokenExtractor accepts the header sent by fetch and HTMX calls, then
// falls back to the hidden form field.
func csrfTokenExtractor(c *fiber.Ctx) (string, error) {
	if token := strings.TrimSpace(c.Get(csrfHeaderName)); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(c.FormValue(csrfFormField)); token != "" {
		return token, nil
	}
	return "", errMissingCSRFToken
}

func requestLoggerConfig(logger *log.Logger) fiberlogger.Config {
	return fiberlogger.Config{
		Format:     "${status} ${method} ${path} ${latency}\n",
		TimeFormat: "15:04:05",
		Output: logger.WithPrefix("request").StandardLog(log.StandardLogOptions{
			ForceLevel: log.InfoLevel,
		}).Writer(),
	}
}
