package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mfakit/modules/mfa"
	"github.com/dmitrymomot/mfakit/pkg/authgate"
	"github.com/dmitrymomot/mfakit/pkg/config"
	"github.com/dmitrymomot/mfakit/pkg/credstore"
	"github.com/dmitrymomot/mfakit/pkg/enrollment"
	"github.com/dmitrymomot/mfakit/pkg/httpserver"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/pg"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

type appConfig struct {
	Issuer        string `env:"MFA_ISSUER,required"`               // Issuer is the service name authenticator apps display.
	JWTSigningKey string `env:"JWT_SIGNING_KEY,required"`          // JWTSigningKey verifies bearer tokens from the identity provider.
	SecretLength  int    `env:"MFA_SECRET_LENGTH" envDefault:"20"` // SecretLength is the issued secret size in bytes.
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg   appConfig
		logCfg   logger.Config
		httpCfg  httpserver.Config
		pgCfg    pg.Config
		storeCfg credstore.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&storeCfg)

	log := logger.New(logCfg,
		logger.WithAttr(slog.String("service", "mfakit")),
		logger.WithContextExtractors(authgate.LoggerExtractor()),
	)
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	storeOpts := []credstore.PostgresOption{}
	if storeCfg.EncryptionKey != "" {
		key, err := totp.DecodeEncryptionKey(storeCfg.EncryptionKey)
		if err != nil {
			return err
		}
		storeOpts = append(storeOpts, credstore.WithEncryptionKey(key))
	}
	store, err := credstore.NewPostgres(pool, storeOpts...)
	if err != nil {
		return err
	}

	coordinator, err := enrollment.NewService(store, appCfg.Issuer,
		enrollment.WithSecretLength(appCfg.SecretLength),
		enrollment.WithLogger(log),
	)
	if err != nil {
		return err
	}

	tokens, err := authgate.NewJWTValidator([]byte(appCfg.JWTSigningKey))
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method("GET", "/healthz", httpserver.Healthcheck(pg.Healthcheck(pool)))
	r.Mount("/mfa", mfa.NewService(coordinator, tokens).Handle())

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
