package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"acebook/internal/infra/config"
	"acebook/internal/infra/logging"
	"acebook/internal/infra/transport/http"
	"acebook/internal/repo/post"
	"acebook/internal/repo/user"
	"acebook/internal/svc/authsvc"
	"acebook/internal/svc/feedsvc"
)

const (
	appName = "acebook"
	svcName = "feedsvc"
)

type Config struct {
	config.EnvConfig

	Log   logging.LoggerConfig            `envPrefix:"LOG_"`
	HTTP  http.HTTPTransportConfig        `envPrefix:"HTTP_"`
	Token authsvc.TokenConfig             `envPrefix:"TOKEN_"`
	Auth  authsvc.AuthConfig              `envPrefix:"AUTH_"`
	User  user.SQLiteUserRepositoryConfig `envPrefix:"USER_"`
	Post  post.BadgerPostRepositoryConfig `envPrefix:"POST_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	_ = godotenv.Load()

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.feedsvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	tokenSvc := authsvc.NewTokenService(cfg.Token)

	authSvc, err := authsvc.NewAuthService(
		user.SQLiteUserRepositoryFactory(cfg.User),
		tokenSvc,
		cfg.Auth,
	)
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}
	defer authSvc.Close()

	feedSvc, err := feedsvc.NewFeedService(
		post.BadgerPostRepositoryFactory(cfg.Post),
	)
	if err != nil {
		return fmt.Errorf("new feed service: %w", err)
	}
	defer feedSvc.Close()

	router := chi.NewRouter()
	router.Mount("/", authsvc.NewHTTPTransport(authSvc))
	router.Mount("/posts", feedsvc.NewHTTPTransport(feedSvc, tokenSvc))

	if err := http.ListenAndServe(ctx, router, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
