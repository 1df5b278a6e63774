package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"user-auth-api/internal/config"
	"user-auth-api/internal/handler"
	"user-auth-api/internal/repository"
	"user-auth-api/internal/usecase"
	"user-auth-api/shared/auth"
	"user-auth-api/shared/mailer"
	"user-auth-api/shared/mongodb"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.New(&logger)

	ctx := context.Background()

	client, err := mongodb.Connect(ctx, cfg.MongoDBURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	logger.Info().Msg("MongoDB is connected")

	db := client.Database(cfg.DatabaseName)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	jwtAuth := auth.NewJWTAuthenticator()
	smtpMailer := mailer.NewMailer(&logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth, smtpMailer, cfg, &logger)
	authHandler := handler.NewAuthHandler(authUsecase, &logger)
	authMiddleware := handler.AuthMiddleware(jwtAuth, cfg.Token.AccessTokenSecret)

	router := handler.NewRouter(authHandler, authMiddleware, cfg.FrontendURL, &logger)

	logger.Info().Str("port", cfg.Port).Msg("starting HTTP server")

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
