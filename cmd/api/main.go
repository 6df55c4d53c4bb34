package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"carelink/internal/adapter/api"
	"carelink/internal/adapter/api/handler"
	apimiddleware "carelink/internal/adapter/api/middleware"
	"carelink/internal/adapter/api/router"
	"carelink/internal/adapter/repository"
	"carelink/internal/domain/service"
	"carelink/internal/infrastructure/auth"
	"carelink/internal/infrastructure/websocket"
	"carelink/internal/usecase"
	"carelink/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirestoreProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	appointmentRepo := repository.NewFirestoreAppointmentRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)

	verifier := auth.NewVerifier(cfg.JWTSecret)
	policy := service.NewAccessPolicy(cfg.PolicyAllowUnmatched)

	wsManager := websocket.NewManager()

	conversationUseCase := usecase.NewConversationUseCase(
		appointmentRepo,
		conversationRepo,
		messageRepo,
		policy,
		wsManager,
	)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)

	healthHandler := handler.NewHealthHandler()
	conversationHandler := handler.NewConversationHandler(conversationUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, verifier, conversationUseCase)

	router.Setup(e, healthHandler, conversationHandler, wsHandler, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
