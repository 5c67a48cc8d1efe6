package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"famtree/internal/auth"
	"famtree/internal/config"
	"famtree/internal/handler"
	"famtree/internal/imaging"
	"famtree/internal/middleware"
	"famtree/internal/repository/postgres"
	"famtree/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	logger.Info("database connected")

	// Image storage on local disk
	store, err := imaging.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to create upload directories: %v", err)
	}

	// Token service for issuing and verifying bearer tokens
	tokenService := auth.NewHMACTokenService(cfg.JWTSecret, logger)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	tenantRepo := postgres.NewTenantRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	activityRepo := postgres.NewUserActivityRepository(repoConfig)
	forestRepo := postgres.NewForestRepository(repoConfig)
	forestMemberRepo := postgres.NewForestMemberRepository(repoConfig)
	treeRepo := postgres.NewTreeRepository(repoConfig)
	treeMemberRepo := postgres.NewTreeMemberRepository(repoConfig)
	personRepo := postgres.NewPersonRepository(repoConfig)
	relRepo := postgres.NewRelationshipRepository(repoConfig)
	imageRepo := postgres.NewPersonImageRepository(repoConfig)
	eventRepo := postgres.NewLifeEventRepository(repoConfig)
	storyRepo := postgres.NewStoryRepository(repoConfig)
	invRepo := postgres.NewInvitationRepository(repoConfig)
	taskRepo := postgres.NewAITaskRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	authService := service.NewAuthService(tenantRepo, userRepo, txManager, tokenService, logger)
	forestService := service.NewForestService(forestRepo, forestMemberRepo, txManager, logger)
	treeService := service.NewTreeService(treeRepo, treeMemberRepo, forestRepo, personRepo, relRepo, imageRepo, eventRepo, storyRepo, txManager, logger)
	personService := service.NewPersonService(personRepo, imageRepo, relRepo, eventRepo, storyRepo, treeRepo, txManager, store, logger)
	relService := service.NewRelationshipService(relRepo, personRepo, logger)
	eventService := service.NewLifeEventService(eventRepo, personRepo, logger)
	storyService := service.NewStoryService(storyRepo, logger)
	invService := service.NewInvitationService(invRepo, forestMemberRepo, treeMemberRepo, txManager, logger)
	taskService := service.NewAITaskService(taskRepo, logger)
	statsService := service.NewStatsService(forestRepo, treeRepo, personRepo, relRepo, activityRepo, store, logger)
	exportService := service.NewExportService(forestRepo, treeRepo, personRepo, relRepo, store, logger)
	importService := service.NewImportService(forestRepo, forestMemberRepo, treeRepo, treeMemberRepo, personRepo, relRepo, txManager, store, logger)
	packageService := service.NewPackageService(forestRepo, treeRepo, treeMemberRepo, personRepo, relRepo, imageRepo, eventRepo, storyRepo, txManager, store, logger)

	// Create handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	forestHandler := handler.NewForestHandler(forestService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	personHandler := handler.NewPersonHandler(personService, logger)
	relHandler := handler.NewRelationshipHandler(relService, logger)
	recordsHandler := handler.NewRecordsHandler(eventService, storyService, invService, taskService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)
	exportHandler := handler.NewExportHandler(exportService, importService, logger)
	packageHandler := handler.NewPackageHandler(packageService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /api/health", handler.Health)

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/me", authHandler.Me)
	mux.HandleFunc("POST /api/tenants", authHandler.CreateTenant)

	// Forest routes
	mux.HandleFunc("GET /api/forests", forestHandler.List)
	mux.HandleFunc("POST /api/forests", forestHandler.Create)
	mux.HandleFunc("POST /api/forests/import", exportHandler.ImportForest)
	mux.HandleFunc("GET /api/forests/{id}", forestHandler.Get)
	mux.HandleFunc("PUT /api/forests/{id}", forestHandler.Rename)
	mux.HandleFunc("GET /api/forests/{id}/export", exportHandler.ExportForest)
	mux.HandleFunc("POST /api/forests/{id}/import-famtree-new", packageHandler.ImportAsNewTree)

	// Tree routes
	mux.HandleFunc("GET /api/trees", treeHandler.List)
	mux.HandleFunc("POST /api/trees", treeHandler.Create)
	mux.HandleFunc("POST /api/trees/import", exportHandler.ImportTree)
	mux.HandleFunc("GET /api/trees/{id}", treeHandler.Get)
	mux.HandleFunc("PUT /api/trees/{id}", treeHandler.Rename)
	mux.HandleFunc("DELETE /api/trees/{id}", treeHandler.Delete)
	mux.HandleFunc("GET /api/trees/{id}/export", exportHandler.ExportTree)
	mux.HandleFunc("GET /api/trees/{id}/export-famtree", packageHandler.Export)
	mux.HandleFunc("POST /api/trees/{id}/import-famtree", packageHandler.ImportIntoTree)

	// Person routes
	mux.HandleFunc("GET /api/people", personHandler.List)
	mux.HandleFunc("POST /api/people", personHandler.Create)
	mux.HandleFunc("PUT /api/people/{id}", personHandler.Update)
	mux.HandleFunc("DELETE /api/people/{id}", personHandler.Delete)
	mux.HandleFunc("POST /api/people/{id}/photo", personHandler.UploadPhoto)
	mux.HandleFunc("GET /api/people/{id}/images", personHandler.ListImages)
	mux.HandleFunc("PUT /api/people/{personId}/images/{imageId}/primary", personHandler.SetPrimaryImage)
	mux.HandleFunc("DELETE /api/people/{personId}/images/{imageId}", personHandler.DeleteImage)
	mux.HandleFunc("DELETE /api/people/{id}/photo", personHandler.DeleteAllPhotos)

	// Relationship routes
	mux.HandleFunc("GET /api/relationships", relHandler.List)
	mux.HandleFunc("POST /api/relationships", relHandler.Create)
	mux.HandleFunc("PUT /api/relationships/{id}", relHandler.Update)
	mux.HandleFunc("DELETE /api/relationships/{id}", relHandler.Delete)

	// Life event and story routes
	mux.HandleFunc("GET /api/events", recordsHandler.ListLifeEvents)
	mux.HandleFunc("POST /api/events", recordsHandler.CreateLifeEvent)
	mux.HandleFunc("GET /api/stories", recordsHandler.ListStories)
	mux.HandleFunc("POST /api/stories", recordsHandler.CreateStory)

	// Invitation routes
	mux.HandleFunc("POST /api/invitations", recordsHandler.CreateInvitation)
	mux.HandleFunc("POST /api/invitations/{token}/accept", recordsHandler.AcceptInvitation)

	// AI task routes
	mux.HandleFunc("POST /api/ai/tasks", recordsHandler.EnqueueAITask)

	// Stats routes
	mux.HandleFunc("GET /api/metrics", statsHandler.Metrics)
	mux.HandleFunc("GET /api/statistics", statsHandler.Statistics)
	mux.HandleFunc("GET /api/active-users", statsHandler.ActiveUsers)

	// Uploaded images are served as static files
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.Auth(tokenService, activityRepo, logger)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
