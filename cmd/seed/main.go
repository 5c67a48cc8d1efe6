package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"famtree/internal/auth"
	"famtree/internal/config"
	"famtree/internal/domain"
	"famtree/internal/domain/services"
	"famtree/internal/repository/postgres"
	"famtree/internal/service"

	"github.com/joho/godotenv"
)

// seed bootstraps a development database: schema, one admin account, and a
// small demo forest with a populated tree.
func main() {
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	email := flag.String("email", "admin@example.com", "Email for the seeded admin account")
	password := flag.String("password", "changeme123", "Password for the seeded admin account")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: never seed demo data into production
	if cfg.Environment == "prod" && !*schemaOnly {
		log.Fatalf("Cannot seed demo data in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	tenantRepo := postgres.NewTenantRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	forestRepo := postgres.NewForestRepository(repoConfig)
	forestMemberRepo := postgres.NewForestMemberRepository(repoConfig)
	treeRepo := postgres.NewTreeRepository(repoConfig)
	treeMemberRepo := postgres.NewTreeMemberRepository(repoConfig)
	personRepo := postgres.NewPersonRepository(repoConfig)
	relRepo := postgres.NewRelationshipRepository(repoConfig)
	imageRepo := postgres.NewPersonImageRepository(repoConfig)
	eventRepo := postgres.NewLifeEventRepository(repoConfig)
	storyRepo := postgres.NewStoryRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	tokenService := auth.NewHMACTokenService(cfg.JWTSecret, logger)
	authService := service.NewAuthService(tenantRepo, userRepo, txManager, tokenService, logger)
	forestService := service.NewForestService(forestRepo, forestMemberRepo, txManager, logger)
	treeService := service.NewTreeService(treeRepo, treeMemberRepo, forestRepo, personRepo, relRepo, imageRepo, eventRepo, storyRepo, txManager, logger)
	personService := service.NewPersonService(personRepo, imageRepo, relRepo, eventRepo, storyRepo, treeRepo, txManager, noopStore{}, logger)
	relService := service.NewRelationshipService(relRepo, personRepo, logger)

	result, err := authService.Register(ctx, &services.RegisterRequest{
		Email:      *email,
		Password:   *password,
		TenantName: "Demo Tenant",
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			log.Printf("Account %s already exists, nothing to do", *email)
			return
		}
		log.Fatalf("Failed to register admin: %v", err)
	}

	claims, err := tokenService.VerifyToken(result.Token)
	if err != nil {
		log.Fatalf("Failed to verify seeded token: %v", err)
	}
	actor := claims.User()

	forest, err := forestService.CreateForest(ctx, actor, &services.CreateForestRequest{Name: "Demo Forest"})
	if err != nil {
		log.Fatalf("Failed to create demo forest: %v", err)
	}

	tree, err := treeService.CreateTree(ctx, actor, &services.CreateTreeRequest{
		ForestID: forest.ID,
		Name:     "Demo Family",
	})
	if err != nil {
		log.Fatalf("Failed to create demo tree: %v", err)
	}

	grandpa, err := personService.CreatePerson(ctx, actor, &services.CreatePersonRequest{
		TreeID:    tree.ID,
		FirstName: "Arthur",
		LastName:  ptr("Hensley"),
		Gender:    ptr("Male"),
		BirthDate: ptr("1941-03-12"),
	})
	if err != nil {
		log.Fatalf("Failed to create demo person: %v", err)
	}

	parent, err := personService.CreatePerson(ctx, actor, &services.CreatePersonRequest{
		TreeID:    tree.ID,
		FirstName: "Miriam",
		LastName:  ptr("Hensley"),
		Gender:    ptr("Female"),
		BirthDate: ptr("1968-11-02"),
	})
	if err != nil {
		log.Fatalf("Failed to create demo person: %v", err)
	}

	if _, err := relService.CreateRelationship(ctx, actor, &services.CreateRelationshipRequest{
		TreeID:    tree.ID,
		Person1ID: grandpa.ID,
		Person2ID: parent.ID,
		Type:      "parent",
	}); err != nil {
		log.Fatalf("Failed to create demo relationship: %v", err)
	}

	log.Printf("Seeded admin %s with forest %q and tree %q", *email, forest.Name, tree.Name)
}

func ptr(s string) *string { return &s }

// noopStore satisfies the image store dependency; the seeder never touches
// photos.
type noopStore struct{}

func (noopStore) WriteOriginal(string, []byte) error { return nil }

func (noopStore) WriteThumbnail(string, []byte) error { return nil }

func (noopStore) WriteOriginalIfAbsent(string, []byte) (bool, error) { return true, nil }

func (noopStore) WriteThumbnailIfAbsent(string, []byte) (bool, error) { return true, nil }

func (noopStore) ReadOriginal(string) ([]byte, error) { return nil, os.ErrNotExist }

func (noopStore) ReadThumbnail(string) ([]byte, error) { return nil, os.ErrNotExist }

func (noopStore) RemoveOriginal(string) error { return nil }

func (noopStore) RemoveThumbnail(string) error { return nil }

func (noopStore) OriginalSize(string) int64 { return 0 }

func (noopStore) ThumbnailSize(string) int64 { return 0 }
