// Package bootstrap assembles the application: storage, repositories,
// pipeline clients, services, handlers, and the router. Anything not
// configured degrades to its in-process fallback in dev-like
// environments.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/analysis"
	"casefile-backend/internal/bills"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/docintel"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/embeddings"
	"casefile-backend/internal/search"
	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/server"
	"casefile-backend/internal/shared/storage/db"
	"casefile-backend/internal/shared/storage/object"
	localstore "casefile-backend/internal/shared/storage/object/local"
	s3store "casefile-backend/internal/shared/storage/object/s3"
	"casefile-backend/internal/shared/telemetry"
	"casefile-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo     users.Repo
	CasesRepo     cases.Repo
	DocumentsRepo documents.Repo
	BillsRepo     bills.Repo

	UsersService     *users.Service
	CasesService     *cases.Service
	DocumentsService *documents.Service
	BillsService     *bills.Service
	AnalysisService  *analysis.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		CasesHandler:    cases.NewHandler(app.CasesService),
		DocumentHandler: documents.NewHandler(app.DocumentsService),
		BillsHandler:    bills.NewHandler(app.BillsService),
		AnalysisHandler: analysis.NewHandler(app.AnalysisService),
		UsersHandler:    users.NewHandler(app.UsersService),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("DATABASE_URL empty, using in-memory repositories", nil)
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("database connect failed, using in-memory repositories", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.CasesRepo = &cases.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.BillsRepo = &bills.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.CasesRepo = cases.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.BillsRepo = bills.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo, users.Defaults{
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		Model:           cfg.OpenAIModel,
		AzureAPIKey:     cfg.AzureAPIKey,
		AzureAPIVersion: cfg.AzureAPIVer,
	})
	searchIndexer := buildSearch(cfg)

	app.CasesService = cases.NewService(app.CasesRepo)
	app.DocumentsService = &documents.Service{
		Store:  app.Store,
		Repo:   app.DocumentsRepo,
		Cases:  app.CasesService,
		Search: searchIndexer,
	}
	app.BillsService = &bills.Service{Repo: app.BillsRepo, Cases: app.CasesService}

	locker, err := buildLocker(cfg)
	if err != nil {
		return err
	}

	app.AnalysisService = &analysis.Service{
		Documents: app.DocumentsService,
		Users:     app.UsersService,
		Bills:     &bills.Materializer{Repo: app.BillsRepo},
		DocIntel:  docintel.NewClient(cfg.DocIntelEndpoint, cfg.DocIntelAPIKey),
		Embedder:  embeddings.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions),
		Search:    searchIndexer,
		Locker:    locker,
		Timeouts: analysis.Timeouts{
			Extraction: cfg.ExtractionTimeout,
			Embedding:  cfg.EmbeddingTimeout,
			Analysis:   cfg.AnalysisTimeout,
			Indexing:   cfg.IndexingTimeout,
		},
	}
	return nil
}

func buildLocker(cfg config.Config) (analysis.Locker, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return analysis.NewMemoryLocker(), nil
	}
	locker, err := analysis.NewRedisLocker(cfg.RedisURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("redis unavailable, using in-process lock", map[string]any{"error": err.Error()})
			return analysis.NewMemoryLocker(), nil
		}
		return nil, err
	}
	return locker, nil
}

func buildSearch(cfg config.Config) *search.Indexer {
	ix := search.NewIndexer(cfg.TypesenseURL, cfg.TypesenseAPIKey)
	if ix.Available() {
		if err := ix.InitSchema(context.Background()); err != nil {
			telemetry.Warn("search schema init failed, indexing disabled", map[string]any{"error": err.Error()})
			return nil
		}
	}
	return ix
}
