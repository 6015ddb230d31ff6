package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"readiness-backend/internal/assessment"
	"readiness-backend/internal/classify"
	openaimod "readiness-backend/internal/classify/openai"
	"readiness-backend/internal/reports"
	"readiness-backend/internal/services/health"
	"readiness-backend/internal/shared/config"
	"readiness-backend/internal/shared/server"
	"readiness-backend/internal/shared/storage/db"
	"readiness-backend/internal/shared/storage/mongodb"
	"readiness-backend/internal/shared/storage/object"
	localstore "readiness-backend/internal/shared/storage/object/local"
	s3store "readiness-backend/internal/shared/storage/object/s3"
	"readiness-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Mongo             *mongo.Client
	Store             object.ObjectStore
	ReportsRepo       reports.Repo
	ReportsService    *reports.Service
	AssessmentService *assessment.Service
	Health            *health.Service
	AssessmentHandler *assessment.Handler
	ReportsHandler    *reports.Handler
}

// Build prepares every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.ReportIndex) == "" {
		cfg.ReportIndex = "memory"
	}
	if cfg.Scoring.Aggregate.TopK == 0 {
		cfg.Scoring = config.DefaultScoring()
	}

	app := &App{Config: cfg}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	if err := buildIndex(ctx, app); err != nil {
		app.Close(ctx)
		return nil, err
	}

	if err := buildServices(app); err != nil {
		app.Close(ctx)
		return nil, err
	}

	app.Router = server.NewRouter(app.Config, app.Health, app.AssessmentHandler, app.ReportsHandler)
	return app, nil
}

// Close releases database clients.
func (a *App) Close(ctx context.Context) {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			telemetry.Warn("bootstrap.db_close_failed", map[string]any{"error": err})
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			telemetry.Warn("bootstrap.mongo_close_failed", map[string]any{"error": err})
		}
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildIndex picks the report metadata repo. Dev-like environments fall back
// to memory when the configured backend is unreachable.
func buildIndex(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.ReportIndex {
	case "postgres":
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return err
		}
		if sqlDB != nil {
			app.DB = sqlDB
			app.ReportsRepo = &reports.PGRepo{DB: sqlDB}
			return nil
		}
	case "mongo":
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			if !isDevLike(cfg.Env) {
				return err
			}
			telemetry.Warn("bootstrap.mongo_unavailable", map[string]any{"error": err})
		} else {
			app.Mongo = client
			app.ReportsRepo = reports.NewMongoRepo(client.Database(cfg.MongoDatabase))
			return nil
		}
	}
	app.Config.ReportIndex = "memory"
	app.ReportsRepo = reports.NewMemoryRepo()
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_index", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_index", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// BuildClassifier returns the classifier pipeline for cfg. Without an OpenAI key
// every classifier is a placeholder.
func BuildClassifier(cfg config.Config) (classify.Pipeline, error) {
	pipeline := classify.Pipeline{
		Moderator: classify.Placeholder{},
		Sentiment: classify.Placeholder{},
		Emotion:   classify.Placeholder{},
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return pipeline, nil
	}
	moderator, err := openaimod.NewModerator(openaimod.Config{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.ModerationModel,
	})
	if err != nil {
		return classify.Pipeline{}, err
	}
	pipeline.Moderator = moderator
	return pipeline, nil
}

func buildServices(app *App) error {
	engines, err := assessment.NewEngines(app.Config.Scoring)
	if err != nil {
		return err
	}
	classifier, err := BuildClassifier(app.Config)
	if err != nil {
		return err
	}

	app.ReportsService = &reports.Service{Store: app.Store, Repo: app.ReportsRepo}
	app.AssessmentService = &assessment.Service{
		Engines:    engines,
		Classifier: classifier,
		Reports:    app.ReportsService,
	}

	app.Health = health.NewService(app.Store.Provider(), app.Config.ReportIndex)
	if app.DB != nil {
		app.Health.AddCheck("database", app.DB.PingContext)
	}
	if app.Mongo != nil {
		client := app.Mongo
		app.Health.AddCheck("mongo", func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		})
	}

	app.AssessmentHandler = assessment.NewHandler(app.AssessmentService)
	app.ReportsHandler = reports.NewHandler(app.ReportsService)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
