package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atlaslearn/atlas-backend/internal/clients/redis"
	"github.com/atlaslearn/atlas-backend/internal/db"
	apphttp "github.com/atlaslearn/atlas-backend/internal/http"
	httpH "github.com/atlaslearn/atlas-backend/internal/http/handlers"
	httpMW "github.com/atlaslearn/atlas-backend/internal/http/middleware"
	"github.com/atlaslearn/atlas-backend/internal/observability"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/envutil"
	"github.com/atlaslearn/atlas-backend/internal/platform/llm"
	"github.com/atlaslearn/atlas-backend/internal/platform/neo4jdb"
	"github.com/atlaslearn/atlas-backend/internal/platform/qdrant"
	"github.com/atlaslearn/atlas-backend/internal/repos"
	"github.com/atlaslearn/atlas-backend/internal/resources"
	"github.com/atlaslearn/atlas-backend/internal/roadmap"
	"github.com/atlaslearn/atlas-backend/internal/services"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Server *apphttp.Server

	dbSvc        *db.Service
	neo4jClient  *neo4jdb.Client
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbSvc, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbSvc.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbSvc.DB()

	// Optional backing stores: each reports (nil, nil) when unconfigured.
	redisClient, err := redis.NewFromEnv(log)
	if err != nil {
		log.Warn("redis init failed, continuing without snapshots", "error", err)
	}
	var snapshots *redis.SnapshotStore
	if redisClient != nil {
		snapshots = redis.NewSnapshotStore(redisClient, log, cfg.SnapshotTTL)
	}

	neo4jClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("neo4j init failed, continuing without graph store", "error", err)
	}

	var vectors qdrant.VectorStore
	if qcfg, ok, err := qdrant.ConfigFromEnv(); err != nil {
		log.Warn("qdrant config invalid, continuing without vector store", "error", err)
	} else if ok {
		vectors, err = qdrant.NewVectorStore(log, qcfg)
		if err != nil {
			log.Warn("qdrant init failed, continuing without vector store", "error", err)
			vectors = nil
		} else if err := vectors.EnsureCollection(ctx); err != nil {
			log.Warn("qdrant collection ensure failed", "error", err)
		}
	}

	llmClient, err := llm.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	// Repos
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	documentRepo := repos.NewDocumentRepo(theDB, log)
	sessionRepo := repos.NewRoadmapSessionRepo(theDB, log)

	// Pipeline
	selector, err := resources.NewSelector(documentRepo, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init resource selector: %w", err)
	}
	var graphStore roadmap.GraphStore
	if neo4jClient != nil {
		graphStore = graphStoreAdapter{client: neo4jClient}
	}
	orchestrator := roadmap.NewOrchestrator(llmClient, selector, graphStore, log)

	// Services
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	roadmapService := services.NewRoadmapService(theDB, log, sessionRepo, orchestrator, snapshots)
	searchService := services.NewSearchService(log, documentRepo, llmClient, vectors)
	quizService := services.NewQuizService(log, llmClient)
	libraryService := services.NewLibraryService(theDB, log, documentRepo, llmClient, vectors)

	var graphDriver = driverOrNil(neo4jClient)
	statusService := services.NewStatusService(log, dbSvc, redisClient, vectors, graphDriver)

	// HTTP
	server := apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AuthHandler:    httpH.NewAuthHandler(authService),
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authService),
		RoadmapHandler: httpH.NewRoadmapHandler(roadmapService),
		SearchHandler:  httpH.NewSearchHandler(searchService),
		QuizHandler:    httpH.NewQuizHandler(quizService),
		LibraryHandler: httpH.NewLibraryHandler(libraryService),
		HealthHandler:  httpH.NewHealthHandler(statusService),
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       server,
		dbSvc:        dbSvc,
		neo4jClient:  neo4jClient,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	a.Log.Info("server listening", "port", a.Cfg.Port)
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	if a.neo4jClient != nil {
		a.neo4jClient.Close(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
