package services

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	goredis "github.com/redis/go-redis/v9"

	"github.com/atlaslearn/atlas-backend/internal/db"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/qdrant"
)

// ComponentStatus is one backing component's health in the status report.
type ComponentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type StatusService interface {
	Status(ctx context.Context) []ComponentStatus
}

type statusService struct {
	log     *logger.Logger
	db      *db.Service
	redis   *goredis.Client
	vectors qdrant.VectorStore
	graph   neo4j.DriverWithContext
}

func NewStatusService(log *logger.Logger, dbSvc *db.Service, redisClient *goredis.Client, vectors qdrant.VectorStore, graph neo4j.DriverWithContext) StatusService {
	return &statusService{
		log:     log.With("service", "StatusService"),
		db:      dbSvc,
		redis:   redisClient,
		vectors: vectors,
		graph:   graph,
	}
}

func (ss *statusService) Status(ctx context.Context) []ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := make([]ComponentStatus, 0, 4)
	out = append(out, checkComponent("database", true, func() error { return ss.db.Ping() }))
	out = append(out, checkComponent("redis", ss.redis != nil, func() error {
		return ss.redis.Ping(ctx).Err()
	}))
	out = append(out, checkComponent("vector_store", ss.vectors != nil, func() error {
		return ss.vectors.Ping(ctx)
	}))
	out = append(out, checkComponent("graph_store", ss.graph != nil, func() error {
		return ss.graph.VerifyConnectivity(ctx)
	}))
	return out
}

func checkComponent(name string, configured bool, check func() error) ComponentStatus {
	if !configured {
		return ComponentStatus{Name: name, Status: "unconfigured"}
	}
	if err := check(); err != nil {
		return ComponentStatus{Name: name, Status: "down", Detail: err.Error()}
	}
	return ComponentStatus{Name: name, Status: "ok"}
}
