package db

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/envutil"
	"github.com/atlaslearn/atlas-backend/internal/types"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New connects to postgres when POSTGRES_HOST is set, otherwise opens a local
// sqlite file so the service runs without infrastructure in development.
func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		path := envutil.String("SQLITE_PATH", "atlas.db")
		serviceLog.Warn("POSTGRES_HOST not set, using sqlite", "path", path)
		gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", path, err)
		}
		return &Service{db: gdb, log: serviceLog}, nil
	}

	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := strings.TrimSpace(os.Getenv("POSTGRES_PASSWORD"))
	name := envutil.String("POSTGRES_NAME", "atlas")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("connecting to postgres", "host", host, "db", name)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) AutoMigrateAll() error {
	s.log.Info("auto migrating tables")
	return s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Document{},
		&types.RoadmapSession{},
	)
}

// Ping reports whether the underlying connection is alive; used by the
// status endpoint.
func (s *Service) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
