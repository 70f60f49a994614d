package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/types"
)

type RoadmapSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.RoadmapSession) ([]*types.RoadmapSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RoadmapSession, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.RoadmapSession, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type roadmapSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapSessionRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapSessionRepo {
	return &roadmapSessionRepo{db: db, log: baseLog.With("repo", "RoadmapSessionRepo")}
}

func (r *roadmapSessionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *roadmapSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.RoadmapSession) ([]*types.RoadmapSession, error) {
	if len(sessions) == 0 {
		return []*types.RoadmapSession{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *roadmapSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RoadmapSession, error) {
	var results []*types.RoadmapSession
	if len(ids) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *roadmapSessionRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.RoadmapSession, error) {
	var results []*types.RoadmapSession
	if userID == uuid.Nil {
		return results, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *roadmapSessionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Model(&types.RoadmapSession{}).
		Where("id = ?", id).
		Updates(fields).Error
}
