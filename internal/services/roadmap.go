package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atlaslearn/atlas-backend/internal/clients/redis"
	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/repos"
	"github.com/atlaslearn/atlas-backend/internal/roadmap"
	"github.com/atlaslearn/atlas-backend/internal/types"
)

type BuildRoadmapInput struct {
	UserID           uuid.UUID
	LearningGoal     string
	SubjectArea      string
	InterviewAnswers []string
	TimePerWeek      float64
	Deadline         string
}

type RoadmapService interface {
	BuildRoadmap(ctx context.Context, in BuildRoadmapInput) (roadmap.BuildResult, error)
	GetRoadmap(ctx context.Context, id uuid.UUID) (roadmap.BuildResult, error)
	ListRoadmaps(ctx context.Context, userID uuid.UUID, limit int) ([]*types.RoadmapSession, error)
}

type roadmapService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessions     repos.RoadmapSessionRepo
	orchestrator *roadmap.Orchestrator
	snapshots    *redis.SnapshotStore
}

func NewRoadmapService(
	db *gorm.DB,
	log *logger.Logger,
	sessions repos.RoadmapSessionRepo,
	orchestrator *roadmap.Orchestrator,
	snapshots *redis.SnapshotStore,
) RoadmapService {
	return &roadmapService{
		db:           db,
		log:          log.With("service", "RoadmapService"),
		sessions:     sessions,
		orchestrator: orchestrator,
		snapshots:    snapshots,
	}
}

// BuildRoadmap runs the full pipeline for one request and persists the
// outcome. A stage failure is not a service error: the failed result is
// stored and returned so the caller sees the partial roadmap plus the
// error field.
func (rs *roadmapService) BuildRoadmap(ctx context.Context, in BuildRoadmapInput) (roadmap.BuildResult, error) {
	goal := strings.TrimSpace(in.LearningGoal)
	subject := strings.TrimSpace(in.SubjectArea)
	if goal == "" || subject == "" {
		return roadmap.BuildResult{}, fmt.Errorf("learning_goal and subject_area are required: %w", pkgerrors.ErrInvalidArgument)
	}

	session := &types.RoadmapSession{
		ID:           uuid.New(),
		UserID:       in.UserID,
		LearningGoal: goal,
		SubjectArea:  subject,
		Status:       string(roadmap.StatusPending),
	}
	if _, err := rs.sessions.Create(ctx, nil, []*types.RoadmapSession{session}); err != nil {
		return roadmap.BuildResult{}, fmt.Errorf("failed to create roadmap session: %w", err)
	}

	result, buildErr := rs.orchestrator.Build(ctx, roadmap.BuildRequest{
		SessionID:        session.ID,
		UserID:           in.UserID,
		LearningGoal:     goal,
		SubjectArea:      subject,
		InterviewAnswers: in.InterviewAnswers,
		TimePerWeek:      in.TimePerWeek,
		Deadline:         strings.TrimSpace(in.Deadline),
	})
	if buildErr != nil {
		rs.log.Warn("roadmap build failed", "session_id", session.ID, "error", buildErr)
	}

	if err := rs.persistResult(ctx, session.ID, result); err != nil {
		return result, err
	}
	return result, nil
}

func (rs *roadmapService) persistResult(ctx context.Context, sessionID uuid.UUID, result roadmap.BuildResult) error {
	roadmapJSON, err := json.Marshal(result.Roadmap)
	if err != nil {
		return fmt.Errorf("failed to serialize roadmap: %w", err)
	}
	logsJSON, err := json.Marshal(result.AgentLogs)
	if err != nil {
		return fmt.Errorf("failed to serialize agent logs: %w", err)
	}
	fields := map[string]interface{}{
		"status":       string(result.Status),
		"error":        result.Error,
		"roadmap_json": datatypes.JSON(roadmapJSON),
		"agent_logs":   datatypes.JSON(logsJSON),
	}
	if err := rs.sessions.UpdateFields(ctx, nil, sessionID, fields); err != nil {
		return fmt.Errorf("failed to update roadmap session: %w", err)
	}

	if rs.snapshots != nil {
		snapshot, err := json.Marshal(result)
		if err == nil {
			if err := rs.snapshots.Save(ctx, sessionID.String(), snapshot); err != nil {
				rs.log.Warn("roadmap snapshot save failed", "session_id", sessionID, "error", err)
			}
		}
	}
	return nil
}

// GetRoadmap serves from the snapshot cache when it can and falls back to
// the stored session row.
func (rs *roadmapService) GetRoadmap(ctx context.Context, id uuid.UUID) (roadmap.BuildResult, error) {
	if rs.snapshots != nil {
		if raw, err := rs.snapshots.Get(ctx, id.String()); err == nil {
			var result roadmap.BuildResult
			if json.Unmarshal(raw, &result) == nil {
				return result, nil
			}
		}
	}

	sessions, err := rs.sessions.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return roadmap.BuildResult{}, fmt.Errorf("failed to load roadmap session: %w", err)
	}
	if len(sessions) == 0 {
		return roadmap.BuildResult{}, fmt.Errorf("roadmap session %s: %w", id, pkgerrors.ErrNotFound)
	}
	return resultFromSession(sessions[0]), nil
}

func (rs *roadmapService) ListRoadmaps(ctx context.Context, userID uuid.UUID, limit int) ([]*types.RoadmapSession, error) {
	return rs.sessions.ListByUserID(ctx, nil, userID, limit)
}

func resultFromSession(s *types.RoadmapSession) roadmap.BuildResult {
	result := roadmap.BuildResult{
		SessionID:    s.ID,
		UserID:       s.UserID,
		LearningGoal: s.LearningGoal,
		SubjectArea:  s.SubjectArea,
		Status:       roadmap.Status(s.Status),
		Error:        s.Error,
	}
	if len(s.RoadmapJSON) > 0 {
		_ = json.Unmarshal(s.RoadmapJSON, &result.Roadmap)
	}
	if len(s.AgentLogs) > 0 {
		_ = json.Unmarshal(s.AgentLogs, &result.AgentLogs)
	}
	if g := result.Roadmap.GapAnalysis; g != nil {
		result.Analytics.NumGaps = g.NumGaps
		result.Analytics.NumPrerequisites = len(g.PrerequisitesNeeded)
	}
	result.Analytics.NumPhases = len(result.Roadmap.Phases)
	return result
}
