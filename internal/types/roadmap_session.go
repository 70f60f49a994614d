package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoadmapSession is the persisted record of one roadmap build: the final (or
// failed) state serialized as JSON plus the per-agent log trail.
type RoadmapSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`

	LearningGoal string `gorm:"column:learning_goal;not null" json:"learning_goal"`
	SubjectArea  string `gorm:"column:subject_area;not null" json:"subject_area"`

	Status      string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	Error       string         `gorm:"column:error" json:"error,omitempty"`
	RoadmapJSON datatypes.JSON `gorm:"column:roadmap_json;type:jsonb" json:"roadmap_json,omitempty"`
	AgentLogs   datatypes.JSON `gorm:"column:agent_logs;type:jsonb" json:"agent_logs,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (RoadmapSession) TableName() string { return "roadmap_session" }
