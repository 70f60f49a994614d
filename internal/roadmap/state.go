package roadmap

import (
	"time"

	"github.com/google/uuid"

	"github.com/atlaslearn/atlas-backend/internal/resources"
)

// Status labels a roadmap build. It is a closed set of values rather than a
// free-form string; stages never write it directly, only the orchestrator
// does.
type Status string

const (
	StatusPending                  Status = "pending"
	StatusInterviewQuestionsReady  Status = "interview_questions_ready"
	StatusInterviewCompleted       Status = "interview_completed"
	StatusSkillQuizReady           Status = "skill_quiz_ready"
	StatusSkillEvaluationCompleted Status = "skill_evaluation_completed"
	StatusInProgress               Status = "in_progress"
	StatusFailed                   Status = "failed"
	StatusCompleted                Status = "completed"
)

// AgentLog is one observability entry appended per stage run.
type AgentLog struct {
	Agent         string `json:"agent"`
	Action        string `json:"action"`
	ResultSummary string `json:"result_summary"`
}

type InterviewQuestion struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Category     string `json:"category"`
	Required     bool   `json:"required"`
	Context      string `json:"context"`
}

type Interview struct {
	Questions []InterviewQuestion `json:"questions"`
	Answers   []string            `json:"answers,omitempty"`
}

type SkillEvaluation struct {
	SkillLevel    string   `json:"skill_level"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	AnalysisNotes []string `json:"analysis_notes"`
}

type GapAnalysis struct {
	Gaps                []string `json:"gaps"`
	PrerequisitesNeeded []string `json:"prerequisites_needed"`
	NumGaps             int      `json:"num_gaps"`
}

type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type LearningPhase struct {
	PhaseID  int      `json:"phase_id"`
	Title    string   `json:"title,omitempty"`
	Concepts []string `json:"concepts"`
}

type PrerequisiteGraph struct {
	Nodes          []string        `json:"nodes"`
	Edges          []GraphEdge     `json:"edges"`
	LearningPhases []LearningPhase `json:"learning_phases"`
}

type DifficultyEstimation struct {
	PhaseDifficulties map[string]string `json:"phase_difficulties"`
	AdaptiveFactors   []string          `json:"adaptive_factors"`
}

// Phase is one of the roadmap's four ordered learning segments, enriched
// with retrieved resources.
type Phase struct {
	PhaseNumber            int                  `json:"phase_number"`
	PhaseTitle             string               `json:"phase_title"`
	Difficulty             string               `json:"difficulty"`
	Concepts               []string             `json:"concepts"`
	EstimatedDurationHours float64              `json:"estimated_duration_hours"`
	Books                  []resources.Resource `json:"books"`
	Videos                 []resources.Resource `json:"videos"`
	Slides                 []resources.Resource `json:"slides"`
	ResourceWarnings       []string             `json:"resource_warnings,omitempty"`
}

type CourseProject struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Deliverables   []string `json:"deliverables"`
	EstimatedHours float64  `json:"estimated_hours"`
}

type WeekPlan struct {
	Week    int     `json:"week"`
	PhaseID int     `json:"phase_id"`
	Focus   string  `json:"focus"`
	Hours   float64 `json:"hours"`
}

type LearningSchedule struct {
	TotalWeeks   int        `json:"total_weeks"`
	HoursPerWeek float64    `json:"hours_per_week"`
	WeeklyPlan   []WeekPlan `json:"weekly_plan"`
}

// Roadmap accumulates stage outputs. A nil pointer means the owning stage
// has not run; a stage writes its own key exactly once and downstream stages
// only read.
type Roadmap struct {
	Interview            *Interview            `json:"interview,omitempty"`
	SkillEvaluation      *SkillEvaluation      `json:"skill_evaluation,omitempty"`
	GapAnalysis          *GapAnalysis          `json:"gap_analysis,omitempty"`
	PrerequisiteGraph    *PrerequisiteGraph    `json:"prerequisite_graph,omitempty"`
	DifficultyEstimation *DifficultyEstimation `json:"difficulty_estimation,omitempty"`
	Phases               []Phase               `json:"phases,omitempty"`
	CourseProject        *CourseProject        `json:"course_project,omitempty"`
	LearningSchedule     *LearningSchedule     `json:"learning_schedule,omitempty"`
}

// State is the record threaded through the pipeline. Stages receive it by
// value and return a new value; only the orchestrator holds the evolving
// copy, so no stage can mutate an upstream output in place.
type State struct {
	SessionID uuid.UUID  `json:"session_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Logs      []AgentLog `json:"agent_logs"`
	Roadmap   Roadmap    `json:"roadmap"`
}

func (s State) withLog(agent, action, summary string) State {
	logs := make([]AgentLog, 0, len(s.Logs)+1)
	logs = append(logs, s.Logs...)
	logs = append(logs, AgentLog{Agent: agent, Action: action, ResultSummary: summary})
	s.Logs = logs
	return s
}

// Analytics is the assembly-stage summary block.
type Analytics struct {
	NumGaps          int `json:"num_gaps"`
	NumPrerequisites int `json:"num_prerequisites"`
	NumPhases        int `json:"num_phases"`
}

type BuildMeta struct {
	GeneratedAt     time.Time `json:"generated_at"`
	PipelineVersion string    `json:"pipeline_version"`
}

// BuildResult is the assembled response for one roadmap build.
type BuildResult struct {
	SessionID    uuid.UUID  `json:"session_id"`
	UserID       uuid.UUID  `json:"user_id,omitempty"`
	LearningGoal string     `json:"learning_goal"`
	SubjectArea  string     `json:"subject_area"`
	Status       Status     `json:"status"`
	Error        string     `json:"error,omitempty"`
	Roadmap      Roadmap    `json:"roadmap"`
	Analytics    Analytics  `json:"analytics"`
	Meta         BuildMeta  `json:"meta"`
	AgentLogs    []AgentLog `json:"agent_logs"`
}
