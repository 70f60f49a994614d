package roadmap

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atlaslearn/atlas-backend/internal/pkg/ctxutil"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
)

// GraphStore persists the prerequisite graph as a side effect of the graph
// stage. Persistence is best effort: a storage failure never fails the
// build.
type GraphStore interface {
	SavePrerequisiteGraph(ctx context.Context, sessionID, subject string, nodes []string, edges []GraphEdge) error
}

// BuildRequest is one roadmap build invocation. TimePerWeek and Deadline
// are the caller's scheduling constraints; zero values mean unconstrained.
type BuildRequest struct {
	SessionID        uuid.UUID
	UserID           uuid.UUID
	LearningGoal     string
	SubjectArea      string
	InterviewAnswers []string
	TimePerWeek      float64
	Deadline         string
}

// Orchestrator drives the staged pipeline: each stage completes before the
// next starts, a stage failure halts the build with no retry, and the
// failed state carries whatever the earlier stages produced.
type Orchestrator struct {
	gw     Gateway
	finder ResourceFinder
	graphs GraphStore
	log    *logger.Logger
	now    func() time.Time
}

func NewOrchestrator(gw Gateway, finder ResourceFinder, graphs GraphStore, log *logger.Logger) *Orchestrator {
	return &Orchestrator{gw: gw, finder: finder, graphs: graphs, log: log, now: time.Now}
}

// Build runs the full pipeline for one request. The returned result is
// always populated; on failure it carries the partial roadmap, the error
// text, and a failed status, and the stage error is returned alongside it.
func (o *Orchestrator) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	ctx = ctxutil.Default(ctx)
	st := State{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Status:    StatusPending,
		Logs:      []AgentLog{},
	}

	var buildErr error
	for _, stage := range pipelineStageOrder(o.log) {
		st.Status = o.statusFor(stage, st)
		next, err := o.runStage(ctx, stage, req, st)
		if err != nil {
			o.log.Error("roadmap stage failed", "session_id", req.SessionID, "stage", stage, "error", err)
			st.Status = StatusFailed
			st.Error = err.Error()
			st = st.withLog(stage, "fail", err.Error())
			buildErr = fmt.Errorf("roadmap stage %s: %w", stage, err)
			break
		}
		st = next
		// Without answers the build pauses after producing questions; the
		// caller re-submits with answers to run the rest of the pipeline.
		if stage == StageInterview && len(req.InterviewAnswers) == 0 {
			st.Status = StatusInterviewQuestionsReady
			st = st.withLog(StageInterview, "await_answers", "questions ready, awaiting interview answers")
			o.log.Info("roadmap build paused for interview answers", "session_id", req.SessionID)
			return o.assemble(req, st), nil
		}
	}
	if buildErr == nil {
		st.Status = StatusCompleted
	}
	return o.assemble(req, st), buildErr
}

func (o *Orchestrator) runStage(ctx context.Context, stage string, req BuildRequest, st State) (State, error) {
	switch stage {
	case StageInterview:
		next, err := runInterview(ctx, o.gw, req.LearningGoal, req.SubjectArea, req.InterviewAnswers, st)
		return next, err
	case StageSkillEval:
		return runSkillEval(ctx, o.gw, req.LearningGoal, req.SubjectArea, st)
	case StageGapDetect:
		return runGapDetect(ctx, o.gw, req.LearningGoal, req.SubjectArea, st)
	case StageGraph:
		next, err := runGraph(ctx, o.gw, req.SubjectArea, st)
		if err == nil {
			o.persistGraph(ctx, req, next.Roadmap.PrerequisiteGraph)
		}
		return next, err
	case StageDifficulty:
		return runDifficulty(ctx, o.gw, req.SubjectArea, st)
	case StageResources:
		return runResources(ctx, o.finder, req.SubjectArea, st)
	case StageProject:
		return runProject(ctx, o.gw, req.LearningGoal, req.SubjectArea, st)
	case StageSchedule:
		return runSchedule(ctx, o.gw, req.SubjectArea, req.TimePerWeek, req.Deadline, st)
	case StageAssembly:
		// Assembly has no model round-trip; the result is built after the
		// loop from whatever state exists.
		return st.withLog(StageAssembly, "assemble", "roadmap assembled"), nil
	default:
		return st, fmt.Errorf("unknown stage %q", stage)
	}
}

// statusFor reports the externally visible status while a stage runs.
func (o *Orchestrator) statusFor(stage string, st State) Status {
	switch stage {
	case StageInterview:
		return StatusPending
	case StageSkillEval:
		if iv := st.Roadmap.Interview; iv != nil && len(iv.Answers) > 0 {
			return StatusInterviewCompleted
		}
		return StatusInterviewQuestionsReady
	case StageGapDetect:
		return StatusSkillEvaluationCompleted
	default:
		return StatusInProgress
	}
}

func (o *Orchestrator) persistGraph(ctx context.Context, req BuildRequest, g *PrerequisiteGraph) {
	if o.graphs == nil || g == nil {
		return
	}
	if err := o.graphs.SavePrerequisiteGraph(ctx, req.SessionID.String(), req.SubjectArea, g.Nodes, g.Edges); err != nil {
		o.log.Warn("prerequisite graph persist failed", "session_id", req.SessionID, "error", err)
	}
}

func (o *Orchestrator) assemble(req BuildRequest, st State) BuildResult {
	res := BuildResult{
		SessionID:    req.SessionID,
		UserID:       req.UserID,
		LearningGoal: req.LearningGoal,
		SubjectArea:  req.SubjectArea,
		Status:       st.Status,
		Error:        st.Error,
		Roadmap:      st.Roadmap,
		AgentLogs:    st.Logs,
		Meta: BuildMeta{
			GeneratedAt:     o.now().UTC(),
			PipelineVersion: PipelineVersion(o.log),
		},
	}
	if g := st.Roadmap.GapAnalysis; g != nil {
		res.Analytics.NumGaps = g.NumGaps
		res.Analytics.NumPrerequisites = len(g.PrerequisitesNeeded)
	}
	res.Analytics.NumPhases = len(st.Roadmap.Phases)
	return res
}
