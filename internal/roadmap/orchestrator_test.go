package roadmap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/llm"
	"github.com/atlaslearn/atlas-backend/internal/resources"
)

// scriptedGateway returns canned responses in order; a response of error
// kind fails that call.
type scriptedGateway struct {
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	text string
	err  error
}

func (g *scriptedGateway) GenerateText(_ context.Context, _, _ string, _ llm.GenerateOptions) (string, error) {
	if g.calls >= len(g.responses) {
		return "", fmt.Errorf("unexpected call %d", g.calls)
	}
	r := g.responses[g.calls]
	g.calls++
	return r.text, r.err
}

type stubFinder struct {
	selections map[string]resources.Selection
	err        error
}

func (f *stubFinder) Select(_ context.Context, kind, _, _ string, _ []string) (resources.Selection, error) {
	if f.err != nil {
		return resources.Selection{}, f.err
	}
	if sel, ok := f.selections[kind]; ok {
		return sel, nil
	}
	return resources.Selection{Warning: "no " + kind + " resources found"}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

const cannedInterview = `{"questions":[
  {"question_id":"q1","question_text":"What is your background?","question_type":"open_ended","category":"background","required":true,"context":""},
  {"question_id":"q2","question_text":"Prior exposure?","question_type":"open_ended","category":"experience","required":true,"context":""},
  {"question_id":"q3","question_text":"Goal?","question_type":"open_ended","category":"goals","required":true,"context":""},
  {"question_id":"q4","question_text":"Hours per week?","question_type":"scale","category":"time","required":true,"context":""},
  {"question_id":"q5","question_text":"Learning style?","question_type":"multiple_choice","category":"style","required":false,"context":""}
]}`

const cannedSkillEval = `{"skill_level":"beginner","strengths":["curiosity"],"weaknesses":["no prior exposure"],"analysis_notes":["starting from scratch"]}`

const cannedGaps = `{"gaps":["processes","memory management","file systems"],"prerequisites_needed":["C programming"],"num_gaps":99}`

const cannedGraph = `{"nodes":["C programming","processes","memory management","file systems"],
"edges":[{"from":"C programming","to":"processes"},{"from":"processes","to":"memory management"}],
"learning_phases":[
  {"phase_id":1,"title":"Foundations","concepts":["C programming"]},
  {"phase_id":2,"title":"Processes","concepts":["processes"]},
  {"phase_id":3,"title":"Memory","concepts":["memory management"]},
  {"phase_id":4,"title":"Storage","concepts":["file systems"]}
]}`

const cannedDifficulty = `{"phase_difficulties":{"1":"beginner","2":"beginner","3":"intermediate","4":"advanced"},"adaptive_factors":["no prior exposure"]}`

const cannedProject = `{"title":"Build a shell","description":"A small unix shell","deliverables":["parser","executor"],"estimated_hours":20}`

const cannedSchedule = `{"total_weeks":2,"hours_per_week":6,"weekly_plan":[
  {"week":1,"phase_id":1,"focus":"C basics","hours":6},
  {"week":2,"phase_id":2,"focus":"processes","hours":6}
]}`

func fiveAnswers() []string {
	return []string{"CS undergrad", "some C", "pass the OS course", "6", "videos"}
}

func happyPathGateway() *scriptedGateway {
	return &scriptedGateway{responses: []scriptedResponse{
		{text: cannedInterview},
		{text: cannedSkillEval},
		{text: cannedGaps},
		{text: cannedGraph},
		{text: cannedDifficulty},
		{text: cannedProject},
		{text: cannedSchedule},
	}}
}

func TestOrchestrator_BuildCompletes(t *testing.T) {
	gw := happyPathGateway()
	finder := &stubFinder{selections: map[string]resources.Selection{
		resources.KindBook: {Resources: []resources.Resource{{ID: "b1", Title: "OSTEP", ContentType: "book"}}},
	}}
	o := NewOrchestrator(gw, finder, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:        uuid.New(),
		UserID:           uuid.New(),
		LearningGoal:     "learn operating systems",
		SubjectArea:      "Operating Systems",
		InterviewAnswers: fiveAnswers(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if result.Error != "" {
		t.Fatalf("unexpected error field: %q", result.Error)
	}
	if gw.calls != 7 {
		t.Fatalf("unexpected gateway calls: got=%d want=7", gw.calls)
	}

	if len(result.Roadmap.Phases) != 4 {
		t.Fatalf("unexpected phase count: %d", len(result.Roadmap.Phases))
	}
	for _, p := range result.Roadmap.Phases {
		if p.PhaseTitle == "" {
			t.Fatalf("phase %d has empty title", p.PhaseNumber)
		}
		if p.EstimatedDurationHours <= 0 {
			t.Fatalf("phase %d has non-positive duration", p.PhaseNumber)
		}
		if len(p.Books) != 1 {
			t.Fatalf("phase %d: unexpected book count %d", p.PhaseNumber, len(p.Books))
		}
	}

	if result.Analytics.NumGaps != 3 {
		t.Fatalf("unexpected num_gaps: %d", result.Analytics.NumGaps)
	}
	if result.Analytics.NumPrerequisites != 1 {
		t.Fatalf("unexpected num_prerequisites: %d", result.Analytics.NumPrerequisites)
	}
	if result.Analytics.NumPhases != 4 {
		t.Fatalf("unexpected num_phases: %d", result.Analytics.NumPhases)
	}

	if result.Meta.GeneratedAt.IsZero() {
		t.Fatalf("meta.generated_at not set")
	}
	if result.Meta.PipelineVersion == "" {
		t.Fatalf("meta.pipeline_version not set")
	}
	// The model's own num_gaps (99) must not survive assembly.
	if result.Roadmap.GapAnalysis.NumGaps != 3 {
		t.Fatalf("gap count not recomputed: %d", result.Roadmap.GapAnalysis.NumGaps)
	}
}

func TestOrchestrator_PausesWithoutInterviewAnswers(t *testing.T) {
	gw := &scriptedGateway{responses: []scriptedResponse{
		{text: cannedInterview},
		// Nothing past the interview may be requested on an answer-less build.
		{text: cannedSkillEval},
	}}
	o := NewOrchestrator(gw, &stubFinder{}, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:    uuid.New(),
		LearningGoal: "goal",
		SubjectArea:  "subject",
	})
	if err != nil {
		t.Fatalf("pausing for answers must not be an error: %v", err)
	}
	if result.Status != StatusInterviewQuestionsReady {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if gw.calls != 1 {
		t.Fatalf("pipeline continued past the interview: calls=%d", gw.calls)
	}
	if result.Roadmap.Interview == nil || len(result.Roadmap.Interview.Questions) != 5 {
		t.Fatalf("questions not produced")
	}
	if result.Roadmap.SkillEvaluation != nil || result.Roadmap.GapAnalysis != nil {
		t.Fatalf("downstream stages ran without answers")
	}
	last := result.AgentLogs[len(result.AgentLogs)-1]
	if last.Agent != StageInterview || last.Action != "await_answers" {
		t.Fatalf("unexpected final log: %+v", last)
	}
}

func TestOrchestrator_ScheduleUsesRequestedAvailability(t *testing.T) {
	gw := happyPathGateway()
	// The model leaves hours_per_week unset; the caller's availability wins.
	gw.responses[6] = scriptedResponse{text: `{"total_weeks":2,"hours_per_week":0,"weekly_plan":[
	  {"week":1,"phase_id":1,"focus":"C basics","hours":9},
	  {"week":2,"phase_id":2,"focus":"processes","hours":9}
	]}`}
	o := NewOrchestrator(gw, &stubFinder{}, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:        uuid.New(),
		LearningGoal:     "goal",
		SubjectArea:      "subject",
		InterviewAnswers: fiveAnswers(),
		TimePerWeek:      9,
		Deadline:         "2026-12-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sched := result.Roadmap.LearningSchedule
	if sched == nil {
		t.Fatalf("schedule missing")
	}
	if sched.HoursPerWeek != 9 {
		t.Fatalf("availability not used as fallback: %.1f", sched.HoursPerWeek)
	}
}

func TestOrchestrator_FailFastHaltsAtFirstError(t *testing.T) {
	gw := &scriptedGateway{responses: []scriptedResponse{
		{text: cannedInterview},
		{text: cannedSkillEval},
		{err: errors.New("model unavailable")},
		// Nothing after the failure may be requested.
		{text: cannedGraph},
	}}
	o := NewOrchestrator(gw, &stubFinder{}, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:        uuid.New(),
		LearningGoal:     "goal",
		SubjectArea:      "subject",
		InterviewAnswers: fiveAnswers(),
	})
	if err == nil {
		t.Fatalf("expected build error")
	}
	if gw.calls != 3 {
		t.Fatalf("pipeline did not halt: calls=%d", gw.calls)
	}
	if result.Status != StatusFailed {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if result.Error == "" {
		t.Fatalf("error field not recorded")
	}
	// Upstream outputs survive, downstream ones must be absent.
	if result.Roadmap.Interview == nil || result.Roadmap.SkillEvaluation == nil {
		t.Fatalf("partial state lost")
	}
	if result.Roadmap.GapAnalysis != nil || len(result.Roadmap.Phases) != 0 {
		t.Fatalf("downstream stages ran after failure")
	}
}

func TestOrchestrator_MalformedStageOutputFailsBuild(t *testing.T) {
	gw := &scriptedGateway{responses: []scriptedResponse{
		{text: "I refuse to answer in JSON."},
	}}
	o := NewOrchestrator(gw, &stubFinder{}, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:        uuid.New(),
		LearningGoal:     "goal",
		SubjectArea:      "subject",
		InterviewAnswers: fiveAnswers(),
	})
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if gw.calls != 1 {
		t.Fatalf("unexpected gateway calls: %d", gw.calls)
	}
}

func TestOrchestrator_ResourceFinderErrorFailsBuild(t *testing.T) {
	gw := happyPathGateway()
	o := NewOrchestrator(gw, &stubFinder{err: errors.New("store offline")}, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:        uuid.New(),
		LearningGoal:     "goal",
		SubjectArea:      "subject",
		InterviewAnswers: fiveAnswers(),
	})
	if err == nil {
		t.Fatalf("expected build error")
	}
	if result.Status != StatusFailed {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	// The five model stages before resource retrieval ran; the two after
	// it must not have.
	if gw.calls != 5 {
		t.Fatalf("unexpected gateway calls: %d", gw.calls)
	}
}

func TestOrchestrator_EmptyResourcesIsNotAnError(t *testing.T) {
	gw := happyPathGateway()
	o := NewOrchestrator(gw, &stubFinder{}, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:        uuid.New(),
		LearningGoal:     "goal",
		SubjectArea:      "subject",
		InterviewAnswers: fiveAnswers(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	for _, p := range result.Roadmap.Phases {
		if len(p.ResourceWarnings) == 0 {
			t.Fatalf("phase %d: expected warnings for empty retrieval", p.PhaseNumber)
		}
	}
}

func TestOrchestrator_AgentLogsAccumulate(t *testing.T) {
	gw := happyPathGateway()
	o := NewOrchestrator(gw, &stubFinder{}, nil, testLogger(t))

	result, err := o.Build(context.Background(), BuildRequest{
		SessionID:        uuid.New(),
		LearningGoal:     "goal",
		SubjectArea:      "subject",
		InterviewAnswers: fiveAnswers(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One log per stage including assembly.
	if len(result.AgentLogs) != 9 {
		t.Fatalf("unexpected log count: %d", len(result.AgentLogs))
	}
	if result.AgentLogs[0].Agent != StageInterview {
		t.Fatalf("unexpected first agent: %s", result.AgentLogs[0].Agent)
	}
	if result.AgentLogs[len(result.AgentLogs)-1].Agent != StageAssembly {
		t.Fatalf("unexpected last agent: %s", result.AgentLogs[len(result.AgentLogs)-1].Agent)
	}
}
