package roadmap

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunInterview_ExactlyFiveQuestions(t *testing.T) {
	gw := &scriptedGateway{responses: []scriptedResponse{
		{text: `{"questions":[{"question_text":"only one"}]}`},
	}}
	_, err := runInterview(context.Background(), gw, "goal", "subject", nil, State{})
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if mismatch.Want != 5 || mismatch.Got != 1 {
		t.Fatalf("unexpected counts: want=%d got=%d", mismatch.Want, mismatch.Got)
	}
}

func TestCoerceQuestions_FillsDefaults(t *testing.T) {
	iv := Interview{Questions: []InterviewQuestion{
		{QuestionText: "a"},
		{QuestionID: "custom", QuestionText: "b", QuestionType: "scale", Category: "time"},
	}}
	coerceQuestions(&iv)
	if iv.Questions[0].QuestionID != "q1" || iv.Questions[0].QuestionType != "open_ended" || iv.Questions[0].Category != "general" {
		t.Fatalf("defaults not applied: %+v", iv.Questions[0])
	}
	if iv.Questions[1].QuestionID != "custom" || iv.Questions[1].QuestionType != "scale" {
		t.Fatalf("explicit values overwritten: %+v", iv.Questions[1])
	}
}

func TestRunSkillEval_RequiresInterview(t *testing.T) {
	_, err := runSkillEval(context.Background(), &scriptedGateway{}, "goal", "subject", State{})
	var missing *MissingPrerequisiteError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPrerequisiteError, got %v", err)
	}
	if missing.Key != "interview" {
		t.Fatalf("unexpected key: %q", missing.Key)
	}
}

func TestRunSkillEval_RequiresAnswers(t *testing.T) {
	st := State{}
	st.Roadmap.Interview = &Interview{Questions: make([]InterviewQuestion, 5)}
	_, err := runSkillEval(context.Background(), &scriptedGateway{}, "goal", "subject", st)
	var missing *MissingPrerequisiteError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPrerequisiteError, got %v", err)
	}
	if missing.Key != "interview_answers" {
		t.Fatalf("unexpected key: %q", missing.Key)
	}
}

func TestSchedulePrompt_CarriesConstraints(t *testing.T) {
	phases := []Phase{{PhaseNumber: 1, PhaseTitle: "Foundations", Difficulty: "beginner", EstimatedDurationHours: 12}}

	_, user := schedulePrompt("Operating Systems", 6, "2026-12-01", phases, nil)
	if !strings.Contains(user, "6.0 hours per week") {
		t.Fatalf("availability missing from prompt:\n%s", user)
	}
	if !strings.Contains(user, "2026-12-01") {
		t.Fatalf("deadline missing from prompt:\n%s", user)
	}

	_, user = schedulePrompt("Operating Systems", 0, "", phases, nil)
	if strings.Contains(user, "availability") || strings.Contains(user, "deadline") {
		t.Fatalf("unconstrained prompt mentions constraints:\n%s", user)
	}
}

func TestCoerceGraph_PadsToFourPhases(t *testing.T) {
	g := PrerequisiteGraph{
		Nodes: []string{"a", "b"},
		Edges: []GraphEdge{{From: "a", To: "b"}},
		LearningPhases: []LearningPhase{
			{PhaseID: 1, Title: "One", Concepts: []string{"a"}},
			{PhaseID: 2, Title: "Two", Concepts: []string{"b"}},
		},
	}
	coerceGraph(&g)
	if len(g.LearningPhases) != 4 {
		t.Fatalf("unexpected phase count: %d", len(g.LearningPhases))
	}
	// Original phases untouched, synthesized ones empty.
	if g.LearningPhases[0].Title != "One" || len(g.LearningPhases[0].Concepts) != 1 {
		t.Fatalf("existing phase mutated: %+v", g.LearningPhases[0])
	}
	for i := 2; i < 4; i++ {
		p := g.LearningPhases[i]
		if p.PhaseID != i+1 {
			t.Fatalf("unexpected phase id: got=%d want=%d", p.PhaseID, i+1)
		}
		if p.Concepts == nil || len(p.Concepts) != 0 {
			t.Fatalf("padded phase %d must have empty concepts, got %v", p.PhaseID, p.Concepts)
		}
	}
}

func TestCoerceGraph_DropsDanglingEdges(t *testing.T) {
	g := PrerequisiteGraph{
		Nodes: []string{"a"},
		Edges: []GraphEdge{
			{From: "a", To: "ghost"},
			{From: "A ", To: "a"},
		},
	}
	coerceGraph(&g)
	if len(g.Edges) != 1 {
		t.Fatalf("unexpected edge count: %d", len(g.Edges))
	}
}

func TestCoerceGraph_RenumbersPhaseIDs(t *testing.T) {
	g := PrerequisiteGraph{LearningPhases: []LearningPhase{
		{PhaseID: 7, Concepts: []string{"x"}},
		{PhaseID: 7, Concepts: []string{"y"}},
		{PhaseID: 0},
		{PhaseID: -1},
	}}
	coerceGraph(&g)
	for i, p := range g.LearningPhases {
		if p.PhaseID != i+1 {
			t.Fatalf("phase %d has id %d", i, p.PhaseID)
		}
	}
}

func TestCheckPhaseDifficulties(t *testing.T) {
	ok := map[string]string{"1": "beginner", "2": "beginner", "3": "intermediate", "4": "advanced"}
	if err := checkPhaseDifficulties(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := map[string]string{"1": "beginner", "2": "beginner", "3": "intermediate"}
	var violation *SchemaViolationError
	if err := checkPhaseDifficulties(missing); !errors.As(err, &violation) {
		t.Fatalf("expected SchemaViolationError for missing key, got %v", err)
	}

	badEnum := map[string]string{"1": "beginner", "2": "impossible", "3": "intermediate", "4": "advanced"}
	if err := checkPhaseDifficulties(badEnum); !errors.As(err, &violation) {
		t.Fatalf("expected SchemaViolationError for bad enum, got %v", err)
	}
}

func TestBuildPhases_DefaultsTitleAndDifficulty(t *testing.T) {
	graph := &PrerequisiteGraph{LearningPhases: []LearningPhase{
		{PhaseID: 1, Title: "Named", Concepts: []string{"a", "b"}},
		{PhaseID: 2, Concepts: []string{}},
	}}
	diff := &DifficultyEstimation{PhaseDifficulties: map[string]string{"1": "beginner"}}

	phases := buildPhases(graph, diff)
	if phases[0].PhaseTitle != "Named" || phases[0].Difficulty != "beginner" {
		t.Fatalf("unexpected phase 1: %+v", phases[0])
	}
	if phases[1].PhaseTitle != "Phase 2" {
		t.Fatalf("missing title not synthesized: %+v", phases[1])
	}
	if phases[1].Difficulty != "intermediate" {
		t.Fatalf("missing difficulty not defaulted: %+v", phases[1])
	}
	for _, p := range phases {
		if p.EstimatedDurationHours <= 0 {
			t.Fatalf("phase %d duration not positive", p.PhaseNumber)
		}
	}
}

func TestStateWithLog_DoesNotMutateOriginal(t *testing.T) {
	orig := State{Logs: []AgentLog{{Agent: "a", Action: "x"}}}
	next := orig.withLog("b", "y", "done")
	if len(orig.Logs) != 1 {
		t.Fatalf("original state mutated: %d logs", len(orig.Logs))
	}
	if len(next.Logs) != 2 || next.Logs[1].Agent != "b" {
		t.Fatalf("unexpected new logs: %+v", next.Logs)
	}
}

func TestPipelineStageOrder_EmbeddedSpec(t *testing.T) {
	order := pipelineStageOrder(nil)
	if len(order) != len(fallbackStageOrder) {
		t.Fatalf("unexpected stage count: got=%d want=%d", len(order), len(fallbackStageOrder))
	}
	for i, name := range fallbackStageOrder {
		if order[i] != name {
			t.Fatalf("stage %d: got=%q want=%q", i, order[i], name)
		}
	}
}
