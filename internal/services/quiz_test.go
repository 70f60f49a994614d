package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/apierr"
	"github.com/atlaslearn/atlas-backend/internal/platform/llm"
	"github.com/atlaslearn/atlas-backend/internal/roadmap"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) GenerateText(_ context.Context, _, _ string, _ llm.GenerateOptions) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	return make([][]float32, len(inputs)), nil
}

func newQuizService(t *testing.T, gw *fakeLLM) QuizService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewQuizService(log, gw)
}

const cannedQuiz = `{
  "topic": "process scheduling",
  "difficulty": "Intermediate",
  "questions": [
    {"question_text": "What does a round-robin scheduler rotate on?", "options": ["time quantum", "priority", "memory", "I/O"], "correct_option": 0, "explanation": "Each process runs for a fixed time slice."},
    {"question_text": "", "options": ["a", "b"], "correct_option": 0, "explanation": "dropped: empty text"},
    {"question_text": "Which state follows a blocking read?", "options": ["waiting"], "correct_option": 0, "explanation": "dropped: one option"},
    {"question_text": "What is a context switch?", "options": ["saving one process state and loading another", "a syscall", "an interrupt", "a page fault"], "correct_option": 7, "explanation": "dropped: index out of range"}
  ]
}`

func TestGenerateQuiz_FiltersUnusableQuestions(t *testing.T) {
	gw := &fakeLLM{response: cannedQuiz}
	svc := newQuizService(t, gw)

	quiz, err := svc.GenerateQuiz(context.Background(), "process scheduling", "intermediate", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("unexpected question count: %d", len(quiz.Questions))
	}
	if quiz.Questions[0].QuestionText != "What does a round-robin scheduler rotate on?" {
		t.Fatalf("wrong question survived: %q", quiz.Questions[0].QuestionText)
	}
	if quiz.Difficulty != "intermediate" {
		t.Fatalf("difficulty not normalized: %q", quiz.Difficulty)
	}
}

func TestGenerateQuiz_InputValidation(t *testing.T) {
	gw := &fakeLLM{response: cannedQuiz}
	svc := newQuizService(t, gw)

	_, err := svc.GenerateQuiz(context.Background(), "   ", "beginner", 5)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("empty topic: expected ErrInvalidArgument, got %v", err)
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusBadRequest {
		t.Fatalf("empty topic: expected a 400 carrier, got %v", err)
	}
	if _, err := svc.GenerateQuiz(context.Background(), "sorting", "impossible", 5); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("bad difficulty: expected ErrInvalidArgument, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("model called despite invalid input: %d calls", gw.calls)
	}
}

func TestGenerateQuiz_MalformedModelOutput(t *testing.T) {
	svc := newQuizService(t, &fakeLLM{response: "I could not produce a quiz today."})

	_, err := svc.GenerateQuiz(context.Background(), "sorting", "beginner", 5)
	var malformed *roadmap.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestGenerateQuiz_NoUsableQuestions(t *testing.T) {
	svc := newQuizService(t, &fakeLLM{
		response: `{"topic":"x","difficulty":"beginner","questions":[{"question_text":"","options":[],"correct_option":0,"explanation":""}]}`,
	})

	_, err := svc.GenerateQuiz(context.Background(), "x", "beginner", 5)
	if !errors.Is(err, pkgerrors.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusBadGateway {
		t.Fatalf("expected a 502 carrier, got %v", err)
	}
}
