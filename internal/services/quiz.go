package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/apierr"
	"github.com/atlaslearn/atlas-backend/internal/platform/llm"
	"github.com/atlaslearn/atlas-backend/internal/roadmap"
)

const (
	defaultQuizQuestions = 5
	maxQuizQuestions     = 20
)

var quizDifficulties = []string{"beginner", "intermediate", "advanced"}

type QuizQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	Topic      string         `json:"topic"`
	Difficulty string         `json:"difficulty"`
	Questions  []QuizQuestion `json:"questions"`
}

type QuizService interface {
	GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (Quiz, error)
}

type quizService struct {
	log *logger.Logger
	llm llm.Client
}

func NewQuizService(log *logger.Logger, llmClient llm.Client) QuizService {
	return &quizService{log: log.With("service", "QuizService"), llm: llmClient}
}

var quizSchema = roadmap.Schema{
	Name: "quiz",
	Fields: []roadmap.FieldSpec{
		{Name: "topic", Kind: roadmap.KindString},
		{Name: "difficulty", Kind: roadmap.KindString, Enum: quizDifficulties},
		{Name: "questions", Kind: roadmap.KindList},
	},
}

func (qs *quizService) GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (Quiz, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Quiz{}, apierr.New(http.StatusBadRequest, "invalid_request",
			fmt.Errorf("topic is required: %w", pkgerrors.ErrInvalidArgument))
	}
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	if difficulty == "" {
		difficulty = "intermediate"
	}
	valid := false
	for _, d := range quizDifficulties {
		if d == difficulty {
			valid = true
		}
	}
	if !valid {
		return Quiz{}, apierr.New(http.StatusBadRequest, "invalid_request",
			fmt.Errorf("difficulty must be one of %s: %w",
				strings.Join(quizDifficulties, "/"), pkgerrors.ErrInvalidArgument))
	}
	if numQuestions <= 0 {
		numQuestions = defaultQuizQuestions
	}
	if numQuestions > maxQuizQuestions {
		numQuestions = maxQuizQuestions
	}

	system, user := quizPrompt(topic, difficulty, numQuestions)
	raw, err := qs.llm.GenerateText(ctx, system, user, llm.GenerateOptions{})
	if err != nil {
		return Quiz{}, apierr.New(http.StatusBadGateway, "quiz_generation_failed",
			fmt.Errorf("quiz generation: %w", err))
	}
	obj, err := roadmap.ExtractJSON(raw)
	if err != nil {
		return Quiz{}, apierr.New(http.StatusBadGateway, "quiz_generation_failed", err)
	}
	if err := roadmap.Validate(obj, quizSchema); err != nil {
		return Quiz{}, apierr.New(http.StatusBadGateway, "quiz_generation_failed", err)
	}

	var quiz Quiz
	if err := decodeJSON(obj, &quiz); err != nil {
		return Quiz{}, apierr.New(http.StatusBadGateway, "quiz_generation_failed",
			fmt.Errorf("quiz decode: %w", err))
	}
	quiz.Difficulty = strings.ToLower(quiz.Difficulty)
	// Drop questions the model under-specified rather than failing the
	// whole quiz.
	kept := quiz.Questions[:0]
	for _, q := range quiz.Questions {
		if strings.TrimSpace(q.QuestionText) == "" || len(q.Options) < 2 {
			continue
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			continue
		}
		kept = append(kept, q)
	}
	quiz.Questions = kept
	if len(quiz.Questions) == 0 {
		return Quiz{}, apierr.New(http.StatusBadGateway, "quiz_generation_failed",
			fmt.Errorf("model produced no usable questions: %w", pkgerrors.ErrUnavailable))
	}
	return quiz, nil
}

func decodeJSON(obj map[string]any, out any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func quizPrompt(topic, difficulty string, numQuestions int) (string, string) {
	sys := `ROLE: Quiz author for a technical learning platform.
TASK: Write multiple-choice questions that test understanding of the topic at the requested difficulty.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: Each question has 4 options and exactly one correct answer. correct_option is the zero-based index into options. Explanations are one sentence.`
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nDifficulty: %s\nNumber of questions: %d\n", topic, difficulty, numQuestions)
	b.WriteString("\nReturn JSON shaped like:\n")
	b.WriteString(`{"topic":"...","difficulty":"beginner","questions":[{"question_text":"...","options":["a","b","c","d"],"correct_option":0,"explanation":"..."}]}`)
	return sys, b.String()
}
