package roadmap

import (
	"context"
	"fmt"
	"strings"
)

const interviewQuestionCount = 5

var interviewSchema = Schema{
	Name: StageInterview,
	Fields: []FieldSpec{
		{Name: "questions", Kind: KindList},
	},
}

// runInterview generates the onboarding questions and merges them with any
// answers supplied up front.
func runInterview(ctx context.Context, gw Gateway, goal, subject string, answers []string, st State) (State, error) {
	system, user := interviewPrompt(goal, subject)
	obj, err := generate(ctx, gw, system, user, interviewSchema)
	if err != nil {
		return st, err
	}

	var out Interview
	if err := decodeInto(obj, &out); err != nil {
		return st, &SchemaViolationError{Schema: StageInterview, Field: "questions", Reason: "has malformed entries"}
	}
	coerceQuestions(&out)
	if got := len(out.Questions); got != interviewQuestionCount {
		return st, &CountMismatchError{Stage: StageInterview, Want: interviewQuestionCount, Got: got}
	}
	out.Answers = answers

	st.Roadmap.Interview = &out
	return st.withLog(StageInterview, "generate_questions",
		fmt.Sprintf("generated %d questions", len(out.Questions))), nil
}

// coerceQuestions fills defaults the model tends to drop: synthetic
// question ids, a default type and category.
func coerceQuestions(iv *Interview) {
	for i := range iv.Questions {
		q := &iv.Questions[i]
		if strings.TrimSpace(q.QuestionID) == "" {
			q.QuestionID = fmt.Sprintf("q%d", i+1)
		}
		if strings.TrimSpace(q.QuestionType) == "" {
			q.QuestionType = "open_ended"
		}
		if strings.TrimSpace(q.Category) == "" {
			q.Category = "general"
		}
	}
}
