package roadmap

import (
	"context"
	"fmt"
	"strings"
)

var skillEvalSchema = Schema{
	Name: StageSkillEval,
	Fields: []FieldSpec{
		{Name: "skill_level", Kind: KindString, Enum: skillLevels},
		{Name: "strengths", Kind: KindList},
		{Name: "weaknesses", Kind: KindList},
		{Name: "analysis_notes", Kind: KindList},
	},
}

func runSkillEval(ctx context.Context, gw Gateway, goal, subject string, st State) (State, error) {
	iv := st.Roadmap.Interview
	if iv == nil {
		return st, &MissingPrerequisiteError{Stage: StageSkillEval, Key: "interview"}
	}
	if len(iv.Answers) == 0 {
		return st, &MissingPrerequisiteError{Stage: StageSkillEval, Key: "interview_answers"}
	}

	system, user := skillEvalPrompt(goal, subject, iv)
	obj, err := generate(ctx, gw, system, user, skillEvalSchema)
	if err != nil {
		return st, err
	}

	out := SkillEvaluation{
		SkillLevel:    strings.ToLower(strings.TrimSpace(obj["skill_level"].(string))),
		Strengths:     coerceStringList(obj["strengths"]),
		Weaknesses:    coerceStringList(obj["weaknesses"]),
		AnalysisNotes: coerceStringList(obj["analysis_notes"]),
	}

	st.Roadmap.SkillEvaluation = &out
	return st.withLog(StageSkillEval, "evaluate",
		fmt.Sprintf("assessed level %s (%d strengths, %d weaknesses)",
			out.SkillLevel, len(out.Strengths), len(out.Weaknesses))), nil
}
