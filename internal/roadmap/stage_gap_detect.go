package roadmap

import (
	"context"
	"fmt"
)

var gapDetectSchema = Schema{
	Name: StageGapDetect,
	Fields: []FieldSpec{
		{Name: "gaps", Kind: KindList},
		{Name: "prerequisites_needed", Kind: KindList},
		{Name: "num_gaps", Kind: KindInt},
	},
}

func runGapDetect(ctx context.Context, gw Gateway, goal, subject string, st State) (State, error) {
	eval := st.Roadmap.SkillEvaluation
	if eval == nil {
		return st, &MissingPrerequisiteError{Stage: StageGapDetect, Key: "skill_evaluation"}
	}

	system, user := gapDetectPrompt(goal, subject, eval)
	obj, err := generate(ctx, gw, system, user, gapDetectSchema)
	if err != nil {
		return st, err
	}

	out := GapAnalysis{
		Gaps:                coerceStringList(obj["gaps"]),
		PrerequisitesNeeded: coerceStringList(obj["prerequisites_needed"]),
	}
	// The model's own count is advisory; the authoritative count is the
	// list length.
	out.NumGaps = len(out.Gaps)

	st.Roadmap.GapAnalysis = &out
	return st.withLog(StageGapDetect, "detect",
		fmt.Sprintf("found %d gaps, %d prerequisites", out.NumGaps, len(out.PrerequisitesNeeded))), nil
}
