package roadmap

import (
	"context"
	"fmt"
)

var projectSchema = Schema{
	Name: StageProject,
	Fields: []FieldSpec{
		{Name: "title", Kind: KindString},
		{Name: "description", Kind: KindString},
		{Name: "deliverables", Kind: KindList},
		{Name: "estimated_hours", Kind: KindNumber},
	},
}

func runProject(ctx context.Context, gw Gateway, goal, subject string, st State) (State, error) {
	if len(st.Roadmap.Phases) == 0 {
		return st, &MissingPrerequisiteError{Stage: StageProject, Key: "phases"}
	}
	level := "beginner"
	if st.Roadmap.SkillEvaluation != nil {
		level = st.Roadmap.SkillEvaluation.SkillLevel
	}

	system, user := projectPrompt(goal, subject, level, st.Roadmap.Phases)
	obj, err := generate(ctx, gw, system, user, projectSchema)
	if err != nil {
		return st, err
	}

	var out CourseProject
	if err := decodeInto(obj, &out); err != nil {
		return st, &SchemaViolationError{Schema: StageProject, Field: "deliverables", Reason: "has malformed entries"}
	}
	if out.EstimatedHours <= 0 {
		out.EstimatedHours = 10
	}

	st.Roadmap.CourseProject = &out
	return st.withLog(StageProject, "generate",
		fmt.Sprintf("project %q with %d deliverables", out.Title, len(out.Deliverables))), nil
}
