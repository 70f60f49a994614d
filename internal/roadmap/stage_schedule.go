package roadmap

import (
	"context"
	"fmt"
)

var scheduleSchema = Schema{
	Name: StageSchedule,
	Fields: []FieldSpec{
		{Name: "total_weeks", Kind: KindInt},
		{Name: "hours_per_week", Kind: KindNumber},
		{Name: "weekly_plan", Kind: KindList},
	},
}

func runSchedule(ctx context.Context, gw Gateway, subject string, timePerWeek float64, deadline string, st State) (State, error) {
	if len(st.Roadmap.Phases) == 0 {
		return st, &MissingPrerequisiteError{Stage: StageSchedule, Key: "phases"}
	}

	system, user := schedulePrompt(subject, timePerWeek, deadline, st.Roadmap.Phases, st.Roadmap.CourseProject)
	obj, err := generate(ctx, gw, system, user, scheduleSchema)
	if err != nil {
		return st, err
	}

	var out LearningSchedule
	if err := decodeInto(obj, &out); err != nil {
		return st, &SchemaViolationError{Schema: StageSchedule, Field: "weekly_plan", Reason: "has malformed entries"}
	}
	// The plan length is authoritative over the model's own count.
	out.TotalWeeks = len(out.WeeklyPlan)
	if out.HoursPerWeek <= 0 {
		out.HoursPerWeek = timePerWeek
	}
	if out.HoursPerWeek <= 0 {
		out.HoursPerWeek = 5
	}

	st.Roadmap.LearningSchedule = &out
	return st.withLog(StageSchedule, "plan",
		fmt.Sprintf("%d weeks at %.1f hours/week", out.TotalWeeks, out.HoursPerWeek)), nil
}
