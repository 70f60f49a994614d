package roadmap

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

var difficultySchema = Schema{
	Name: StageDifficulty,
	Fields: []FieldSpec{
		{Name: "phase_difficulties", Kind: KindObject},
		{Name: "adaptive_factors", Kind: KindList},
	},
}

func runDifficulty(ctx context.Context, gw Gateway, subject string, st State) (State, error) {
	graph := st.Roadmap.PrerequisiteGraph
	if graph == nil {
		return st, &MissingPrerequisiteError{Stage: StageDifficulty, Key: "prerequisite_graph"}
	}
	level := "beginner"
	if st.Roadmap.SkillEvaluation != nil {
		level = st.Roadmap.SkillEvaluation.SkillLevel
	}

	system, user := difficultyPrompt(subject, level, graph)
	obj, err := generate(ctx, gw, system, user, difficultySchema)
	if err != nil {
		return st, err
	}

	out := DifficultyEstimation{
		PhaseDifficulties: map[string]string{},
		AdaptiveFactors:   coerceStringList(obj["adaptive_factors"]),
	}
	raw, _ := obj["phase_difficulties"].(map[string]any)
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out.PhaseDifficulties[strings.TrimSpace(k)] = strings.ToLower(strings.TrimSpace(s))
	}
	if err := checkPhaseDifficulties(out.PhaseDifficulties); err != nil {
		return st, err
	}

	st.Roadmap.DifficultyEstimation = &out
	return st.withLog(StageDifficulty, "estimate",
		fmt.Sprintf("rated %d phases", len(out.PhaseDifficulties))), nil
}

// checkPhaseDifficulties requires a rating for each of phases "1".."4",
// each drawn from the skill-level set.
func checkPhaseDifficulties(m map[string]string) error {
	for i := 1; i <= minLearningPhases; i++ {
		key := strconv.Itoa(i)
		v, ok := m[key]
		if !ok {
			return &SchemaViolationError{
				Schema: StageDifficulty,
				Field:  "phase_difficulties." + key,
				Reason: "is missing",
			}
		}
		if !enumContains(skillLevels, v) {
			return &SchemaViolationError{
				Schema: StageDifficulty,
				Field:  "phase_difficulties." + key,
				Reason: fmt.Sprintf("must be one of {%s}", strings.Join(skillLevels, ", ")),
			}
		}
	}
	return nil
}
