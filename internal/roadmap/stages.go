package roadmap

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/atlaslearn/atlas-backend/internal/platform/llm"
)

// Stage names, in pipeline order. These double as the agent labels in logs.
const (
	StageInterview  = "interview"
	StageSkillEval  = "skill_evaluation"
	StageGapDetect  = "gap_detection"
	StageGraph      = "prerequisite_graph"
	StageDifficulty = "difficulty_estimation"
	StageResources  = "resource_retrieval"
	StageProject    = "project_generation"
	StageSchedule   = "time_planning"
	StageAssembly   = "assembly"
)

var skillLevels = []string{"beginner", "intermediate", "advanced"}

// Gateway is the one capability stages need from the model client.
// llm.Client satisfies it; tests supply scripted fakes.
type Gateway interface {
	GenerateText(ctx context.Context, system, user string, opts llm.GenerateOptions) (string, error)
}

// generate runs one model round-trip and validates the extracted object
// against the stage schema.
func generate(ctx context.Context, gw Gateway, system, user string, schema Schema) (map[string]any, error) {
	raw, err := gw.GenerateText(ctx, system, user, llm.GenerateOptions{})
	if err != nil {
		return nil, err
	}
	obj, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(obj, schema); err != nil {
		return nil, err
	}
	return obj, nil
}

// decodeInto re-marshals a validated object into a typed stage output.
func decodeInto(obj map[string]any, out any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func coerceStringList(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}
