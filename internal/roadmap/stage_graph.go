package roadmap

import (
	"context"
	"fmt"
	"strings"
)

const minLearningPhases = 4

var graphSchema = Schema{
	Name: StageGraph,
	Fields: []FieldSpec{
		{Name: "nodes", Kind: KindList},
		{Name: "edges", Kind: KindList},
		{Name: "learning_phases", Kind: KindList},
	},
}

func runGraph(ctx context.Context, gw Gateway, subject string, st State) (State, error) {
	gaps := st.Roadmap.GapAnalysis
	if gaps == nil {
		return st, &MissingPrerequisiteError{Stage: StageGraph, Key: "gap_analysis"}
	}

	system, user := prereqGraphPrompt(subject, gaps)
	obj, err := generate(ctx, gw, system, user, graphSchema)
	if err != nil {
		return st, err
	}

	var out PrerequisiteGraph
	if err := decodeInto(obj, &out); err != nil {
		return st, &SchemaViolationError{Schema: StageGraph, Field: "edges", Reason: "has malformed entries"}
	}
	coerceGraph(&out)

	st.Roadmap.PrerequisiteGraph = &out
	return st.withLog(StageGraph, "build",
		fmt.Sprintf("%d nodes, %d edges, %d phases", len(out.Nodes), len(out.Edges), len(out.LearningPhases))), nil
}

// coerceGraph drops edges whose endpoints are not nodes, renumbers phase
// ids sequentially, and pads the phase list so a roadmap always has at
// least four phases. Padding phases are empty rather than invented: a
// short graph is the model under-splitting, not missing material.
func coerceGraph(g *PrerequisiteGraph) {
	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[strings.ToLower(strings.TrimSpace(n))] = true
	}
	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if known[strings.ToLower(strings.TrimSpace(e.From))] && known[strings.ToLower(strings.TrimSpace(e.To))] {
			edges = append(edges, e)
		}
	}
	g.Edges = edges

	for i := range g.LearningPhases {
		g.LearningPhases[i].PhaseID = i + 1
		if g.LearningPhases[i].Concepts == nil {
			g.LearningPhases[i].Concepts = []string{}
		}
	}
	for len(g.LearningPhases) < minLearningPhases {
		g.LearningPhases = append(g.LearningPhases, LearningPhase{
			PhaseID:  len(g.LearningPhases) + 1,
			Concepts: []string{},
		})
	}
}
