package roadmap

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/atlaslearn/atlas-backend/internal/resources"
)

// ResourceFinder is the retrieval capability the resource stage needs.
// *resources.Selector satisfies it.
type ResourceFinder interface {
	Select(ctx context.Context, kind, subject, unit string, concepts []string) (resources.Selection, error)
}

// runResources materializes the phases from the graph and difficulty
// outputs, then retrieves books, videos, and slides for every phase. The
// four phases are independent, so retrieval fans out concurrently; each
// goroutine owns exactly one phase slot.
func runResources(ctx context.Context, finder ResourceFinder, subject string, st State) (State, error) {
	graph := st.Roadmap.PrerequisiteGraph
	if graph == nil {
		return st, &MissingPrerequisiteError{Stage: StageResources, Key: "prerequisite_graph"}
	}
	diff := st.Roadmap.DifficultyEstimation
	if diff == nil {
		return st, &MissingPrerequisiteError{Stage: StageResources, Key: "difficulty_estimation"}
	}

	phases := buildPhases(graph, diff)
	g, gctx := errgroup.WithContext(ctx)
	for i := range phases {
		g.Go(func() error {
			return fillPhaseResources(gctx, finder, subject, &phases[i])
		})
	}
	if err := g.Wait(); err != nil {
		return st, err
	}

	total := 0
	for _, p := range phases {
		total += len(p.Books) + len(p.Videos) + len(p.Slides)
	}
	st.Roadmap.Phases = phases
	return st.withLog(StageResources, "retrieve",
		fmt.Sprintf("attached %d resources across %d phases", total, len(phases))), nil
}

func buildPhases(graph *PrerequisiteGraph, diff *DifficultyEstimation) []Phase {
	phases := make([]Phase, 0, len(graph.LearningPhases))
	for _, lp := range graph.LearningPhases {
		difficulty := diff.PhaseDifficulties[strconv.Itoa(lp.PhaseID)]
		if difficulty == "" {
			difficulty = "intermediate"
		}
		title := strings.TrimSpace(lp.Title)
		if title == "" {
			title = fmt.Sprintf("Phase %d", lp.PhaseID)
		}
		phases = append(phases, Phase{
			PhaseNumber:            lp.PhaseID,
			PhaseTitle:             title,
			Difficulty:             difficulty,
			Concepts:               lp.Concepts,
			EstimatedDurationHours: phaseDuration(difficulty, len(lp.Concepts)),
		})
	}
	return phases
}

// phaseDuration is a coarse, always-positive estimate: a difficulty base
// plus a per-concept increment.
func phaseDuration(difficulty string, conceptCount int) float64 {
	base := 12.0
	switch difficulty {
	case "intermediate":
		base = 18
	case "advanced":
		base = 24
	}
	return base + 2*float64(conceptCount)
}

func fillPhaseResources(ctx context.Context, finder ResourceFinder, subject string, p *Phase) error {
	unit := strconv.Itoa(p.PhaseNumber)
	var warnings []string
	for _, kind := range []string{resources.KindBook, resources.KindVideo, resources.KindSlide} {
		sel, err := finder.Select(ctx, kind, subject, unit, p.Concepts)
		if err != nil {
			return err
		}
		switch kind {
		case resources.KindBook:
			p.Books = sel.Resources
		case resources.KindVideo:
			p.Videos = sel.Resources
		case resources.KindSlide:
			p.Slides = sel.Resources
		}
		if sel.Warning != "" {
			warnings = append(warnings, sel.Warning)
		}
	}
	p.ResourceWarnings = warnings
	return nil
}
