package roadmap

import (
	"fmt"
	"strings"
)

func interviewPrompt(goal, subject string) (string, string) {
	sys := `ROLE: Onboarding interviewer for a technical learning platform.
TASK: Generate exactly 5 interview questions that surface the learner's background, prior exposure, goals, time availability, and preferred learning style for the given subject.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: Exactly 5 questions. question_id values must be q1..q5. question_type is one of "open_ended", "multiple_choice", "scale". Every question must be answerable in one or two sentences.`
	var b strings.Builder
	b.WriteString("Learning goal: ")
	b.WriteString(strings.TrimSpace(goal))
	b.WriteString("\nSubject area: ")
	b.WriteString(strings.TrimSpace(subject))
	b.WriteString("\n\nReturn JSON shaped like:\n")
	b.WriteString(`{"questions":[{"question_id":"q1","question_text":"...","question_type":"open_ended","category":"background","required":true,"context":"..."}]}`)
	return sys, b.String()
}

func skillEvalPrompt(goal, subject string, iv *Interview) (string, string) {
	sys := `ROLE: Skill assessor.
TASK: Infer the learner's overall skill level from their interview answers.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: skill_level is exactly one of "beginner", "intermediate", "advanced". Ground every strength and weakness in a specific answer.`
	var b strings.Builder
	b.WriteString("Learning goal: ")
	b.WriteString(strings.TrimSpace(goal))
	b.WriteString("\nSubject area: ")
	b.WriteString(strings.TrimSpace(subject))
	b.WriteString("\n\nInterview transcript:\n")
	for i, q := range iv.Questions {
		answer := "(no answer)"
		if i < len(iv.Answers) && strings.TrimSpace(iv.Answers[i]) != "" {
			answer = iv.Answers[i]
		}
		fmt.Fprintf(&b, "- Q (%s): %s\n  A: %s\n", q.Category, q.QuestionText, answer)
	}
	b.WriteString("\nReturn JSON shaped like:\n")
	b.WriteString(`{"skill_level":"beginner","strengths":["..."],"weaknesses":["..."],"analysis_notes":["..."]}`)
	return sys, b.String()
}

func gapDetectPrompt(goal, subject string, eval *SkillEvaluation) (string, string) {
	sys := `ROLE: Curriculum analyst.
TASK: Identify concrete knowledge gaps between the learner's assessed level and the stated goal, and the prerequisites needed before closing them.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: Gaps are concept names, not sentences. num_gaps must equal the length of the gaps array.`
	var b strings.Builder
	b.WriteString("Learning goal: ")
	b.WriteString(strings.TrimSpace(goal))
	b.WriteString("\nSubject area: ")
	b.WriteString(strings.TrimSpace(subject))
	fmt.Fprintf(&b, "\nAssessed skill level: %s\n", eval.SkillLevel)
	writeList(&b, "Strengths", eval.Strengths)
	writeList(&b, "Weaknesses", eval.Weaknesses)
	b.WriteString("\nReturn JSON shaped like:\n")
	b.WriteString(`{"gaps":["..."],"prerequisites_needed":["..."],"num_gaps":2}`)
	return sys, b.String()
}

func prereqGraphPrompt(subject string, gaps *GapAnalysis) (string, string) {
	sys := `ROLE: Prerequisite-graph builder.
TASK: Order the listed concepts into a dependency graph and group them into 4 learning phases from foundations to goal-level material.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: Every edge endpoint must appear in nodes. Exactly 4 learning_phases with phase_id 1..4; earlier phases hold prerequisites of later phases. A phase may have an empty concepts array if the material genuinely front-loads.`
	var b strings.Builder
	b.WriteString("Subject area: ")
	b.WriteString(strings.TrimSpace(subject))
	writeList(&b, "\nKnowledge gaps", gaps.Gaps)
	writeList(&b, "Prerequisites needed", gaps.PrerequisitesNeeded)
	b.WriteString("\nReturn JSON shaped like:\n")
	b.WriteString(`{"nodes":["..."],"edges":[{"from":"...","to":"..."}],"learning_phases":[{"phase_id":1,"title":"...","concepts":["..."]}]}`)
	return sys, b.String()
}

func difficultyPrompt(subject, skillLevel string, graph *PrerequisiteGraph) (string, string) {
	sys := `ROLE: Difficulty estimator.
TASK: Rate each of the 4 learning phases for this specific learner.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: phase_difficulties has exactly the keys "1","2","3","4"; each value is one of "beginner", "intermediate", "advanced". Difficulty must be non-decreasing across phases unless a phase is pure review.`
	var b strings.Builder
	b.WriteString("Subject area: ")
	b.WriteString(strings.TrimSpace(subject))
	fmt.Fprintf(&b, "\nLearner skill level: %s\n\nPhases:\n", skillLevel)
	for _, p := range graph.LearningPhases {
		fmt.Fprintf(&b, "- phase %d (%s): %s\n", p.PhaseID, p.Title, strings.Join(p.Concepts, ", "))
	}
	b.WriteString("\nReturn JSON shaped like:\n")
	b.WriteString(`{"phase_difficulties":{"1":"beginner","2":"beginner","3":"intermediate","4":"advanced"},"adaptive_factors":["..."]}`)
	return sys, b.String()
}

func projectPrompt(goal, subject, skillLevel string, phases []Phase) (string, string) {
	sys := `ROLE: Capstone project designer.
TASK: Design one course project that exercises the concepts from all 4 phases at the learner's level.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: Deliverables are concrete artifacts. estimated_hours is a realistic positive number.`
	var b strings.Builder
	b.WriteString("Learning goal: ")
	b.WriteString(strings.TrimSpace(goal))
	b.WriteString("\nSubject area: ")
	b.WriteString(strings.TrimSpace(subject))
	fmt.Fprintf(&b, "\nLearner skill level: %s\n\nPhase outline:\n", skillLevel)
	b.WriteString(phaseOutline(phases))
	b.WriteString("\nReturn JSON shaped like:\n")
	b.WriteString(`{"title":"...","description":"...","deliverables":["..."],"estimated_hours":12}`)
	return sys, b.String()
}

func schedulePrompt(subject string, timePerWeek float64, deadline string, phases []Phase, project *CourseProject) (string, string) {
	sys := `ROLE: Study planner.
TASK: Lay the 4 phases and the course project out over a weekly schedule.
OUTPUT: Return ONLY JSON matching the schema (no extra keys, no prose).
RULES: total_weeks must equal the length of weekly_plan. Every phase_id referenced must be 1..4. hours_per_week is a realistic positive number. Respect the learner's stated availability and deadline when given.`
	var b strings.Builder
	b.WriteString("Subject area: ")
	b.WriteString(strings.TrimSpace(subject))
	if timePerWeek > 0 {
		fmt.Fprintf(&b, "\nLearner availability: %.1f hours per week", timePerWeek)
	}
	if d := strings.TrimSpace(deadline); d != "" {
		fmt.Fprintf(&b, "\nTarget deadline: %s", d)
	}
	b.WriteString("\n\nPhase outline:\n")
	b.WriteString(phaseOutline(phases))
	if project != nil {
		fmt.Fprintf(&b, "\nCourse project: %s (~%.0f hours)\n", project.Title, project.EstimatedHours)
	}
	b.WriteString("\nReturn JSON shaped like:\n")
	b.WriteString(`{"total_weeks":8,"hours_per_week":6,"weekly_plan":[{"week":1,"phase_id":1,"focus":"...","hours":6}]}`)
	return sys, b.String()
}

func phaseOutline(phases []Phase) string {
	var b strings.Builder
	for _, p := range phases {
		fmt.Fprintf(&b, "- phase %d: %s [%s] (%.0fh): %s\n",
			p.PhaseNumber, p.PhaseTitle, p.Difficulty, p.EstimatedDurationHours, strings.Join(p.Concepts, ", "))
	}
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	fmt.Fprintf(b, "%s:\n", label)
	if len(items) == 0 {
		b.WriteString("- (none)\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
