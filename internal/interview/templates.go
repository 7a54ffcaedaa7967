package interview

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-screener/internal/types"
)

// TemplateGenerator builds questions from fixed templates over the
// profile's projects and skills. It needs no network and is used when no
// LLM is configured.
type TemplateGenerator struct{}

// Generate returns exactly count questions with ids q1..qN.
func (TemplateGenerator) Generate(_ context.Context, profile *types.Profile, count int) ([]types.Question, error) {
	if err := validateRequest(profile, count); err != nil {
		return nil, err
	}
	questions := templateQuestions(profile, count)
	renumber(questions)
	return questions, nil
}

// genericQuestions backfill profiles with too few projects and skills to
// fill a batch. Cycled if even they run out.
var genericQuestions = []types.Question{
	{
		Text:        "Walk me through a production incident you handled. What went wrong, and what did you do first?",
		IdealAnswer: "Describes a concrete incident, the immediate mitigation, how the root cause was found, and what changed afterwards.",
	},
	{
		Text:        "Tell me about a technical decision you made that you later came to regret. What would you do differently?",
		IdealAnswer: "Owns a real decision, explains the context that made it seem right, and draws a specific lesson rather than a platitude.",
	},
	{
		Text:        "How do you approach testing before a risky change to a system you did not write?",
		IdealAnswer: "Covers reading the existing behavior first, characterization tests, staged rollout, and how they would detect a regression.",
	},
	{
		Text:        "Describe a time you had to learn an unfamiliar technology quickly to ship something. How did you go about it?",
		IdealAnswer: "Names the technology and deadline, shows a deliberate learning strategy, and is honest about what they skipped.",
	},
	{
		Text:        "Tell me about the most complex bug you have tracked down. How did you isolate it?",
		IdealAnswer: "Walks through a real hypothesis-driven debugging process and names the tools used to narrow the search.",
	},
	{
		Text:        "How do you decide when code is good enough to ship versus when it needs more work?",
		IdealAnswer: "Weighs risk, reversibility, and user impact rather than gut feel; mentions review and monitoring as backstops.",
	},
	{
		Text:        "Describe a disagreement you had with a teammate about a technical approach. How was it resolved?",
		IdealAnswer: "Shows they argued from data or prototypes, listened, and committed to the outcome regardless of whose approach won.",
	},
	{
		Text:        "What part of your current or most recent system would you redesign if you could, and why?",
		IdealAnswer: "Identifies a genuine weakness, explains the constraint that produced it, and sketches a realistic replacement.",
	},
}

// templateQuestions builds exactly count questions: one per project, then
// one per skill, then generics cycled as needed.
func templateQuestions(profile *types.Profile, count int) []types.Question {
	questions := make([]types.Question, 0, count)

	for _, project := range profile.Projects {
		if len(questions) == count {
			return questions
		}
		questions = append(questions, types.Question{
			Text: fmt.Sprintf("Tell me about %s. What was your role, and what was the hardest part?", project.Title),
			IdealAnswer: "Describes the project scope, their specific contribution, and one concrete " +
				"technical challenge with how it was resolved.",
		})
	}

	for _, skill := range profile.Skills {
		if len(questions) == count {
			return questions
		}
		questions = append(questions, types.Question{
			Text: fmt.Sprintf("Describe a real problem you solved using %s. What made it hard?", skill),
			IdealAnswer: fmt.Sprintf("Names a specific situation, explains why %s fit, and covers the "+
				"trade-offs or failure modes they considered.", skill),
		})
	}

	for i := 0; len(questions) < count; i++ {
		questions = append(questions, genericQuestions[i%len(genericQuestions)])
	}
	return questions
}
