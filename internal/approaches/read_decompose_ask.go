package approaches

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"rag-backend/pkg/api"
)

const maxFollowUpQuestions = 3

// ReadDecomposeAsk splits the question into simpler follow-up questions,
// retrieves sources for each, and answers the original question from the
// combined sources.
type ReadDecomposeAsk struct {
	deps Deps
}

func NewReadDecomposeAsk(deps Deps) *ReadDecomposeAsk {
	return &ReadDecomposeAsk{deps: deps}
}

func (a *ReadDecomposeAsk) Run(ctx context.Context, question string, overrides api.Overrides) (api.Result, error) {
	var thoughts strings.Builder

	decomposePrompt := fill(prompts.Decompose, map[string]string{
		"q":             question,
		"max_questions": strconv.Itoa(maxFollowUpQuestions),
	})
	decomposed, err := complete(ctx, a.deps.Models, a.deps.GPTDeployment, decomposePrompt,
		llms.WithTemperature(0),
		llms.WithMaxTokens(256),
	)
	if err != nil {
		return api.Result{}, fmt.Errorf("error decomposing question: %w", err)
	}

	followUps := parseFollowUps(decomposed, maxFollowUpQuestions)
	if len(followUps) == 0 {
		followUps = []string{question}
	}

	seen := make(map[string]bool)
	var sources []string
	for _, followUp := range followUps {
		docs, err := a.deps.Search.Search(ctx, searchQuery(followUp, a.deps, overrides))
		if err != nil {
			return api.Result{}, fmt.Errorf("error searching for '%s': %w", followUp, err)
		}

		found := 0
		for _, source := range formatSources(docs, overrides.SemanticCaptions) {
			if seen[source] {
				continue
			}
			seen[source] = true
			sources = append(sources, source)
			found++
		}
		fmt.Fprintf(&thoughts, "Follow up: %s<br>Intermediate answer: %d new sources<br>", followUp, found)
	}

	prompt := fill(prompts.ReadRetrieveRead, map[string]string{
		"prefix":    withNewline(overrides.PromptTemplatePrefix),
		"suffix":    withNewline(overrides.PromptTemplateSuffix),
		"q":         question,
		"retrieved": strings.Join(sources, "\n"),
	})
	answer, err := complete(ctx, a.deps.Models, a.deps.GPTDeployment, prompt,
		llms.WithTemperature(temperature(overrides, 0.3)),
		llms.WithMaxTokens(1024),
	)
	if err != nil {
		return api.Result{}, err
	}
	fmt.Fprintf(&thoughts, "So the final answer is based on %d sources.<br><br>Prompt:<br>%s", len(sources), thoughtsHTML(prompt))

	return api.Result{DataPoints: sources, Answer: answer, Thoughts: thoughts.String()}, nil
}

// parseFollowUps returns up to limit non-empty lines, with list markers removed.
func parseFollowUps(text string, limit int) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789.) ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == limit {
			break
		}
	}
	return questions
}
