package approaches

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"rag-backend/pkg/api"
)

// ReadRetrieveRead first has the model write a search query for the
// question, then answers from what that query retrieves.
type ReadRetrieveRead struct {
	deps Deps
}

func NewReadRetrieveRead(deps Deps) *ReadRetrieveRead {
	return &ReadRetrieveRead{deps: deps}
}

func (a *ReadRetrieveRead) Run(ctx context.Context, question string, overrides api.Overrides) (api.Result, error) {
	var thoughts strings.Builder

	queryPrompt := fill(prompts.QueryGeneration, map[string]string{"q": question})
	query, err := complete(ctx, a.deps.Models, a.deps.GPTDeployment, queryPrompt,
		llms.WithTemperature(0),
		llms.WithMaxTokens(32),
		llms.WithStopWords([]string{"\n"}),
	)
	if err != nil {
		return api.Result{}, fmt.Errorf("error generating search query: %w", err)
	}
	if query == "" {
		query = question
	}
	fmt.Fprintf(&thoughts, "Thought: I need to search the knowledge base.<br>Action: Search[%s]<br>", query)

	docs, err := a.deps.Search.Search(ctx, searchQuery(query, a.deps, overrides))
	if err != nil {
		return api.Result{}, fmt.Errorf("error searching for '%s': %w", query, err)
	}
	sources := formatSources(docs, overrides.SemanticCaptions)
	fmt.Fprintf(&thoughts, "Observation: found %d sources<br>", len(sources))

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
	fmt.Fprintf(&thoughts, "Thought: I can answer from the sources.<br><br>Prompt:<br>%s", thoughtsHTML(prompt))

	return api.Result{DataPoints: sources, Answer: answer, Thoughts: thoughts.String()}, nil
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
