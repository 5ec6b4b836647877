package approaches

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"rag-backend/pkg/api"
)

// RetrieveThenRead searches the index with the question as-is and answers
// from the top results in a single completion.
type RetrieveThenRead struct {
	deps Deps
}

func NewRetrieveThenRead(deps Deps) *RetrieveThenRead {
	return &RetrieveThenRead{deps: deps}
}

func (a *RetrieveThenRead) Run(ctx context.Context, question string, overrides api.Overrides) (api.Result, error) {
	docs, err := a.deps.Search.Search(ctx, searchQuery(question, a.deps, overrides))
	if err != nil {
		return api.Result{}, fmt.Errorf("error searching for question: %w", err)
	}

	sources := formatSources(docs, overrides.SemanticCaptions)

	template := prompts.RetrieveThenRead
	if overrides.PromptTemplate != "" {
		template = overrides.PromptTemplate
	}
	prompt := fill(template, map[string]string{
		"q":         question,
		"retrieved": strings.Join(sources, "\n"),
	})

	answer, err := complete(ctx, a.deps.Models, a.deps.GPTDeployment, prompt,
		llms.WithTemperature(temperature(overrides, 0.3)),
		llms.WithMaxTokens(1024),
		llms.WithStopWords([]string{"\n"}),
	)
	if err != nil {
		return api.Result{}, err
	}

	return api.Result{
		DataPoints: sources,
		Answer:     answer,
		Thoughts:   fmt.Sprintf("Question:<br>%s<br><br>Prompt:<br>%s", question, thoughtsHTML(prompt)),
	}, nil
}
