package approaches

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"gopkg.in/yaml.v2"

	"rag-backend/internal/llm"
	"rag-backend/internal/search"
	"rag-backend/pkg/api"
)

// Name identifies an approach in a registry.
type Name string

const (
	RetrieveThenReadName     Name = "rtr"
	ReadRetrieveReadName     Name = "rrr"
	ReadDecomposeAskName     Name = "rda"
	ChatReadRetrieveReadName Name = "rrr"
)

const defaultTop = 3

type AskApproach interface {
	Run(ctx context.Context, question string, overrides api.Overrides) (api.Result, error)
}

type ChatApproach interface {
	Run(ctx context.Context, history []api.Turn, overrides api.Overrides) (api.Result, error)
}

// Deps are the clients shared by all approaches.
type Deps struct {
	Search            search.Searcher
	Models            llm.ModelSource
	GPTDeployment     string
	ChatGPTDeployment string
	Fields            search.Fields
}

func NewAskApproaches(deps Deps) map[Name]AskApproach {
	return map[Name]AskApproach{
		RetrieveThenReadName: NewRetrieveThenRead(deps),
		ReadRetrieveReadName: NewReadRetrieveRead(deps),
		ReadDecomposeAskName: NewReadDecomposeAsk(deps),
	}
}

func NewChatApproaches(deps Deps) map[Name]ChatApproach {
	return map[Name]ChatApproach{
		ChatReadRetrieveReadName: NewChatReadRetrieveRead(deps),
	}
}

//go:embed prompts.yaml
var promptsYAML []byte

type promptSet struct {
	RetrieveThenRead  string `yaml:"retrieve_then_read"`
	QueryGeneration   string `yaml:"query_generation"`
	ReadRetrieveRead  string `yaml:"read_retrieve_read"`
	Decompose         string `yaml:"decompose"`
	ChatQuery         string `yaml:"chat_query"`
	ChatSystem        string `yaml:"chat_system"`
	FollowUpQuestions string `yaml:"follow_up_questions"`
}

var prompts = mustLoadPrompts()

func mustLoadPrompts() promptSet {
	var p promptSet
	if err := yaml.Unmarshal(promptsYAML, &p); err != nil {
		panic(fmt.Sprintf("invalid embedded prompts: %v", err))
	}
	return p
}

// fill replaces each {key} in template with its value.
func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func nonewlines(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

func thoughtsHTML(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>")
}

func searchQuery(text string, deps Deps, overrides api.Overrides) search.Query {
	top := overrides.Top
	if top <= 0 {
		top = defaultTop
	}

	var filter string
	if overrides.ExcludeCategory != "" {
		category := deps.Fields.Category
		if category == "" {
			category = "category"
		}
		filter = fmt.Sprintf("%s ne '%s'", category, strings.ReplaceAll(overrides.ExcludeCategory, "'", "''"))
	}

	return search.Query{
		Text:     text,
		Top:      top,
		Filter:   filter,
		Semantic: overrides.SemanticRanker,
		Captions: overrides.SemanticRanker && overrides.SemanticCaptions,
	}
}

// formatSources renders documents as "sourcepage: content" lines.
func formatSources(docs []search.Document, useCaptions bool) []string {
	sources := make([]string, 0, len(docs))
	for _, doc := range docs {
		text := doc.Content
		if useCaptions && len(doc.Captions) > 0 {
			text = strings.Join(doc.Captions, " . ")
		}
		sources = append(sources, doc.SourcePage+": "+nonewlines(text))
	}
	return sources
}

func temperature(overrides api.Overrides, fallback float64) float64 {
	if overrides.Temperature != nil {
		return *overrides.Temperature
	}
	return fallback
}

func complete(ctx context.Context, models llm.ModelSource, deployment, prompt string, options ...llms.CallOption) (string, error) {
	model, err := models.Model(ctx, deployment)
	if err != nil {
		return "", err
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, model, prompt, options...)
	if err != nil {
		return "", fmt.Errorf("completion failed on deployment %s: %w", deployment, err)
	}

	return strings.TrimSpace(answer), nil
}
