package approaches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"rag-backend/pkg/api"
)

const injectPromptMarker = ">>>"

// ChatReadRetrieveRead turns the conversation into a search query, retrieves
// sources, then answers the last turn with a chat completion that sees the
// whole conversation.
type ChatReadRetrieveRead struct {
	deps Deps
}

func NewChatReadRetrieveRead(deps Deps) *ChatReadRetrieveRead {
	return &ChatReadRetrieveRead{deps: deps}
}

func (a *ChatReadRetrieveRead) Run(ctx context.Context, history []api.Turn, overrides api.Overrides) (api.Result, error) {
	if len(history) == 0 {
		return api.Result{}, errors.New("chat history must contain at least one turn")
	}
	question := history[len(history)-1].User

	queryPrompt := fill(prompts.ChatQuery, map[string]string{
		"chat_history": formatHistory(history[:len(history)-1]),
		"q":            question,
	})
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

	docs, err := a.deps.Search.Search(ctx, searchQuery(query, a.deps, overrides))
	if err != nil {
		return api.Result{}, fmt.Errorf("error searching for '%s': %w", query, err)
	}
	sources := formatSources(docs, overrides.SemanticCaptions)

	system := a.systemPrompt(overrides, strings.Join(sources, "\n"))
	messages := chatMessages(system, history)

	model, err := a.deps.Models.Model(ctx, a.deps.ChatGPTDeployment)
	if err != nil {
		return api.Result{}, err
	}

	resp, err := model.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature(overrides, 0.7)),
		llms.WithMaxTokens(1024),
	)
	if err != nil {
		return api.Result{}, fmt.Errorf("chat completion failed on deployment %s: %w", a.deps.ChatGPTDeployment, err)
	}
	if len(resp.Choices) == 0 {
		return api.Result{}, fmt.Errorf("chat completion on deployment %s returned no choices", a.deps.ChatGPTDeployment)
	}

	return api.Result{
		DataPoints: sources,
		Answer:     strings.TrimSpace(resp.Choices[0].Content),
		Thoughts:   fmt.Sprintf("Searched for:<br>%s<br><br>Prompt:<br>%s", query, thoughtsHTML(system)),
	}, nil
}

// systemPrompt applies the prompt_template override: a template starting with
// ">>>" is injected ahead of the default prompt, anything else replaces it.
func (a *ChatReadRetrieveRead) systemPrompt(overrides api.Overrides, sources string) string {
	followUp := ""
	if overrides.SuggestFollowupQuestions {
		followUp = prompts.FollowUpQuestions
	}

	template := prompts.ChatSystem
	injected := ""
	switch {
	case overrides.PromptTemplate == "":
	case strings.HasPrefix(overrides.PromptTemplate, injectPromptMarker):
		injected = withNewline(strings.TrimSpace(strings.TrimPrefix(overrides.PromptTemplate, injectPromptMarker)))
	default:
		template = overrides.PromptTemplate
	}

	return fill(template, map[string]string{
		"injected_prompt":            injected,
		"follow_up_questions_prompt": followUp,
		"sources":                    sources,
	})
}

func chatMessages(system string, history []api.Turn) []llms.MessageContent {
	messages := []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeSystem, system)}
	for _, turn := range history[:len(history)-1] {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, turn.User))
		if turn.Bot != "" {
			messages = append(messages, llms.TextParts(schema.ChatMessageTypeAI, turn.Bot))
		}
	}
	return append(messages, llms.TextParts(schema.ChatMessageTypeHuman, history[len(history)-1].User))
}

func formatHistory(history []api.Turn) string {
	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "user: %s\n", turn.User)
		if turn.Bot != "" {
			fmt.Fprintf(&b, "assistant: %s\n", turn.Bot)
		}
	}
	return b.String()
}
