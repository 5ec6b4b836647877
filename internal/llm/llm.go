package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"rag-backend/internal/auth"
)

// ModelSource hands out a model bound to a deployment, with a fresh credential.
type ModelSource interface {
	Model(ctx context.Context, deployment string) (llms.Model, error)
}

const DefaultAPIVersion = "2023-05-15"

type AzureOpenAI struct {
	endpoint   string
	apiVersion string
	tokens     *auth.TokenProvider
}

var _ ModelSource = (*AzureOpenAI)(nil)

func NewAzureOpenAI(endpoint, apiVersion string, tokens *auth.TokenProvider) *AzureOpenAI {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &AzureOpenAI{endpoint: endpoint, apiVersion: apiVersion, tokens: tokens}
}

// Model builds a client per call: the bearer token may have been rotated
// since the previous call.
func (a *AzureOpenAI) Model(ctx context.Context, deployment string) (llms.Model, error) {
	token, err := a.tokens.EnsureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("error acquiring openai credential: %w", err)
	}

	apiType := openai.APITypeAzure
	if !a.tokens.IsKey() {
		apiType = openai.APITypeAzureAD
	}

	client, err := openai.New(
		openai.WithAPIType(apiType),
		openai.WithBaseURL(a.endpoint),
		openai.WithAPIVersion(a.apiVersion),
		openai.WithToken(token),
		openai.WithModel(deployment),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create openai client for deployment %s: %w", deployment, err)
	}

	return client, nil
}
