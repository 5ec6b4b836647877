package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"rag-backend/internal/auth"
)

const apiVersion = "2021-04-30-Preview"

// Fields maps the logical document fields onto the index schema.
type Fields struct {
	Content    string
	Category   string
	SourcePage string
}

type Document struct {
	ID         string
	Content    string
	Category   string
	SourcePage string
	Captions   []string
}

type Query struct {
	Text   string
	Top    int
	Filter string

	// Semantic enables the semantic ranker (with en-us language, lexical
	// speller and the "default" semantic configuration).
	Semantic bool
	Captions bool
}

// Searcher is the search index capability the approaches depend on.
type Searcher interface {
	Search(ctx context.Context, query Query) ([]Document, error)
}

type Client struct {
	client *resty.Client
	index  string
	fields Fields
	tokens *auth.TokenProvider
}

var _ Searcher = (*Client)(nil)

func NewClient(endpoint, index string, fields Fields, tokens *auth.TokenProvider) *Client {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &Client{client: client, index: index, fields: fields, tokens: tokens}
}

type searchRequest struct {
	Search                string `json:"search"`
	Top                   int    `json:"top,omitempty"`
	Filter                string `json:"filter,omitempty"`
	QueryType             string `json:"queryType,omitempty"`
	QueryLanguage         string `json:"queryLanguage,omitempty"`
	Speller               string `json:"speller,omitempty"`
	SemanticConfiguration string `json:"semanticConfiguration,omitempty"`
	Captions              string `json:"captions,omitempty"`
}

type searchResponse struct {
	Value []map[string]any `json:"value"`
}

func (c *Client) Search(ctx context.Context, query Query) ([]Document, error) {
	token, err := c.tokens.EnsureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("error acquiring search credential: %w", err)
	}

	body := searchRequest{
		Search: query.Text,
		Top:    query.Top,
		Filter: query.Filter,
	}
	if query.Semantic {
		body.QueryType = "semantic"
		body.QueryLanguage = "en-us"
		body.Speller = "lexical"
		body.SemanticConfiguration = "default"
		if query.Captions {
			body.Captions = "extractive|highlight-false"
		}
	} else {
		body.QueryType = "simple"
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("api-version", apiVersion).
		SetBody(body)
	if c.tokens.IsKey() {
		req.SetHeader("api-key", token)
	} else {
		req.SetAuthToken(token)
	}

	var result searchResponse
	res, err := req.SetResult(&result).Post(fmt.Sprintf("/indexes/%s/docs/search", c.index))
	if err != nil {
		return nil, fmt.Errorf("error querying search index %s: %w", c.index, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search index %s returned status %d: %s", c.index, res.StatusCode(), res.String())
	}

	docs := make([]Document, 0, len(result.Value))
	for _, raw := range result.Value {
		docs = append(docs, c.toDocument(raw))
	}

	slog.Debug("search completed", "index", c.index, "query", query.Text, "results", len(docs))

	return docs, nil
}

func (c *Client) toDocument(raw map[string]any) Document {
	doc := Document{
		ID:         stringField(raw, "id"),
		Content:    stringField(raw, c.fields.Content),
		Category:   stringField(raw, c.fields.Category),
		SourcePage: stringField(raw, c.fields.SourcePage),
	}

	if captions, ok := raw["@search.captions"].([]any); ok {
		for _, caption := range captions {
			if m, ok := caption.(map[string]any); ok {
				if text := stringField(m, "text"); text != "" {
					doc.Captions = append(doc.Captions, text)
				}
			}
		}
	}

	return doc
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
