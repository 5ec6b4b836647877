package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-backend/internal/auth"
)

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/indexes/kbindex/docs/search", r.URL.Path)
		assert.Equal(t, apiVersion, r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is the deductible", body.Search)
		assert.Equal(t, 2, body.Top)
		assert.Equal(t, "category ne 'internal'", body.Filter)
		assert.Equal(t, "semantic", body.QueryType)
		assert.Equal(t, "extractive|highlight-false", body.Captions)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":[
			{"id":"1","text":"Deductible is $500.","kind":"benefits","page":"plan.pdf#page=2",
			 "@search.captions":[{"text":"Deductible is $500.","highlights":""}]},
			{"id":"2","text":"Copay is $20.","kind":"benefits","page":"plan.pdf#page=3"}
		]}`))
	}))
	defer server.Close()

	tokens := auth.NewTokenProvider(auth.NewKeyCredential("test-key"), auth.SearchResource)
	client := NewClient(server.URL, "kbindex", Fields{Content: "text", Category: "kind", SourcePage: "page"}, tokens)

	docs, err := client.Search(context.Background(), Query{
		Text:     "what is the deductible",
		Top:      2,
		Filter:   "category ne 'internal'",
		Semantic: true,
		Captions: true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, Document{
		ID:         "1",
		Content:    "Deductible is $500.",
		Category:   "benefits",
		SourcePage: "plan.pdf#page=2",
		Captions:   []string{"Deductible is $500."},
	}, docs[0])
	assert.Equal(t, "plan.pdf#page=3", docs[1].SourcePage)
	assert.Empty(t, docs[1].Captions)
}

type staticBearer struct{}

func (staticBearer) GetToken(ctx context.Context, resource string) (auth.Token, error) {
	return auth.Token{Value: "bearer-token"}, nil
}

func (staticBearer) IsKey() bool { return false }

func TestClientSearchBearerAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer bearer-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("api-key"))

		var body searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "simple", body.QueryType)
		assert.Empty(t, body.Captions)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":[]}`))
	}))
	defer server.Close()

	tokens := auth.NewTokenProvider(staticBearer{}, auth.SearchResource)
	client := NewClient(server.URL, "kbindex", Fields{Content: "content"}, tokens)

	docs, err := client.Search(context.Background(), Query{Text: "hello", Captions: true})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestClientSearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"index not found"}}`, http.StatusNotFound)
	}))
	defer server.Close()

	tokens := auth.NewTokenProvider(auth.NewKeyCredential("k"), auth.SearchResource)
	client := NewClient(server.URL, "missing", Fields{}, tokens)

	_, err := client.Search(context.Background(), Query{Text: "hello"})
	assert.ErrorContains(t, err, "404")
}
