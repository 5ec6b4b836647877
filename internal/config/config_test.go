package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.BackendURI)
	assert.Equal(t, 5, cfg.ChatHistoryMinutes)
	assert.Equal(t, "content", cfg.FieldsContent)
	assert.Equal(t, "sourcepage", cfg.FieldsSourcePage)
	assert.Equal(t, "https://gptkb.search.windows.net", cfg.SearchURL())
	assert.Equal(t, "https://myopenai.openai.azure.com", cfg.OpenAIURL())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("BACKEND_URI", "https://backend.example.com/")
	t.Setenv("CHAT_HISTORY_DB_MIN", "30")
	t.Setenv("AZURE_SEARCH_ENDPOINT", "http://localhost:9200/")
	t.Setenv("STORAGE_TYPE", "local")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example.com", cfg.BackendURI)
	assert.Equal(t, 30, cfg.ChatHistoryMinutes)
	assert.Equal(t, "http://localhost:9200", cfg.SearchURL())
	assert.Equal(t, "local", cfg.StorageType)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Run("StorageType", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "blob")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("HistoryMinutes", func(t *testing.T) {
		t.Setenv("CHAT_HISTORY_DB_MIN", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("NotANumber", func(t *testing.T) {
		t.Setenv("CHAT_HISTORY_DB_MIN", "five")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
