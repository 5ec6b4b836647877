package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BackendURI string `env:"BACKEND_URI" envDefault:"http://localhost:5000"`
	Port       int    `env:"PORT" envDefault:"5000"`
	StaticDir  string `env:"STATIC_DIR" envDefault:"static"`

	SearchService  string `env:"AZURE_SEARCH_SERVICE" envDefault:"gptkb"`
	SearchEndpoint string `env:"AZURE_SEARCH_ENDPOINT"`
	SearchIndex    string `env:"AZURE_SEARCH_INDEX" envDefault:"gptkbindex"`
	SearchKey      string `env:"AZURE_SEARCH_KEY"`

	OpenAIService           string `env:"AZURE_OPENAI_SERVICE" envDefault:"myopenai"`
	OpenAIEndpoint          string `env:"AZURE_OPENAI_ENDPOINT"`
	OpenAIKey               string `env:"AZURE_OPENAI_KEY"`
	OpenAIAPIVersion        string `env:"AZURE_OPENAI_API_VERSION" envDefault:"2023-05-15"`
	OpenAIGPTDeployment     string `env:"AZURE_OPENAI_GPT_DEPLOYMENT" envDefault:"davinci"`
	OpenAIChatGPTDeployment string `env:"AZURE_OPENAI_CHATGPT_DEPLOYMENT" envDefault:"chat"`

	// Used when no keys are configured.
	ClientID         string `env:"AZURE_CLIENT_ID"`
	IdentityEndpoint string `env:"AZURE_IDENTITY_ENDPOINT"`

	FieldsContent    string `env:"KB_FIELDS_CONTENT" envDefault:"content"`
	FieldsCategory   string `env:"KB_FIELDS_CATEGORY" envDefault:"category"`
	FieldsSourcePage string `env:"KB_FIELDS_SOURCEPAGE" envDefault:"sourcepage"`

	StorageType       string `env:"STORAGE_TYPE" envDefault:"s3"`
	StorageRoot       string `env:"STORAGE_ROOT" envDefault:"./storage"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	ContentBucket     string `env:"AZURE_STORAGE_CONTAINER" envDefault:"content"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"chat_history.db"`

	ChatHistoryMinutes int `env:"CHAT_HISTORY_DB_MIN" envDefault:"5"`

	LogFile  string `env:"LOG_FILE" envDefault:"app.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.BackendURI = strings.TrimSuffix(cfg.BackendURI, "/")

	switch cfg.StorageType {
	case "s3", "local":
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE '%s': must be 's3' or 'local'", cfg.StorageType)
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER '%s': must be 'sqlite' or 'postgres'", cfg.DBDriver)
	}

	if cfg.ChatHistoryMinutes <= 0 {
		return nil, fmt.Errorf("invalid CHAT_HISTORY_DB_MIN %d: must be positive", cfg.ChatHistoryMinutes)
	}

	if cfg.S3EndpointURL != "" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		slog.Warn("S3_ENDPOINT_URL is set, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing")
	}

	return &cfg, nil
}

func (c *Config) SearchURL() string {
	if c.SearchEndpoint != "" {
		return strings.TrimSuffix(c.SearchEndpoint, "/")
	}
	return fmt.Sprintf("https://%s.search.windows.net", c.SearchService)
}

func (c *Config) OpenAIURL() string {
	if c.OpenAIEndpoint != "" {
		return strings.TrimSuffix(c.OpenAIEndpoint, "/")
	}
	return fmt.Sprintf("https://%s.openai.azure.com", c.OpenAIService)
}
