package cmd

import (
	"flag"
	"fmt"
	"log"
	"log/slog"

	"rag-backend/internal/auth"
	"rag-backend/internal/config"
	"rag-backend/internal/storage"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

func NewStorageProvider(cfg *config.Config) (storage.Provider, error) {
	switch cfg.StorageType {
	case "s3":
		provider, err := storage.NewS3Provider(storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating s3 storage provider: %w", err)
		}
		return provider, nil
	case "local":
		provider, err := storage.NewLocalProvider(cfg.StorageRoot)
		if err != nil {
			return nil, fmt.Errorf("error creating local storage provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("invalid storage type '%s'", cfg.StorageType)
	}
}

// NewTokenProvider uses key when it is set and the ambient managed identity
// otherwise.
func NewTokenProvider(cfg *config.Config, key, resource string) *auth.TokenProvider {
	if key != "" {
		return auth.NewTokenProvider(auth.NewKeyCredential(key), resource)
	}

	slog.Info("no key configured, using managed identity", "resource", resource)
	return auth.NewTokenProvider(auth.NewManagedIdentityCredential(cfg.IdentityEndpoint, cfg.ClientID), resource)
}
