package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"path/filepath"

	"rag-backend/cmd"
	"rag-backend/internal/config"
	"rag-backend/internal/storage"

	"github.com/schollz/progressbar/v3"
)

func main() {
	var (
		dir    = flag.String("dir", "data", "directory of documents to upload")
		prefix = flag.String("prefix", "", "key prefix inside the content bucket")
	)

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	provider, err := cmd.NewStorageProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create storage provider: %v", err)
	}

	ctx := context.Background()

	if err := provider.CreateBucket(ctx, cfg.ContentBucket); err != nil {
		log.Fatalf("Failed to create bucket %s: %v", cfg.ContentBucket, err)
	}

	files, totalBytes, err := countFiles(*dir)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *dir, err)
	}

	bar := progressbar.NewOptions64(totalBytes,
		progressbar.OptionSetDescription("⏳ uploading"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	uploaded := 0
	err = provider.UploadDir(ctx, cfg.ContentBucket, *prefix, *dir, func(obj storage.Object) {
		uploaded++
		_ = bar.Add64(obj.Size)
	})
	_ = bar.Finish()
	if err != nil {
		log.Fatalf("Upload failed after %d of %d files: %v", uploaded, files, err)
	}

	slog.Info("upload complete", "bucket", cfg.ContentBucket, "prefix", *prefix, "files", uploaded, "bytes", totalBytes)
}

func countFiles(dir string) (int, int64, error) {
	var files int
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files++
		total += info.Size()
		return nil
	})
	return files, total, err
}
