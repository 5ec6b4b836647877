package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

var ErrObjectNotFound = errors.New("object not found")

type Object struct {
	Name string
	Size int64
}

// Content is an open object body. Callers must close Body.
type Content struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type Provider interface {
	CreateBucket(ctx context.Context, bucket string) error

	GetObject(ctx context.Context, bucket, key string) (*Content, error)

	PutObject(ctx context.Context, bucket, key string, data io.Reader) error

	// UploadDir copies every file under src to bucket/prefix, calling
	// onUploaded after each file is stored.
	UploadDir(ctx context.Context, bucket, prefix, src string, onUploaded func(Object)) error

	ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error)
}

func uploadDir(ctx context.Context, p Provider, bucket, prefix, src string, onUploaded func(Object)) error {
	return filepath.WalkDir(src, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, file)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", file, err)
		}
		key := path.Join(prefix, filepath.ToSlash(rel))

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", file, err)
		}

		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()

		if err := p.PutObject(ctx, bucket, key, f); err != nil {
			return err
		}

		if onUploaded != nil {
			onUploaded(Object{Name: key, Size: info.Size()})
		}
		return nil
	})
}
