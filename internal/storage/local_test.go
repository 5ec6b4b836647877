package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestProvider(t *testing.T) (*LocalProvider, string) {
	t.Helper()
	dir := t.TempDir()
	provider, err := NewLocalProvider(dir)
	require.NoError(t, err)
	return provider, dir
}

func TestLocalProvider_PutObject(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	content := []byte("Test content")
	err := provider.PutObject(context.Background(), "content", "docs/test-file.txt", bytes.NewReader(content))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(baseDir, "content", "docs", "test-file.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalProvider_GetObject(t *testing.T) {
	provider, _ := setupTestProvider(t)

	require.NoError(t, provider.PutObject(context.Background(), "content", "Benefit_Options-2.pdf", bytes.NewReader([]byte("%PDF-1.7"))))

	obj, err := provider.GetObject(context.Background(), "content", "Benefit_Options-2.pdf")
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, int64(8), obj.Size)
}

func TestLocalProvider_GetObjectMissing(t *testing.T) {
	provider, _ := setupTestProvider(t)

	_, err := provider.GetObject(context.Background(), "content", "missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, provider.CreateBucket(context.Background(), "content"))
	require.NoError(t, os.MkdirAll(filepath.Join(provider.baseDir, "content", "dir"), os.ModePerm))
	_, err = provider.GetObject(context.Background(), "content", "dir")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalProvider_RejectsEscapingKeys(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "secret.txt"), []byte("secret"), os.ModePerm))

	_, err := provider.GetObject(context.Background(), "content", "../secret.txt")
	assert.ErrorContains(t, err, "invalid object key")

	err = provider.PutObject(context.Background(), "content", "../../evil.txt", bytes.NewReader(nil))
	assert.ErrorContains(t, err, "invalid object key")
}

func TestLocalProvider_UploadDir(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	srcDir := t.TempDir()
	files := []string{"file1.txt", "file2.txt", "subdir/file3.txt"}
	for _, file := range files {
		filePath := filepath.Join(srcDir, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), os.ModePerm))
		require.NoError(t, os.WriteFile(filePath, []byte("content"), os.ModePerm))
	}

	var uploaded []string
	var total int64
	err := provider.UploadDir(context.Background(), "content", "uploaded", srcDir, func(obj Object) {
		uploaded = append(uploaded, obj.Name)
		total += obj.Size
	})
	require.NoError(t, err)

	sort.Strings(uploaded)
	assert.Equal(t, []string{"uploaded/file1.txt", "uploaded/file2.txt", "uploaded/subdir/file3.txt"}, uploaded)
	assert.Equal(t, int64(21), total)

	for _, file := range files {
		data, err := os.ReadFile(filepath.Join(baseDir, "content", "uploaded", file))
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	}
}

func TestLocalProvider_ListObjects(t *testing.T) {
	provider, _ := setupTestProvider(t)

	objects, err := provider.ListObjects(context.Background(), "content", "")
	require.NoError(t, err)
	assert.Empty(t, objects)

	for _, key := range []string{"a/1.txt", "a/2.txt", "b/3.txt"} {
		require.NoError(t, provider.PutObject(context.Background(), "content", key, bytes.NewReader([]byte("xy"))))
	}

	objects, err = provider.ListObjects(context.Background(), "content", "a/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []Object{{Name: "a/1.txt", Size: 2}, {Name: "a/2.txt", Size: 2}}, objects)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("doc.pdf", ""))
	assert.Equal(t, "application/pdf", ContentType("doc.PDF", defaultContentType))
	assert.Equal(t, "image/png", ContentType("doc.pdf", "image/png"))
	assert.Equal(t, "application/javascript", ContentType("static/app.js", ""))
	assert.Equal(t, "text/css; charset=utf-8", ContentType("static/site.css", ""))
	assert.Equal(t, defaultContentType, ContentType("blob.unknownext", ""))
}
