package integrationtests

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	backend "rag-backend/internal/api"
	"rag-backend/internal/approaches"
	"rag-backend/internal/chat"
	"rag-backend/internal/storage"
	"rag-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bucketName = "content"

type noHistory struct{}

func (noHistory) Insert(ctx context.Context, userEmail, userQuery, botResponse string) error {
	return nil
}

func (noHistory) SelectRecent(ctx context.Context, userEmail string, lastMinutes int) []api.Turn {
	return nil
}

func setupS3Provider(t *testing.T, ctx context.Context) *storage.S3Provider {
	t.Helper()

	endpoint := setupMinioContainer(t, ctx)

	provider, err := storage.NewS3Provider(storage.S3ClientConfig{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
	})
	require.NoError(t, err)

	require.NoError(t, provider.CreateBucket(ctx, bucketName))
	// Creating an existing bucket is not an error.
	require.NoError(t, provider.CreateBucket(ctx, bucketName))

	return provider
}

func TestS3Provider_PutGetObject(t *testing.T) {
	skipIfShort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider := setupS3Provider(t, ctx)

	content := []byte("%PDF-1.7 test")
	require.NoError(t, provider.PutObject(ctx, bucketName, "docs/Benefit Options.pdf", bytes.NewReader(content)))

	obj, err := provider.GetObject(ctx, bucketName, "docs/Benefit Options.pdf")
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, int64(len(content)), obj.Size)

	_, err = provider.GetObject(ctx, bucketName, "docs/missing.pdf")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestS3Provider_UploadDirAndList(t *testing.T) {
	skipIfShort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider := setupS3Provider(t, ctx)

	srcDir := t.TempDir()
	for _, file := range []string{"a.txt", "nested/b.txt"} {
		path := filepath.Join(srcDir, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
		require.NoError(t, os.WriteFile(path, []byte("content"), os.ModePerm))
	}

	var uploaded []string
	require.NoError(t, provider.UploadDir(ctx, bucketName, "upload", srcDir, func(obj storage.Object) {
		uploaded = append(uploaded, obj.Name)
	}))
	assert.ElementsMatch(t, []string{"upload/a.txt", "upload/nested/b.txt"}, uploaded)

	objects, err := provider.ListObjects(ctx, bucketName, "upload/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []storage.Object{
		{Name: "upload/a.txt", Size: 7},
		{Name: "upload/nested/b.txt", Size: 7},
	}, objects)
}

func TestContentEndpointWithS3(t *testing.T) {
	skipIfShort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider := setupS3Provider(t, ctx)
	require.NoError(t, provider.PutObject(ctx, bucketName, "site.css", bytes.NewReader([]byte("body{}"))))

	manager := chat.NewManager(
		map[approaches.Name]approaches.AskApproach{},
		map[approaches.Name]approaches.ChatApproach{},
		noHistory{}, 5, "http://localhost:5000",
	)
	router := chi.NewRouter()
	backend.NewBackendService(manager, provider, bucketName, "").AddRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=site.css", rec.Header().Get("Content-Disposition"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content/nope.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
