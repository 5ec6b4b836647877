package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"rag-backend/internal/chat"
	"rag-backend/internal/storage"
	"rag-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

type BackendService struct {
	manager       *chat.Manager
	storage       storage.Provider
	contentBucket string
	staticDir     string
}

func NewBackendService(manager *chat.Manager, storage storage.Provider, contentBucket, staticDir string) *BackendService {
	return &BackendService{
		manager:       manager,
		storage:       storage,
		contentBucket: contentBucket,
		staticDir:     staticDir,
	}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Post("/ask", RestHandler(s.Ask))
	r.Post("/chat", RestHandler(s.Chat))
	r.Get("/history", RestHandler(s.History))
	r.Get("/content/*", s.Content)

	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err != nil {
			slog.Warn("static directory not found, static files will not be served", "dir", s.staticDir, "error", err)
		} else {
			r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
		}
	}
}

func (s *BackendService) Ask(r *http.Request) (any, error) {
	req, err := ParseRequest[api.AskRequest](r)
	if err != nil {
		return nil, err
	}

	res, err := s.manager.Ask(r.Context(), req)
	if err != nil {
		return nil, dispatchError(err)
	}

	return res, nil
}

func (s *BackendService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	res, err := s.manager.Chat(r.Context(), req)
	if err != nil {
		return nil, dispatchError(err)
	}

	return res, nil
}

func (s *BackendService) History(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.HistoryRequest](r)
	if err != nil {
		return nil, err
	}

	turns, err := s.manager.RecentHistory(r.Context(), params.UserEmail, params.LastMinutes)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	return turns, nil
}

func (s *BackendService) Content(w http.ResponseWriter, r *http.Request) {
	path, err := URLParamPath(r, "*")
	if err != nil {
		WriteError(w, err)
		return
	}

	obj, err := s.storage.GetObject(r.Context(), s.contentBucket, path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			WriteError(w, CodedErrorf(http.StatusNotFound, "content '%s' not found", path))
			return
		}
		slog.Error("error reading content", "bucket", s.contentBucket, "path", path, "error", err)
		WriteError(w, CodedErrorf(http.StatusInternalServerError, "error reading content '%s'", path))
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", path))
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		slog.Error("error streaming content", "path", path, "error", err)
	}
}

func dispatchError(err error) error {
	var serr *chat.StrategyError
	switch {
	case errors.Is(err, chat.ErrUnknownStrategy), errors.Is(err, chat.ErrEmptyHistory):
		return CodedError(http.StatusBadRequest, err)
	case errors.As(err, &serr):
		return CodedError(http.StatusInternalServerError, err)
	default:
		return err
	}
}
