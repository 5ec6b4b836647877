package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rag-backend/internal/approaches"
	"rag-backend/internal/history"
	"rag-backend/internal/metrics"
	"rag-backend/pkg/api"
)

var (
	ErrUnknownStrategy = errors.New("unknown approach")
	ErrEmptyHistory    = errors.New("chat history must contain at least one turn")
)

// StrategyError wraps a failure raised while a strategy was running.
type StrategyError struct {
	Approach string
	Err      error
}

func (e *StrategyError) Error() string {
	return e.Err.Error()
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

type Manager struct {
	ask            map[approaches.Name]approaches.AskApproach
	chat           map[approaches.Name]approaches.ChatApproach
	history        history.Store
	historyMinutes int
	contentBaseURL string
}

func NewManager(
	ask map[approaches.Name]approaches.AskApproach,
	chat map[approaches.Name]approaches.ChatApproach,
	store history.Store,
	historyMinutes int,
	contentBaseURL string,
) *Manager {
	return &Manager{
		ask:            ask,
		chat:           chat,
		history:        store,
		historyMinutes: historyMinutes,
		contentBaseURL: contentBaseURL,
	}
}

func (m *Manager) Ask(ctx context.Context, req api.AskRequest) (api.Result, error) {
	approach, ok := m.ask[approaches.Name(req.Approach)]
	if !ok {
		return api.Result{}, ErrUnknownStrategy
	}

	start := time.Now()
	result, err := approach.Run(ctx, req.Question, overridesOf(req.Overrides))
	metrics.ObserveStrategy(metrics.KindAsk, req.Approach, start, err)
	if err != nil {
		slog.Error("ask approach failed", "approach", req.Approach, "error", err)
		return api.Result{}, &StrategyError{Approach: req.Approach, Err: err}
	}

	return result, nil
}

// Chat answers the last turn of req.History. When a signed-in user sends no
// prior turns, their recent turns are loaded and prepended first. The
// answered turn is then saved for that user.
func (m *Manager) Chat(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	approach, ok := m.chat[approaches.Name(req.Approach)]
	if !ok {
		return api.ChatResponse{}, ErrUnknownStrategy
	}

	if len(req.History) == 0 {
		return api.ChatResponse{}, ErrEmptyHistory
	}

	turns := make([]api.Turn, 0, len(req.History)+history.RecentLimit)
	if req.UserEmail != "" && len(req.History) <= 1 {
		turns = append(turns, m.history.SelectRecent(ctx, req.UserEmail, m.historyMinutes)...)
	}
	turns = append(turns, req.History...)

	start := time.Now()
	result, err := approach.Run(ctx, turns, overridesOf(req.Overrides))
	metrics.ObserveStrategy(metrics.KindChat, req.Approach, start, err)
	if err != nil {
		slog.Error("chat approach failed", "approach", req.Approach, "error", err)
		return api.ChatResponse{}, &StrategyError{Approach: req.Approach, Err: err}
	}

	last := &turns[len(turns)-1]
	last.Bot = result.Answer

	if req.UserEmail != "" {
		if err := m.history.Insert(ctx, req.UserEmail, last.User, result.Answer); err != nil {
			slog.Warn("chat turn was not saved", "user_email", req.UserEmail, "error", err)
		}
	}

	result.Answer = ConvertToMarkdownLinks(result.Answer, m.contentBaseURL)

	return api.ChatResponse{Result: result, History: turns}, nil
}

// RecentHistory returns the user's saved turns from the last lastMinutes
// minutes, or from the configured window when lastMinutes is not positive.
func (m *Manager) RecentHistory(ctx context.Context, userEmail string, lastMinutes int) ([]api.Turn, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if lastMinutes <= 0 {
		lastMinutes = m.historyMinutes
	}
	return m.history.SelectRecent(ctx, userEmail, lastMinutes), nil
}

func overridesOf(overrides *api.Overrides) api.Overrides {
	if overrides == nil {
		return api.Overrides{}
	}
	return *overrides
}
