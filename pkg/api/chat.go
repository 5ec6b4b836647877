package api

// Turn is one exchange of a conversation. Bot is empty until answered.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot,omitempty"`
}

type ChatRequest struct {
	Approach  string     `json:"approach"`
	History   []Turn     `json:"history"`
	Overrides *Overrides `json:"overrides,omitempty"`
	UserEmail string     `json:"user_email,omitempty"`
}

type ChatResponse struct {
	Result
	History []Turn `json:"history"`
}

type HistoryRequest struct {
	UserEmail   string `schema:"user_email,required"`
	LastMinutes int    `schema:"last_minutes"`
}
