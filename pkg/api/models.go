package api

// Overrides are per-call knobs for an approach. Unset fields fall back to the
// approach defaults.
type Overrides struct {
	SemanticRanker           bool     `json:"semantic_ranker,omitempty"`
	SemanticCaptions         bool     `json:"semantic_captions,omitempty"`
	Top                      int      `json:"top,omitempty"`
	ExcludeCategory          string   `json:"exclude_category,omitempty"`
	SuggestFollowupQuestions bool     `json:"suggest_followup_questions,omitempty"`
	Temperature              *float64 `json:"temperature,omitempty"`
	PromptTemplate           string   `json:"prompt_template,omitempty"`
	PromptTemplatePrefix     string   `json:"prompt_template_prefix,omitempty"`
	PromptTemplateSuffix     string   `json:"prompt_template_suffix,omitempty"`
}

// Result is what every approach produces.
type Result struct {
	DataPoints []string `json:"data_points"`
	Answer     string   `json:"answer"`
	Thoughts   string   `json:"thoughts"`
}

type AskRequest struct {
	Approach  string     `json:"approach"`
	Question  string     `json:"question"`
	Overrides *Overrides `json:"overrides,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
