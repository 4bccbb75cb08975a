package dto

// SearchRequest is the payload used by the search-and-save endpoint.
type SearchRequest struct {
	Query      string `json:"query"`
	Location   string `json:"location,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// PromptSearchRequest carries a free-form prompt to be parsed into a
// structured search.
type PromptSearchRequest struct {
	Prompt     string `json:"prompt"`
	MaxResults int    `json:"max_results,omitempty"`
}
