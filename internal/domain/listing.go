package domain

// SourceName is reported in every successful listing envelope.
const SourceName = "Dev.to"

// Filter is the normalized set of listing parameters derived from one request.
type Filter struct {
	Page    int
	PerPage int
	Search  string
	Tag     string
}

// Tags returns the tag filter as a list for upstream queries.
func (f Filter) Tags() []string {
	if f.Tag == "" {
		return nil
	}
	return []string{f.Tag}
}

// PaginationInfo is derived from the response shape; the upstream exposes no total count.
type PaginationInfo struct {
	CurrentPage             int  `json:"current_page"`
	PerPage                 int  `json:"per_page"`
	HasNextPage             bool `json:"has_next_page"`
	HasPreviousPage         bool `json:"has_previous_page"`
	NextPage                *int `json:"next_page"`
	PreviousPage            *int `json:"previous_page"`
	EstimatedRemainingPages *int `json:"estimated_remaining_pages"`
	TotalArticlesLoaded     int  `json:"total_articles_loaded"`
}

// FailurePagination is the stub sent with a failed listing so the caller can still render controls.
type FailurePagination struct {
	CurrentPage     int  `json:"current_page"`
	PerPage         int  `json:"per_page"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// Meta describes where and when the listing was fetched.
type Meta struct {
	Source    string `json:"source"`
	FetchedAt string `json:"fetched_at"`
	Search    string `json:"search,omitempty"`
	Tag       string `json:"tag,omitempty"`
}

// Envelope is either a SuccessResponse or a FailureResponse; branch on Succeeded before reading data.
type Envelope interface {
	Succeeded() bool
}

// SuccessResponse carries one page of articles.
type SuccessResponse struct {
	Success    bool           `json:"success"`
	Data       []Article      `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
	Meta       Meta           `json:"meta"`
}

// Succeeded implements Envelope.
func (SuccessResponse) Succeeded() bool { return true }

// FailureResponse carries the error message of a failed listing.
type FailureResponse struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error"`
	Pagination FailurePagination `json:"pagination"`
}

// Succeeded implements Envelope.
func (FailureResponse) Succeeded() bool { return false }
