package session

import "time"

// Filters narrows a search. Zero values mean "no constraint". Filters are
// captured when a search starts and reused verbatim for every subsequent
// page of that search.
type Filters struct {
	// MinDate is an ISO date (YYYY-MM-DD) lower bound on publish date.
	MinDate string
	// MaxDate is an ISO date upper bound on publish date.
	MaxDate string
	// MinViews is the minimum view count.
	MinViews int64
	// ChannelName is a substring filter on the channel title.
	ChannelName string
}

// Video is one search result.
type Video struct {
	ID                string
	Title             string
	Description       string
	ChannelTitle      string
	PublishedAt       time.Time
	ViewCount         int64
	ThumbnailURL      string
	MatchType         []string
	TranscriptMatches []string
}

// Page is one page of results returned by the search API. An empty
// NextPageToken means no further pages exist.
type Page struct {
	Videos        []Video
	NextPageToken string
	TotalResults  int
}

// State is the complete value of one search session. It is replaced wholesale
// on every new search and extended (never reordered or trimmed) on load-more.
type State struct {
	Keyword string
	Filters Filters

	// Results accumulates videos across pages in arrival order.
	Results []Video

	// NextPageToken is the cursor for the next page; empty means exhausted.
	NextPageToken string

	// TotalResults reflects the first page's total for the current search.
	// Load-more never recomputes it.
	TotalResults int

	Loading bool

	// Err holds the failure message of the last request cycle, or "" while
	// loading and after a success.
	Err string
}

// CanLoadMore reports whether a load-more request would actually be issued:
// a cursor exists and no fetch is in flight. UIs use this to decide whether
// to offer the "load more" affordance.
func (s State) CanLoadMore() bool {
	return !s.Loading && s.NextPageToken != ""
}

// Event is a state transition. Apply never mutates its input.
type Event interface {
	Apply(State) State
}

// SearchStarted begins a fresh search, discarding everything accumulated by
// the previous one.
type SearchStarted struct {
	Keyword string
	Filters Filters
}

func (e SearchStarted) Apply(State) State {
	return State{
		Keyword: e.Keyword,
		Filters: e.Filters,
		Loading: true,
	}
}

// MoreRequested begins a load-more cycle for the current search.
type MoreRequested struct{}

func (MoreRequested) Apply(s State) State {
	s.Loading = true
	s.Err = ""
	return s
}

// PageLoaded completes a request cycle successfully. The page's videos are
// appended to the accumulated results in arrival order; the cursor is
// replaced. First marks the initial page of a search, which is the only one
// allowed to set TotalResults.
type PageLoaded struct {
	Page  Page
	First bool
}

func (e PageLoaded) Apply(s State) State {
	// Copy-on-append keeps earlier State values (and anything rendering
	// them) untouched.
	results := make([]Video, 0, len(s.Results)+len(e.Page.Videos))
	results = append(results, s.Results...)
	results = append(results, e.Page.Videos...)

	s.Results = results
	s.NextPageToken = e.Page.NextPageToken
	if e.First {
		s.TotalResults = e.Page.TotalResults
	}
	s.Loading = false
	s.Err = ""
	return s
}

// LoadFailed completes a request cycle with an error. Accumulated results and
// the cursor keep their pre-request values, so a failed load-more retains the
// pages already shown.
type LoadFailed struct {
	Message string
}

func (e LoadFailed) Apply(s State) State {
	s.Loading = false
	s.Err = e.Message
	return s
}
