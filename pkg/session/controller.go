package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tubelens/tubelens/pkg/log"
)

// Searcher fetches one page of results. pageToken is empty for the first
// page. Implemented by pkg/client.Client; tests supply fakes.
type Searcher interface {
	Search(ctx context.Context, keyword string, filters Filters, pageToken string) (*Page, error)
}

// Controller drives a search session against a Searcher. Methods block until
// the fetch completes and return the resulting state, so callers can render
// immediately. Completions of superseded requests are discarded.
type Controller struct {
	searcher Searcher
	logger   *log.Logger

	mu    sync.Mutex
	state State
	gen   uint64
}

func NewController(searcher Searcher) *Controller {
	return &Controller{
		searcher: searcher,
		logger:   log.For("session"),
	}
}

// State returns the current session state. The contained Results slice is
// never mutated after publication, so callers may read it without copying.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartSearch replaces the session with a fresh search for keyword and
// fetches its first page. A keyword that is empty after trimming whitespace
// is rejected silently: no state change, no request.
func (c *Controller) StartSearch(ctx context.Context, keyword string, filters Filters) State {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return c.State()
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = SearchStarted{Keyword: keyword, Filters: filters}.Apply(c.state)
	c.mu.Unlock()

	reqID := uuid.NewString()
	c.logger.Debugf("search %s keyword=%q gen=%d", reqID, keyword, gen)

	page, err := c.searcher.Search(ctx, keyword, filters, "")
	return c.complete(gen, page, err, true)
}

// LoadMore fetches the next page of the current search and appends it. It is
// a no-op when no cursor is present or a fetch is already in flight, so it is
// safe to call speculatively.
func (c *Controller) LoadMore(ctx context.Context) State {
	c.mu.Lock()
	if !c.state.CanLoadMore() {
		s := c.state
		c.mu.Unlock()
		return s
	}
	c.gen++
	gen := c.gen
	keyword := c.state.Keyword
	filters := c.state.Filters
	token := c.state.NextPageToken
	c.state = MoreRequested{}.Apply(c.state)
	c.mu.Unlock()

	reqID := uuid.NewString()
	c.logger.Debugf("load-more %s keyword=%q token=%q gen=%d", reqID, keyword, token, gen)

	page, err := c.searcher.Search(ctx, keyword, filters, token)
	return c.complete(gen, page, err, false)
}

// complete applies the outcome of the request tagged with gen. A response
// whose generation is no longer current belongs to a superseded search and
// must not touch state.
func (c *Controller) complete(gen uint64, page *Page, err error, first bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.logger.Debugf("dropping stale response gen=%d current=%d", gen, c.gen)
		return c.state
	}

	if err != nil {
		c.state = LoadFailed{Message: "Error: " + err.Error()}.Apply(c.state)
	} else {
		c.state = PageLoaded{Page: *page, First: first}.Apply(c.state)
	}
	return c.state
}
