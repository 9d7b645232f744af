package fetcher

import (
	"context"
	"log"
	"time"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// Paginator drives a Source across its pages, retrying transient failures
// with exponential backoff. Pages already yielded stay valid after a
// failure, so callers keep partial results.
//
//	p := NewPaginator(src, cfg)
//	for p.Next(ctx) {
//		use(p.Page())
//	}
//	if err := p.Err(); err != nil { ... }
type Paginator struct {
	source      Source
	maxRetries  int
	retryDelay  time.Duration
	pageTimeout time.Duration
	rateLimit   time.Duration

	cursor  string
	started bool
	done    bool
	page    model.RawPage
	pages   int
	err     *FetchError
}

func NewPaginator(source Source, cfg *config.Config) *Paginator {
	return &Paginator{
		source:      source,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		pageTimeout: cfg.PageTimeout,
		rateLimit:   cfg.RateLimit,
	}
}

// Next advances to the following page. It returns false on cursor
// exhaustion or once a page failed all its attempts; Err tells which.
func (p *Paginator) Next(ctx context.Context) bool {
	if p.done {
		return false
	}
	if p.started && p.cursor == "" {
		p.done = true
		return false
	}

	if p.started && p.rateLimit > 0 {
		select {
		case <-ctx.Done():
			p.err = newFetchError(p.source, p.cursor, ctx.Err())
			p.done = true
			return false
		case <-time.After(p.rateLimit):
		}
	}

	page, next, err := p.fetchWithRetry(ctx, p.cursor)
	if err != nil {
		p.err = err
		p.done = true
		return false
	}

	p.started = true
	p.page = page
	p.cursor = next
	p.pages++
	return true
}

// Page returns the page yielded by the last successful Next.
func (p *Paginator) Page() model.RawPage { return p.page }

// Pages returns how many pages have been yielded so far.
func (p *Paginator) Pages() int { return p.pages }

// Err returns the failure that stopped pagination, or nil after clean
// exhaustion.
func (p *Paginator) Err() *FetchError { return p.err }

func (p *Paginator) fetchWithRetry(ctx context.Context, cursor string) (model.RawPage, string, *FetchError) {
	pageCtx := ctx
	if p.pageTimeout > 0 {
		var cancel context.CancelFunc
		pageCtx, cancel = context.WithTimeout(ctx, p.pageTimeout)
		defer cancel()
	}

	delay := p.retryDelay
	var lastErr *FetchError

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Transient error on %s/%s, retrying in %v (attempt %d/%d): %v",
				p.source.Name(), p.source.Country(), delay, attempt, p.maxRetries, lastErr.Err)
			select {
			case <-pageCtx.Done():
				return model.RawPage{}, "", newFetchError(p.source, cursor, pageCtx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		page, next, err := p.source.FetchPage(pageCtx, cursor)
		if err == nil {
			return page, next, nil
		}

		lastErr = newFetchError(p.source, cursor, err)
		if !lastErr.Transient() {
			return model.RawPage{}, "", lastErr
		}
	}

	return model.RawPage{}, "", lastErr
}
