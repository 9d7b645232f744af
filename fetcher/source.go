package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// Source is one Meta surface scoped to one country. FetchPage materializes
// the page at cursor (empty cursor = first page) with every parent's full
// comment thread and returns the next cursor, or "" once exhausted.
// Implementations are single-attempt; the Paginator owns retries.
type Source interface {
	Name() model.SourceType
	Country() string
	FetchPage(ctx context.Context, cursor string) (model.RawPage, string, error)
}

const graphCodeRateLimit = 80004

// FetchError reports a failed page fetch with enough context to log and
// classify it.
type FetchError struct {
	Source     model.SourceType
	Country    string
	Cursor     string
	StatusCode int
	GraphCode  int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s/%s: %v", e.Source, e.Country, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth retrying: Meta rate limits
// (HTTP 429 or Graph code 80004), server-side 5xx, and transport errors.
// Any other 4xx is fatal for the pair.
func (e *FetchError) Transient() bool {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	if e.GraphCode == graphCodeRateLimit {
		return true
	}
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == 0:
		// No HTTP status means the request never completed.
		return true
	}
	return false
}

func newFetchError(source Source, cursor string, err error) *FetchError {
	fe := &FetchError{
		Source:  source.Name(),
		Country: source.Country(),
		Cursor:  cursor,
		Err:     err,
	}
	var ae *apiError
	if errors.As(err, &ae) {
		fe.StatusCode = ae.status
		fe.GraphCode = ae.code
	}
	return fe
}

// apiError is a non-200 Graph API response before classification.
type apiError struct {
	status  int
	code    int
	message string
}

func (e *apiError) Error() string {
	if e.code != 0 {
		return fmt.Sprintf("graph API HTTP %d (code %d): %s", e.status, e.code, e.message)
	}
	return fmt.Sprintf("graph API HTTP %d: %s", e.status, e.message)
}

// graphClient is the shared HTTP layer for the three sources: one access
// token, one base URL, one page size.
type graphClient struct {
	baseURL string
	token   string
	limit   int
	client  *http.Client
}

func newGraphClient(cfg *config.Config, token string) *graphClient {
	return &graphClient{
		baseURL: strings.TrimRight(cfg.GraphBaseURL, "/"),
		token:   token,
		limit:   cfg.PageLimit,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// edgeURL builds the first-page URL for an object's edge. Later pages come
// from paging.next, which is already a complete URL.
func (g *graphClient) edgeURL(object, edge, fields string) string {
	params := url.Values{}
	params.Set("access_token", g.token)
	params.Set("limit", strconv.Itoa(g.limit))
	if fields != "" {
		params.Set("fields", fields)
	}
	return fmt.Sprintf("%s/%s/%s?%s", g.baseURL, object, edge, params.Encode())
}

func (g *graphClient) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &apiError{status: resp.StatusCode, message: strings.TrimSpace(string(body))}
		var envelope model.GraphErrorResponse
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Code != 0 {
			apiErr.code = envelope.Error.Code
			apiErr.message = envelope.Error.Message
		}
		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// graphTimeLayout matches Graph API timestamps, which carry a zone offset
// without a colon ("2024-05-01T12:34:56+0000").
const graphTimeLayout = "2006-01-02T15:04:05-0700"

func parseGraphTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(graphTimeLayout, value)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, value); err != nil {
			return nil
		}
	}
	return &t
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
