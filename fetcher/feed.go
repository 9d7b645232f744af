package fetcher

import (
	"context"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

const feedFields = "id,created_time,shares,is_published,is_hidden,message,permalink_url"

// FeedPostSource pulls comments on a page's own feed posts.
type FeedPostSource struct {
	graph   *graphClient
	country string
	pageID  string
}

func NewFeedPostSource(cfg *config.Config, country string, account config.CountryAccount) *FeedPostSource {
	return &FeedPostSource{
		graph:   newGraphClient(cfg, account.AccessToken),
		country: country,
		pageID:  account.PageID,
	}
}

func (s *FeedPostSource) Name() model.SourceType { return model.SourceFeedPost }

func (s *FeedPostSource) Country() string { return s.country }

func (s *FeedPostSource) FetchPage(ctx context.Context, cursor string) (model.RawPage, string, error) {
	requestURL := cursor
	if requestURL == "" {
		requestURL = s.graph.edgeURL(s.pageID, "feed", feedFields)
	}

	var resp model.FeedResponse
	if err := s.graph.getJSON(ctx, requestURL, &resp); err != nil {
		return model.RawPage{}, "", err
	}

	var page model.RawPage
	for _, post := range resp.Data {
		if post.ID == "" {
			continue
		}

		comments, err := s.graph.fetchPostComments(ctx, post.ID)
		if err != nil {
			return model.RawPage{}, "", err
		}
		page.Parents = append(page.Parents, model.Parent{ID: post.ID, Comments: comments})
	}

	return page, resp.Paging.Next, nil
}
