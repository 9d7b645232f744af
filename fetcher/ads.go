package fetcher

import (
	"context"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

const adFields = "adcreatives{object_url,name,link_url,id,body,effective_object_story_id," +
	"link_destination_display_url,likes_count,created_time}"

// AdsSource pulls comments on the posts behind an ad account's creatives.
// The parent of each comment thread is the creative's effective story post.
type AdsSource struct {
	graph     *graphClient
	country   string
	accountID string
}

func NewAdsSource(cfg *config.Config, country string, account config.CountryAccount) *AdsSource {
	return &AdsSource{
		graph:     newGraphClient(cfg, account.AccessToken),
		country:   country,
		accountID: account.AccountID,
	}
}

func (s *AdsSource) Name() model.SourceType { return model.SourceAds }

func (s *AdsSource) Country() string { return s.country }

func (s *AdsSource) FetchPage(ctx context.Context, cursor string) (model.RawPage, string, error) {
	requestURL := cursor
	if requestURL == "" {
		requestURL = s.graph.edgeURL("act_"+s.accountID, "ads", adFields)
	}

	var resp model.AdsResponse
	if err := s.graph.getJSON(ctx, requestURL, &resp); err != nil {
		return model.RawPage{}, "", err
	}

	var page model.RawPage
	seen := make(map[string]bool)
	for _, ad := range resp.Data {
		for _, creative := range ad.AdCreatives.Data {
			postID := creative.EffectiveObjectStoryID
			// Creatives without a story post have no comment surface, and
			// several ads can share one post within a page.
			if postID == "" || seen[postID] {
				continue
			}
			seen[postID] = true

			comments, err := s.graph.fetchPostComments(ctx, postID)
			if err != nil {
				return model.RawPage{}, "", err
			}
			page.Parents = append(page.Parents, model.Parent{ID: postID, Comments: comments})
		}
	}

	return page, resp.Paging.Next, nil
}
