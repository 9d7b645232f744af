package fetcher

import (
	"context"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

const mediaFields = "id,comments_count,permalink,media_type,like_count,ig_id,timestamp,caption," +
	"is_shared_to_feed,media_product_type"

const igCommentFields = "hidden,id,like_count,text,timestamp,username," +
	"replies.limit(100){hidden,id,like_count,text,timestamp,username,parent_id}"

// MediaSource pulls comments on an Instagram business account's media.
// Instagram exposes commenter usernames only, so author ids stay null.
type MediaSource struct {
	graph     *graphClient
	country   string
	accountID string
}

func NewMediaSource(cfg *config.Config, country string, account config.CountryAccount) *MediaSource {
	return &MediaSource{
		graph:     newGraphClient(cfg, account.AccessToken),
		country:   country,
		accountID: account.IGBusinessAccountID,
	}
}

func (s *MediaSource) Name() model.SourceType { return model.SourceMedia }

func (s *MediaSource) Country() string { return s.country }

func (s *MediaSource) FetchPage(ctx context.Context, cursor string) (model.RawPage, string, error) {
	requestURL := cursor
	if requestURL == "" {
		requestURL = s.graph.edgeURL(s.accountID, "media", mediaFields)
	}

	var resp model.MediaResponse
	if err := s.graph.getJSON(ctx, requestURL, &resp); err != nil {
		return model.RawPage{}, "", err
	}

	var page model.RawPage
	for _, item := range resp.Data {
		if item.ID == "" {
			continue
		}
		// Media with no comments is not worth a comments call.
		if item.CommentsCount == 0 {
			continue
		}

		comments, err := s.fetchMediaComments(ctx, item.ID)
		if err != nil {
			return model.RawPage{}, "", err
		}
		page.Parents = append(page.Parents, model.Parent{ID: item.ID, Comments: comments})
	}

	return page, resp.Paging.Next, nil
}

func (s *MediaSource) fetchMediaComments(ctx context.Context, mediaID string) ([]model.Comment, error) {
	var comments []model.Comment
	requestURL := s.graph.edgeURL(mediaID, "comments", igCommentFields)

	for requestURL != "" {
		var page model.IGCommentsResponse
		if err := s.graph.getJSON(ctx, requestURL, &page); err != nil {
			return nil, err
		}
		for _, raw := range page.Data {
			comments = append(comments, mapIGComment(raw))
		}
		requestURL = page.Paging.Next
	}

	return comments, nil
}

func mapIGComment(raw model.IGComment) model.Comment {
	c := model.Comment{
		ID:         raw.ID,
		Text:       raw.Text,
		AuthorName: strPtr(raw.Username),
		LikeCount:  raw.LikeCount,
		Hidden:     raw.Hidden,
		CreatedAt:  parseGraphTime(raw.Timestamp),
	}
	for _, reply := range raw.Replies.Data {
		c.Replies = append(c.Replies, mapIGComment(reply))
	}
	return c
}
