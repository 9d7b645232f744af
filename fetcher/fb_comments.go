package fetcher

import (
	"context"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// fbCommentFields asks for top-level comments with their sub-comment
// threads embedded, so replies arrive in the same response.
const fbCommentFields = "effective_object_story_id,comment_count,created_time,from,id,is_hidden,like_count,message," +
	"comments{created_time,from,id,is_hidden,is_private,like_count,message,user_likes},permalink_url"

// fetchPostComments walks the full comment list of one Facebook post,
// following paging.next until exhaustion.
func (g *graphClient) fetchPostComments(ctx context.Context, postID string) ([]model.Comment, error) {
	var comments []model.Comment
	requestURL := g.edgeURL(postID, "comments", fbCommentFields)

	for requestURL != "" {
		var page model.FBCommentsResponse
		if err := g.getJSON(ctx, requestURL, &page); err != nil {
			return nil, err
		}
		for _, raw := range page.Data {
			comments = append(comments, mapFBComment(raw))
		}
		requestURL = page.Paging.Next
	}

	return comments, nil
}

func mapFBComment(raw model.FBComment) model.Comment {
	c := model.Comment{
		ID:        raw.ID,
		Text:      raw.Message,
		LikeCount: raw.LikeCount,
		Hidden:    raw.IsHidden,
		Permalink: strPtr(raw.PermalinkURL),
		CreatedAt: parseGraphTime(raw.CreatedTime),
	}
	// Facebook omits "from" when the commenter's privacy settings hide it.
	if raw.From != nil {
		c.AuthorID = strPtr(raw.From.ID)
		c.AuthorName = strPtr(raw.From.Name)
	}
	for _, reply := range raw.Comments.Data {
		c.Replies = append(c.Replies, mapFBComment(reply))
	}
	return c
}
