package model

import "time"

// SourceType identifies which Meta surface a comment was pulled from.
type SourceType string

const (
	SourceAds      SourceType = "ads"
	SourceFeedPost SourceType = "feed_post"
	SourceMedia    SourceType = "media"
)

// AllSources returns the fixed extraction order for a run.
func AllSources() []SourceType {
	return []SourceType{SourceAds, SourceFeedPost, SourceMedia}
}

// Table maps a source to its warehouse table name.
func (s SourceType) Table() string {
	switch s {
	case SourceAds:
		return "ads_comments"
	case SourceFeedPost:
		return "feed_post_comments"
	case SourceMedia:
		return "media_comments"
	}
	return string(s)
}

// CommentRecord is the flat, normalized comment row appended to the warehouse.
// Pointer fields are nullable columns: nil means the API withheld the value.
type CommentRecord struct {
	Source          SourceType `bson:"source" json:"source"`
	Country         string     `bson:"country" json:"country"`
	ParentID        string     `bson:"parent_id" json:"parent_id"`
	CommentID       string     `bson:"comment_id" json:"comment_id"`
	ParentCommentID *string    `bson:"parent_comment_id" json:"parent_comment_id"`
	AuthorID        *string    `bson:"author_id" json:"author_id"`
	AuthorName      *string    `bson:"author_name" json:"author_name"`
	Text            string     `bson:"text" json:"text"`
	LikeCount       *int64     `bson:"like_count" json:"like_count"`
	Hidden          *bool      `bson:"hidden" json:"hidden"`
	Permalink       *string    `bson:"permalink" json:"permalink"`
	CreatedAt       *time.Time `bson:"created_at" json:"created_at"`
	ExtractedAt     time.Time  `bson:"extracted_at" json:"extracted_at"`
}

// RawPage is one page of parent objects as assembled by a source, before
// flattening. Replies stay nested here.
type RawPage struct {
	Parents []Parent
}

// Parent is a commentable object: an ad creative's post, a feed post or an
// Instagram media item.
type Parent struct {
	ID       string
	Comments []Comment
}

// Comment is the neutral nested comment shape shared by all three sources.
type Comment struct {
	ID         string
	Text       string
	AuthorID   *string
	AuthorName *string
	LikeCount  *int64
	Hidden     *bool
	Permalink  *string
	CreatedAt  *time.Time
	Replies    []Comment
}
