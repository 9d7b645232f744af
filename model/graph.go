package model

// Graph API response structures

type GraphPaging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next,omitempty"`
}

type GraphErrorResponse struct {
	Error GraphError `json:"error"`
}

type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	TraceID   string `json:"fbtrace_id"`
	Subcode   int    `json:"error_subcode,omitempty"`
	UserTitle string `json:"error_user_title,omitempty"`
}

type AdsResponse struct {
	Data   []Ad        `json:"data"`
	Paging GraphPaging `json:"paging"`
}

type Ad struct {
	ID          string `json:"id"`
	AdCreatives struct {
		Data []AdCreative `json:"data"`
	} `json:"adcreatives"`
}

type AdCreative struct {
	ID                        string `json:"id"`
	Name                      string `json:"name"`
	Body                      string `json:"body"`
	ObjectURL                 string `json:"object_url"`
	LinkURL                   string `json:"link_url"`
	EffectiveObjectStoryID    string `json:"effective_object_story_id"`
	LinkDestinationDisplayURL string `json:"link_destination_display_url"`
	LikesCount                int64  `json:"likes_count"`
	CreatedTime               string `json:"created_time"`
}

type FeedResponse struct {
	Data   []FeedPost  `json:"data"`
	Paging GraphPaging `json:"paging"`
}

type FeedPost struct {
	ID           string `json:"id"`
	CreatedTime  string `json:"created_time"`
	Message      string `json:"message"`
	PermalinkURL string `json:"permalink_url"`
	IsPublished  bool   `json:"is_published"`
	IsHidden     bool   `json:"is_hidden"`
	Shares       struct {
		Count int64 `json:"count"`
	} `json:"shares"`
}

type MediaResponse struct {
	Data   []MediaItem `json:"data"`
	Paging GraphPaging `json:"paging"`
}

type MediaItem struct {
	ID               string `json:"id"`
	IGID             string `json:"ig_id"`
	CommentsCount    int64  `json:"comments_count"`
	LikeCount        int64  `json:"like_count"`
	Permalink        string `json:"permalink"`
	MediaType        string `json:"media_type"`
	MediaProductType string `json:"media_product_type"`
	Caption          string `json:"caption"`
	Timestamp        string `json:"timestamp"`
	IsSharedToFeed   bool   `json:"is_shared_to_feed"`
}

type FBAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FBCommentsResponse struct {
	Data   []FBComment `json:"data"`
	Paging GraphPaging `json:"paging"`
}

type FBComment struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	CreatedTime  string    `json:"created_time"`
	From         *FBAuthor `json:"from"`
	LikeCount    *int64    `json:"like_count"`
	CommentCount *int64    `json:"comment_count"`
	IsHidden     *bool     `json:"is_hidden"`
	IsPrivate    *bool     `json:"is_private"`
	UserLikes    *bool     `json:"user_likes"`
	PermalinkURL string    `json:"permalink_url"`
	Comments     struct {
		Data   []FBComment `json:"data"`
		Paging GraphPaging `json:"paging"`
	} `json:"comments"`
}

type IGCommentsResponse struct {
	Data   []IGComment `json:"data"`
	Paging GraphPaging `json:"paging"`
}

type IGComment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
	LikeCount *int64 `json:"like_count"`
	Hidden    *bool  `json:"hidden"`
	ParentID  string `json:"parent_id"`
	Replies   struct {
		Data []IGComment `json:"data"`
	} `json:"replies"`
}
