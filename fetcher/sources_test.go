package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
)

func graphConfig(baseURL string) *config.Config {
	return &config.Config{
		GraphBaseURL: baseURL,
		PageLimit:    100,
		HTTPTimeout:  5 * time.Second,
	}
}

var testAccount = config.CountryAccount{
	AccessToken:         "test-token",
	AccountID:           "act1",
	PageID:              "pg1",
	IGBusinessAccountID: "ig1",
}

func TestAdsSourceFetchPage(t *testing.T) {
	var srv *httptest.Server
	var adsQuery map[string][]string

	mux := http.NewServeMux()
	mux.HandleFunc("/act_act1/ads", func(w http.ResponseWriter, r *http.Request) {
		adsQuery = r.URL.Query()
		// Two ads share post-1 and one creative has no story post at all.
		fmt.Fprint(w, `{
			"data": [
				{"id": "ad-1", "adcreatives": {"data": [
					{"id": "cr-1", "name": "dark post"},
					{"id": "cr-2", "effective_object_story_id": "post-1", "likes_count": 10}
				]}},
				{"id": "ad-2", "adcreatives": {"data": [
					{"id": "cr-3", "effective_object_story_id": "post-1"}
				]}}
			]
		}`)
	})
	mux.HandleFunc("/post-1/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") == "page2" {
			fmt.Fprint(w, `{"data": [
				{"id": "c3", "message": "late comment", "created_time": "2024-05-02T09:00:00+0000"}
			]}`)
			return
		}
		fmt.Fprintf(w, `{
			"data": [
				{
					"id": "c1", "message": "great product",
					"created_time": "2024-05-01T11:00:00+0000",
					"from": {"id": "u1", "name": "Ana"},
					"like_count": 5, "is_hidden": false,
					"permalink_url": "https://facebook.com/c1",
					"comments": {"data": [
						{"id": "r1", "message": "agree",
						 "created_time": "2024-05-01T11:05:00+0000",
						 "from": {"id": "u2", "name": "Luis"}, "like_count": 1}
					]}
				},
				{"id": "c2", "message": "meh", "created_time": "2024-05-01T12:00:00+0000"}
			],
			"paging": {"next": "%s/post-1/comments?after=page2"}
		}`, srv.URL)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	source := NewAdsSource(graphConfig(srv.URL), "CO", testAccount)

	page, next, err := source.FetchPage(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if next != "" {
		t.Errorf("next = %q, want empty", next)
	}

	if got := adsQuery["access_token"]; len(got) != 1 || got[0] != "test-token" {
		t.Errorf("access_token query = %v", got)
	}
	if got := adsQuery["limit"]; len(got) != 1 || got[0] != "100" {
		t.Errorf("limit query = %v", got)
	}

	if len(page.Parents) != 1 {
		t.Fatalf("got %d parents, want 1 (shared post deduplicated)", len(page.Parents))
	}
	parent := page.Parents[0]
	if parent.ID != "post-1" {
		t.Errorf("parent id = %q, want post-1", parent.ID)
	}
	if len(parent.Comments) != 3 {
		t.Fatalf("got %d comments, want 3 (both comment pages)", len(parent.Comments))
	}

	c1 := parent.Comments[0]
	if c1.AuthorID == nil || *c1.AuthorID != "u1" || c1.AuthorName == nil || *c1.AuthorName != "Ana" {
		t.Errorf("c1 author = %v/%v, want u1/Ana", c1.AuthorID, c1.AuthorName)
	}
	if c1.LikeCount == nil || *c1.LikeCount != 5 {
		t.Errorf("c1 like_count = %v, want 5", c1.LikeCount)
	}
	if c1.Hidden == nil || *c1.Hidden {
		t.Errorf("c1 hidden = %v, want false (present, not null)", c1.Hidden)
	}
	if c1.Permalink == nil || *c1.Permalink != "https://facebook.com/c1" {
		t.Errorf("c1 permalink = %v", c1.Permalink)
	}
	if c1.CreatedAt == nil {
		t.Error("c1 created_at should be parsed")
	}
	if len(c1.Replies) != 1 || c1.Replies[0].ID != "r1" {
		t.Fatalf("c1 replies = %v, want [r1]", c1.Replies)
	}
	if c1.Replies[0].AuthorName == nil || *c1.Replies[0].AuthorName != "Luis" {
		t.Errorf("r1 author = %v, want Luis", c1.Replies[0].AuthorName)
	}

	c2 := parent.Comments[1]
	if c2.AuthorID != nil || c2.AuthorName != nil {
		t.Error("c2 has no from, author fields should stay null")
	}
	if c2.LikeCount != nil || c2.Hidden != nil || c2.Permalink != nil {
		t.Error("c2 absent optional fields should stay null")
	}

	if parent.Comments[2].ID != "c3" {
		t.Errorf("third comment = %q, want c3", parent.Comments[2].ID)
	}
}

func TestAdsSourcePassesCursorThrough(t *testing.T) {
	var srv *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/act_act1/ads", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data": [], "paging": {"next": "%s/ads-page-2"}}`, srv.URL)
	})
	mux.HandleFunc("/ads-page-2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	source := NewAdsSource(graphConfig(srv.URL), "CO", testAccount)

	_, next, err := source.FetchPage(context.Background(), "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if next != srv.URL+"/ads-page-2" {
		t.Fatalf("next = %q, want the paging.next URL untouched", next)
	}

	_, next, err = source.FetchPage(context.Background(), next)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if next != "" {
		t.Errorf("next = %q after last page, want empty", next)
	}
}

func TestFeedPostSourceFetchPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pg1/feed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"id": "post-9", "message": "hello", "created_time": "2024-05-01T08:00:00+0000"},
			{"message": "post without id"}
		]}`)
	})
	mux.HandleFunc("/post-9/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"id": "c1", "message": "nice", "from": {"id": "u1", "name": "Ana"}}
		]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := NewFeedPostSource(graphConfig(srv.URL), "MX", testAccount)

	page, next, err := source.FetchPage(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if next != "" {
		t.Errorf("next = %q, want empty", next)
	}
	if len(page.Parents) != 1 || page.Parents[0].ID != "post-9" {
		t.Fatalf("parents = %v, want only post-9", page.Parents)
	}
	if len(page.Parents[0].Comments) != 1 || page.Parents[0].Comments[0].ID != "c1" {
		t.Errorf("comments = %v, want [c1]", page.Parents[0].Comments)
	}
}

func TestMediaSourceSkipsZeroCommentMedia(t *testing.T) {
	hits := make(map[string]int)

	mux := http.NewServeMux()
	mux.HandleFunc("/ig1/media", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"id": "m1", "comments_count": 2, "media_type": "IMAGE"},
			{"id": "m2", "comments_count": 0, "media_type": "VIDEO"}
		]}`)
	})
	mux.HandleFunc("/m1/comments", func(w http.ResponseWriter, r *http.Request) {
		hits["m1"]++
		fmt.Fprint(w, `{"data": [
			{
				"id": "k1", "text": "lindo", "username": "ana",
				"timestamp": "2024-05-01T10:00:00+0000",
				"like_count": 3, "hidden": false,
				"replies": {"data": [
					{"id": "k2", "text": "si", "username": "luis", "parent_id": "k1",
					 "timestamp": "2024-05-01T10:05:00+0000"}
				]}
			}
		]}`)
	})
	mux.HandleFunc("/m2/comments", func(w http.ResponseWriter, r *http.Request) {
		hits["m2"]++
		fmt.Fprint(w, `{"data": []}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := NewMediaSource(graphConfig(srv.URL), "CO", testAccount)

	page, _, err := source.FetchPage(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}

	if hits["m2"] != 0 {
		t.Error("media with comments_count=0 should not be queried for comments")
	}
	if hits["m1"] != 1 {
		t.Errorf("m1 comments fetched %d times, want 1", hits["m1"])
	}

	if len(page.Parents) != 1 || page.Parents[0].ID != "m1" {
		t.Fatalf("parents = %v, want only m1", page.Parents)
	}

	k1 := page.Parents[0].Comments[0]
	if k1.AuthorName == nil || *k1.AuthorName != "ana" {
		t.Errorf("k1 author name = %v, want ana", k1.AuthorName)
	}
	if k1.AuthorID != nil {
		t.Error("instagram exposes usernames only, author id should be null")
	}
	if len(k1.Replies) != 1 || k1.Replies[0].ID != "k2" {
		t.Fatalf("k1 replies = %v, want [k2]", k1.Replies)
	}
	if k1.Replies[0].AuthorName == nil || *k1.Replies[0].AuthorName != "luis" {
		t.Errorf("k2 author name = %v, want luis", k1.Replies[0].AuthorName)
	}
}

func TestGraphErrorEnvelopeSurfacesCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/act_act1/ads", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "too many calls", "type": "OAuthException", "code": 80004}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := NewAdsSource(graphConfig(srv.URL), "CO", testAccount)

	_, _, err := source.FetchPage(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}

	var ae *apiError
	if !errors.As(err, &ae) {
		t.Fatalf("error %T, want *apiError", err)
	}
	if ae.code != graphCodeRateLimit || ae.status != http.StatusBadRequest {
		t.Errorf("apiError = %+v, want code 80004 status 400", ae)
	}
	if !newFetchError(source, "", err).Transient() {
		t.Error("graph rate limit should classify as transient")
	}
}

func TestParseGraphTime(t *testing.T) {
	if got := parseGraphTime("2024-05-01T10:00:00+0000"); got == nil {
		t.Error("graph offset layout should parse")
	} else if got.UTC().Hour() != 10 {
		t.Errorf("parsed hour = %d, want 10", got.UTC().Hour())
	}
	if got := parseGraphTime("2024-05-01T10:00:00Z"); got == nil {
		t.Error("RFC3339 should parse as fallback")
	}
	if got := parseGraphTime("yesterday-ish"); got != nil {
		t.Errorf("junk timestamp = %v, want nil", got)
	}
	if got := parseGraphTime(""); got != nil {
		t.Errorf("empty timestamp = %v, want nil", got)
	}
}
