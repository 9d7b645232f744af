// Package flatten turns the nested comment threads of one raw page into
// flat warehouse rows.
package flatten

import (
	"strings"
	"time"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Flatten maps one RawPage to normalized records in depth-first order: each
// top-level comment, then its replies, then the next sibling. Entries
// without an id are skipped and counted instead of failing the page.
// Pure function: extraction time and pair identity come in as arguments.
func Flatten(page model.RawPage, source model.SourceType, country string, extractedAt time.Time) ([]model.CommentRecord, int) {
	f := &flattener{
		source:      source,
		country:     country,
		extractedAt: extractedAt,
	}

	for _, parent := range page.Parents {
		if parent.ID == "" {
			f.skipped += count(parent.Comments)
			continue
		}
		for _, comment := range parent.Comments {
			f.walk(parent.ID, comment, nil)
		}
	}

	return f.records, f.skipped
}

type flattener struct {
	source      model.SourceType
	country     string
	extractedAt time.Time
	records     []model.CommentRecord
	skipped     int
}

func (f *flattener) walk(parentID string, comment model.Comment, parentCommentID *string) {
	if comment.ID == "" {
		// Replies below a dropped comment would point at a record that was
		// never emitted, so the whole subtree goes with it.
		f.skipped += 1 + count(comment.Replies)
		return
	}

	f.records = append(f.records, model.CommentRecord{
		Source:          f.source,
		Country:         f.country,
		ParentID:        parentID,
		CommentID:       comment.ID,
		ParentCommentID: parentCommentID,
		AuthorID:        comment.AuthorID,
		AuthorName:      comment.AuthorName,
		Text:            scrub(comment.Text),
		LikeCount:       comment.LikeCount,
		Hidden:          comment.Hidden,
		Permalink:       comment.Permalink,
		CreatedAt:       comment.CreatedAt,
		ExtractedAt:     f.extractedAt,
	})

	id := comment.ID
	for _, reply := range comment.Replies {
		f.walk(parentID, reply, &id)
	}
}

func count(comments []model.Comment) int {
	n := 0
	for _, c := range comments {
		n += 1 + count(c.Replies)
	}
	return n
}

// scrub keeps every record single-line in the warehouse.
func scrub(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	return newlineReplacer.Replace(text)
}
