// Package storage holds the warehouse sinks the pipeline appends to.
package storage

import (
	"context"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// Sink appends one (country, source) batch to a named table. Appends are
// at-least-once: both implementations key on (country, parent_id,
// comment_id) so a replayed batch never double-counts a comment.
type Sink interface {
	Append(ctx context.Context, table string, records []model.CommentRecord) error
	Close(ctx context.Context) error
}
