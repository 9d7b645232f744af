package storage

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// PostgresSink writes comment batches to one table per source. A mutex
// serializes batches because pgx.Conn is not safe for concurrent use; each
// pair's batch still lands as one unit.
type PostgresSink struct {
	mu sync.Mutex
	db *pgx.Conn
}

func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("postgres not responding: %w", err)
	}

	s := &PostgresSink{db: conn}
	if err := s.initSchema(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("creating comment tables: %w", err)
	}

	log.Println("Connected to Postgres, comment tables verified")
	return s, nil
}

func (s *PostgresSink) initSchema(ctx context.Context) error {
	for _, source := range model.AllSources() {
		table := source.Table()
		query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            source TEXT NOT NULL,
            country TEXT NOT NULL,
            parent_id TEXT NOT NULL,
            comment_id TEXT NOT NULL,
            parent_comment_id TEXT,
            author_id TEXT,
            author_name TEXT,
            text TEXT NOT NULL DEFAULT '',
            like_count BIGINT,
            hidden BOOLEAN,
            permalink TEXT,
            created_at TIMESTAMPTZ,
            extracted_at TIMESTAMPTZ NOT NULL,
            UNIQUE (country, parent_id, comment_id)
        );
        CREATE INDEX IF NOT EXISTS idx_%s_extracted_at ON %s(extracted_at);`,
			table, table, table)

		if _, err := s.db.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresSink) Append(ctx context.Context, table string, records []model.CommentRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	const chunk = 500
	for i := 0; i < len(records); i += chunk {
		j := i + chunk
		if j > len(records) {
			j = len(records)
		}

		b := &pgx.Batch{}
		for _, r := range records[i:j] {
			b.Queue(
				`INSERT INTO `+table+`
				(source, country, parent_id, comment_id, parent_comment_id,
				 author_id, author_name, text, like_count, hidden, permalink,
				 created_at, extracted_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
				ON CONFLICT (country, parent_id, comment_id) DO NOTHING`,
				string(r.Source), r.Country, r.ParentID, r.CommentID, r.ParentCommentID,
				r.AuthorID, r.AuthorName, r.Text, r.LikeCount, r.Hidden, r.Permalink,
				r.CreatedAt, r.ExtractedAt,
			)
		}

		br := s.db.SendBatch(ctx, b)
		for k := i; k < j; k++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert into %s: %w", table, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("closing batch for %s: %w", table, err)
		}
	}

	return nil
}

func (s *PostgresSink) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}
