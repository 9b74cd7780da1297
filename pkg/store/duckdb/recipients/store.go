package recipients

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
)

// Store keeps notification recipients in DuckDB, in the order they were added.
type Store interface {
	Add(ctx context.Context, ids ...string) (int, error)
	Remove(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]store.Recipient, error)
	ListRecipients(ctx context.Context) ([]string, error)
}

type recipientStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &recipientStore{db: db}, nil
}

// Add inserts the ids that are not stored yet and returns how many were added.
// Blank ids are ignored.
func (s *recipientStore) Add(ctx context.Context, ids ...string) (int, error) {
	conn := duckdb.Conn(ctx, s.db)
	query := `INSERT INTO recipients (id) VALUES (?) ON CONFLICT DO NOTHING`

	added := 0
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		res, err := conn.ExecContext(ctx, query, id)
		if err != nil {
			return added, fmt.Errorf("insert recipient %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("insert recipient %s: %w", id, err)
		}
		added += int(n)
	}
	return added, nil
}

func (s *recipientStore) Remove(ctx context.Context, id string) (bool, error) {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM recipients WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return false, fmt.Errorf("delete recipient %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete recipient %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *recipientStore) List(ctx context.Context) ([]store.Recipient, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT id, added_at
		FROM recipients
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]store.Recipient, 0)
	for rows.Next() {
		var (
			id      string
			addedAt time.Time
		)
		if err := rows.Scan(&id, &addedAt); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		recipients = append(recipients, store.Recipient{ID: id, AddedAt: addedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipients: %w", err)
	}
	return recipients, nil
}

// ListRecipients returns the recipient ids in insertion order.
func (s *recipientStore) ListRecipients(ctx context.Context) ([]string, error) {
	recipients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recipients))
	for _, r := range recipients {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
