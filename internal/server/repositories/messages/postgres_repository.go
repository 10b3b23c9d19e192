// Package messages provides the PostgreSQL-backed repository for message
// persistence and the moderation queries over it.
package messages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/dmitrijs2005/suggestbox/internal/dbx"
	"github.com/dmitrijs2005/suggestbox/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert persists a new message. The caller assigns ID, SubmittedAt and the
// initial Read flag; ids are never reused, so a conflict is a DB error.
func (r *PostgresRepository) Insert(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, body, category, submitted_at, read)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Body, m.Category, m.SubmittedAt, m.Read); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListAll returns every message, most recent first. The seq column breaks
// ties between equal timestamps in insertion order.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Message, error) {
	query := `
		SELECT id, body, category, submitted_at, read FROM messages
		ORDER BY submitted_at DESC, seq DESC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	result := []*models.Message{}
	for rows.Next() {
		var item models.Message
		if err := rows.Scan(&item.ID, &item.Body, &item.Category, &item.SubmittedAt, &item.Read); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// MarkRead sets read=true for the message with the given id. Returns
// common.ErrNotFound if no row matched; re-marking an already-read message
// matches its row and succeeds.
func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE messages SET read = TRUE WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete permanently removes the message with the given id. Returns
// common.ErrNotFound if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM messages WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// AggregateStats counts all messages, the unread subset, and the per-category
// totals. Categories without messages do not appear in the result.
func (r *PostgresRepository) AggregateStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{ByCategory: map[string]int{}}

	totalsQuery := `SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT read) FROM messages;`
	if err := r.db.QueryRowContext(ctx, totalsQuery).Scan(&stats.Total, &stats.Unread); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	byCategoryQuery := `SELECT category, COUNT(*) FROM messages GROUP BY category;`
	rows, err := r.db.QueryContext(ctx, byCategoryQuery)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
