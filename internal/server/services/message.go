// Package services contains server-side business logic: message submission
// and moderation (MessageService) and the moderator auth gate (AuthService).
package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/dmitrijs2005/suggestbox/internal/dbx"
	"github.com/dmitrijs2005/suggestbox/internal/server/models"
	"github.com/dmitrijs2005/suggestbox/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultCategory is assigned when a submission omits the category.
const DefaultCategory = "General"

// MessageService provides message operations:
// - Submit: validate and store an anonymous submission (public)
// - List / MarkRead / Delete / Stats: moderation over the stored messages
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewMessageService constructs a MessageService using repositories.
func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repomanager: m}
}

// Submit trims and validates body, defaults an empty category, assigns a
// fresh id and UTC timestamp, and persists the message. An empty or
// whitespace-only body yields common.ErrValidation.
func (s *MessageService) Submit(ctx context.Context, body, category string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.ErrValidation
	}
	if category == "" {
		category = DefaultCategory
	}

	m := &models.Message{
		ID:          uuid.NewString(),
		Body:        body,
		Category:    category,
		SubmittedAt: time.Now().UTC(),
		Read:        false,
	}

	repo := s.repomanager.Messages(s.db)
	if err := repo.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns all messages, most recent first.
func (s *MessageService) List(ctx context.Context) ([]*models.Message, error) {
	repo := s.repomanager.Messages(s.db)
	return repo.ListAll(ctx)
}

// MarkRead flips the read flag to true. The transition is one-way; there is
// no un-read operation. Unknown ids yield common.ErrNotFound.
func (s *MessageService) MarkRead(ctx context.Context, id string) error {
	repo := s.repomanager.Messages(s.db)
	return repo.MarkRead(ctx, id)
}

// Delete permanently removes a message. Unknown ids yield common.ErrNotFound.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Messages(s.db)
	return repo.Delete(ctx, id)
}

// Stats returns aggregate counts over the extant messages. The aggregation
// runs inside a single transaction so the per-category totals and the
// overall counters come from one snapshot.
func (s *MessageService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats *models.Stats

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		stats, err = s.repomanager.Messages(tx).AggregateStats(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
