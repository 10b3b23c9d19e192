package messages

import (
	"context"

	"github.com/dmitrijs2005/suggestbox/internal/server/models"
)

// Repository is the durable keyed store for Message records.
//
// MarkRead and Delete return common.ErrNotFound when no record matches the
// given id; MarkRead on an already-read record succeeds without effect.
type Repository interface {
	Insert(ctx context.Context, m *models.Message) error
	ListAll(ctx context.Context) ([]*models.Message, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	AggregateStats(ctx context.Context) (*models.Stats, error)
}
