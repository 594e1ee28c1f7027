package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abonentdesk/appeal-service/internal/appeal"
	"github.com/abonentdesk/appeal-service/internal/shared/events"
	"github.com/google/uuid"
)

// Publisher satisfies appeal.Publisher by enqueueing appeal.created into
// the outbox table instead of talking to Kafka from the request path.
type Publisher struct {
	store *Store
}

func NewPublisher(store *Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) AppealCreated(ctx context.Context, rec appeal.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode appeal record: %w", err)
	}
	return p.store.Enqueue(ctx, uuid.NewString(), events.AggregateAppeal, rec.ID, events.TypeAppealCreated, payload)
}
