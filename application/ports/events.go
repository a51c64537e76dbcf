package ports

import (
	"context"

	"ideavine-backend/domain/events"
)

// EventPublisher delivers domain events to the bus. Best-effort: a
// failed publish is logged by the implementation, never propagated to
// the mutation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}
