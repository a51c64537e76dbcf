// Package services implements the application use cases. Services own
// the stats cascade: after any node mutation the owning mindmap's
// cached counters are recomputed from a full node scan, then the
// owner's counters are recomputed from the collection counts. The two
// refreshes are independent writes with no transaction between them;
// a reader between them sees stale caches, which the read path heals
// by refreshing opportunistically.
package services

import (
	"context"

	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/events"
	"ideavine-backend/domain/stats"
)

// statsCascade bundles the refresh steps shared by the services.
type statsCascade struct {
	users    ports.UserRepository
	mindmaps ports.MindMapRepository
	nodes    ports.NodeRepository
	logger   *zap.Logger
}

// refreshMindMap recomputes the mindmap's counters from its node set.
func (c *statsCascade) refreshMindMap(ctx context.Context, mindmapID string) error {
	nodeSet, err := c.nodes.ListByMindMap(ctx, mindmapID)
	if err != nil {
		return err
	}
	s := stats.Compute(nodeSet)
	return c.mindmaps.UpdateStats(ctx, mindmapID, s.TotalNodes, s.MaxDepth)
}

// refreshUser recomputes the user's counters from the collections.
func (c *statsCascade) refreshUser(ctx context.Context, userUID string) error {
	totalMindmaps, err := c.mindmaps.CountByUser(ctx, userUID)
	if err != nil {
		return err
	}
	totalNodes, err := c.nodes.CountByUser(ctx, userUID)
	if err != nil {
		return err
	}
	return c.users.UpdateStats(ctx, userUID, totalMindmaps, totalNodes)
}

// cascadeAfterNodeChange runs both refreshes after a node mutation.
// Failures are logged and swallowed: the primary write already
// succeeded and the caches are rederivable on the next read.
func (c *statsCascade) cascadeAfterNodeChange(ctx context.Context, mindmapID, userUID string) {
	if err := c.refreshMindMap(ctx, mindmapID); err != nil {
		c.logger.Warn("mindmap stats refresh failed",
			zap.String("mindmap_id", mindmapID),
			zap.Error(err))
	}
	if err := c.refreshUser(ctx, userUID); err != nil {
		c.logger.Warn("user stats refresh failed",
			zap.String("user_uid", userUID),
			zap.Error(err))
	}
}

// publish delivers a domain event best-effort.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("event publish failed",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Error(err))
	}
}
