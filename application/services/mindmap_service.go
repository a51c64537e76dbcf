package services

import (
	"context"

	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/core/entities"
	"ideavine-backend/domain/core/valueobjects"
	"ideavine-backend/domain/events"
	pkgerrors "ideavine-backend/pkg/errors"
)

// NewNodeInput describes a node to create inside a mindmap operation.
// ID may be empty, in which case an identifier is derived server-side.
type NewNodeInput struct {
	ID       string
	Title    string
	Content  string
	Position valueobjects.Position
	Parents  []string
}

// NodeUpdateInput describes a partial node update. Nil fields are left
// untouched in the stored record.
type NodeUpdateInput struct {
	NodeID   string
	Title    *string
	Content  *string
	Position *valueobjects.Position
	Parents  []string
}

// CreateMindMapInput carries the fields for MindMapService.Create. The
// owner is addressed by email, matching the external API.
type CreateMindMapInput struct {
	MindmapID   string
	UserEmail   string
	Title       string
	Description string
	Tags        []string
	Nodes       []NewNodeInput
}

// UpdateMindMapInput carries the fields for MindMapService.Update.
// Everything is optional; node operations run add, update, delete in
// that order.
type UpdateMindMapInput struct {
	Title         *string
	Description   *string
	NodesToAdd    []NewNodeInput
	NodesToUpdate []NodeUpdateInput
	NodesToDelete []string
}

// NodeChanges reports what a bulk update did to the node collection.
type NodeChanges struct {
	Added   []*entities.Node
	Updated []*entities.Node
	Deleted []string
}

// MindMapService manages mindmaps and owns the deletion cascade: a
// mindmap delete hard-deletes the node collection and soft-deletes the
// map record in one service operation, so no caller can do half of it.
type MindMapService struct {
	users     ports.UserRepository
	mindmaps  ports.MindMapRepository
	nodes     ports.NodeRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	cascade   *statsCascade
}

// NewMindMapService creates a MindMapService.
func NewMindMapService(
	users ports.UserRepository,
	mindmaps ports.MindMapRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *MindMapService {
	return &MindMapService{
		users:     users,
		mindmaps:  mindmaps,
		nodes:     nodes,
		publisher: publisher,
		logger:    logger,
		cascade:   &statsCascade{users: users, mindmaps: mindmaps, nodes: nodes, logger: logger},
	}
}

// Create stores a new mindmap with optional initial nodes. The owner
// must be an active user; the supplied identifier must follow the
// composite format, which the entity constructor enforces.
func (s *MindMapService) Create(ctx context.Context, input CreateMindMapInput) (*entities.MindMap, []*entities.Node, error) {
	user, err := s.users.GetByEmail(ctx, input.UserEmail)
	if err != nil {
		return nil, nil, err
	}

	mindmap, err := entities.NewMindMap(input.MindmapID, user.ID, input.Title, input.Description, input.Tags)
	if err != nil {
		return nil, nil, err
	}
	if err := s.mindmaps.Create(ctx, mindmap); err != nil {
		return nil, nil, err
	}

	created := []*entities.Node{}
	for _, n := range input.Nodes {
		node, err := entities.NewNode(n.ID, mindmap.ID, user.ID, n.Title, n.Content, n.Position, n.Parents, "", "")
		if err != nil {
			return nil, nil, err
		}
		if err := s.nodes.Create(ctx, node); err != nil {
			return nil, nil, err
		}
		created = append(created, node)
	}

	s.cascade.cascadeAfterNodeChange(ctx, mindmap.ID, user.ID)

	fresh, err := s.mindmaps.GetByID(ctx, mindmap.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("mindmap created",
		zap.String("mindmap_id", mindmap.ID),
		zap.Int("initial_nodes", len(created)))
	publish(ctx, s.publisher, s.logger, events.NewMindMapCreated(mindmap.ID, user.ID, len(created)))
	return fresh, created, nil
}

// Update applies partial field changes plus the three node operations,
// then refreshes the caches. Deleting an already-absent node is not an
// error; the identifier still shows up in the deleted list.
func (s *MindMapService) Update(ctx context.Context, mindmapID string, input UpdateMindMapInput) (*entities.MindMap, *NodeChanges, error) {
	mindmap, err := s.mindmaps.GetByID(ctx, mindmapID)
	if err != nil {
		return nil, nil, err
	}

	if input.Title != nil || input.Description != nil {
		update := ports.MindMapFieldUpdate{Title: input.Title, Description: input.Description}
		if err := s.mindmaps.UpdateFields(ctx, mindmapID, update); err != nil {
			return nil, nil, err
		}
	}

	changes := &NodeChanges{Added: []*entities.Node{}, Updated: []*entities.Node{}, Deleted: []string{}}

	for _, n := range input.NodesToAdd {
		node, err := entities.NewNode(n.ID, mindmapID, mindmap.UserUID, n.Title, n.Content, n.Position, n.Parents, "", "")
		if err != nil {
			return nil, nil, err
		}
		if err := s.nodes.Create(ctx, node); err != nil {
			return nil, nil, err
		}
		changes.Added = append(changes.Added, node)
	}

	for _, n := range input.NodesToUpdate {
		update := ports.NodeFieldUpdate{
			Title:    n.Title,
			Content:  n.Content,
			Position: n.Position,
			Parents:  n.Parents,
		}
		if err := s.nodes.UpdateFields(ctx, n.NodeID, update); err != nil {
			return nil, nil, err
		}
		updated, err := s.nodes.GetByID(ctx, n.NodeID)
		if err != nil {
			return nil, nil, err
		}
		changes.Updated = append(changes.Updated, updated)
	}

	for _, nodeID := range input.NodesToDelete {
		if err := s.nodes.Delete(ctx, nodeID); err != nil && !pkgerrors.IsNotFound(err) {
			return nil, nil, err
		}
		changes.Deleted = append(changes.Deleted, nodeID)
	}

	s.cascade.cascadeAfterNodeChange(ctx, mindmapID, mindmap.UserUID)

	fresh, err := s.mindmaps.GetByID(ctx, mindmapID)
	if err != nil {
		return nil, nil, err
	}
	return fresh, changes, nil
}

// Delete hard-deletes the node collection, soft-deletes the mindmap,
// and refreshes the owner's counters. Returns the deleted node count.
func (s *MindMapService) Delete(ctx context.Context, mindmapID string) (int, error) {
	mindmap, err := s.mindmaps.GetByID(ctx, mindmapID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.nodes.DeleteByMindMap(ctx, mindmapID)
	if err != nil {
		return 0, err
	}
	if err := s.mindmaps.SoftDelete(ctx, mindmapID); err != nil {
		return deleted, err
	}

	if err := s.cascade.refreshUser(ctx, mindmap.UserUID); err != nil {
		s.logger.Warn("user stats refresh failed after mindmap delete",
			zap.String("user_uid", mindmap.UserUID),
			zap.Error(err))
	}

	s.logger.Info("mindmap deleted",
		zap.String("mindmap_id", mindmapID),
		zap.Int("deleted_nodes", deleted))
	publish(ctx, s.publisher, s.logger, events.NewMindMapDeleted(mindmapID, mindmap.UserUID, deleted))
	return deleted, nil
}

// ListByUser returns the user's live mindmaps. The user must exist and
// be active.
func (s *MindMapService) ListByUser(ctx context.Context, userUID string) ([]*entities.MindMap, error) {
	if _, err := s.users.GetByID(ctx, userUID); err != nil {
		return nil, err
	}
	return s.mindmaps.ListByUser(ctx, userUID)
}

// ListNodes returns the mindmap and its full node set. Reading the
// nodes counts as access, so last_accessed is touched; the caches are
// also refreshed here, which heals any cascade step lost on a prior
// write.
func (s *MindMapService) ListNodes(ctx context.Context, mindmapID string) (*entities.MindMap, []*entities.Node, error) {
	mindmap, err := s.mindmaps.GetByID(ctx, mindmapID)
	if err != nil {
		return nil, nil, err
	}
	nodeSet, err := s.nodes.ListByMindMap(ctx, mindmapID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.cascade.refreshMindMap(ctx, mindmapID); err != nil {
		s.logger.Warn("mindmap stats refresh failed on read",
			zap.String("mindmap_id", mindmapID),
			zap.Error(err))
	}
	if err := s.mindmaps.TouchLastAccessed(ctx, mindmapID); err != nil {
		s.logger.Warn("last_accessed touch failed",
			zap.String("mindmap_id", mindmapID),
			zap.Error(err))
	}

	return mindmap, nodeSet, nil
}
