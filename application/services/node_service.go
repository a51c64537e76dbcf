package services

import (
	"context"

	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/core/entities"
	"ideavine-backend/domain/core/valueobjects"
	"ideavine-backend/domain/events"
)

// CreateNodeInput carries the fields for NodeService.Create. ID may be
// empty; Type and Source default to manual/user_input.
type CreateNodeInput struct {
	ID        string
	MindmapID string
	Title     string
	Content   string
	Position  valueobjects.Position
	Parents   []string
	Type      entities.NodeType
	Source    entities.NodeSource
}

// NodeService manages individual nodes. Every mutation here triggers
// the full stats cascade on the owning mindmap and user.
type NodeService struct {
	mindmaps  ports.MindMapRepository
	nodes     ports.NodeRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	cascade   *statsCascade
}

// NewNodeService creates a NodeService.
func NewNodeService(
	users ports.UserRepository,
	mindmaps ports.MindMapRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *NodeService {
	return &NodeService{
		mindmaps:  mindmaps,
		nodes:     nodes,
		publisher: publisher,
		logger:    logger,
		cascade:   &statsCascade{users: users, mindmaps: mindmaps, nodes: nodes, logger: logger},
	}
}

// Create inserts a node into a live mindmap and runs the stats
// cascade. A supplied identifier must bind to the mindmap; a duplicate
// identifier surfaces as a conflict from the store.
func (s *NodeService) Create(ctx context.Context, input CreateNodeInput) (*entities.Node, error) {
	mindmap, err := s.mindmaps.GetByID(ctx, input.MindmapID)
	if err != nil {
		return nil, err
	}

	node, err := entities.NewNode(input.ID, mindmap.ID, mindmap.UserUID, input.Title, input.Content, input.Position, input.Parents, input.Type, input.Source)
	if err != nil {
		return nil, err
	}
	if err := s.nodes.Create(ctx, node); err != nil {
		return nil, err
	}

	s.cascade.cascadeAfterNodeChange(ctx, mindmap.ID, mindmap.UserUID)

	publish(ctx, s.publisher, s.logger, events.NewNodeCreated(node.ID, mindmap.ID, mindmap.UserUID, string(node.Metadata.Source)))
	return node, nil
}

// UpdateConnections replaces the node's parent/children arrays. Nil
// means untouched, empty means cleared. The referenced identifiers are
// not checked for existence; edges are hints and may dangle.
func (s *NodeService) UpdateConnections(ctx context.Context, nodeID string, parents, children []string) (*entities.Node, error) {
	if err := s.nodes.UpdateConnections(ctx, nodeID, parents, children); err != nil {
		return nil, err
	}
	return s.nodes.GetByID(ctx, nodeID)
}

// Delete removes a single node and runs the stats cascade. Identifiers
// pointing at the deleted node stay behind in sibling arrays.
func (s *NodeService) Delete(ctx context.Context, nodeID string) error {
	node, err := s.nodes.GetByID(ctx, nodeID)
	if err != nil {
		return err
	}
	if err := s.nodes.Delete(ctx, nodeID); err != nil {
		return err
	}

	s.cascade.cascadeAfterNodeChange(ctx, node.MindmapID, node.UserUID)

	s.logger.Info("node deleted", zap.String("node_id", nodeID))
	publish(ctx, s.publisher, s.logger, events.NewNodeDeleted(nodeID, node.MindmapID))
	return nil
}
