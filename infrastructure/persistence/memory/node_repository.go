package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/core/entities"
	pkgerrors "ideavine-backend/pkg/errors"
)

// NodeRepository is an in-memory ports.NodeRepository.
type NodeRepository struct {
	mu    sync.RWMutex
	nodes map[string]*entities.Node
}

// NewNodeRepository creates an empty in-memory node repository.
func NewNodeRepository() *NodeRepository {
	return &NodeRepository{nodes: make(map[string]*entities.Node)}
}

func copyNode(n *entities.Node) *entities.Node {
	c := *n
	c.Parents = append([]string(nil), n.Parents...)
	c.Children = append([]string(nil), n.Children...)
	return &c
}

func (r *NodeRepository) Create(_ context.Context, node *entities.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[node.ID]; ok {
		return pkgerrors.NewConflictError("Node already exists")
	}
	r.nodes[node.ID] = copyNode(node)
	return nil
}

func (r *NodeRepository) GetByID(_ context.Context, id string) (*entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Node")
	}
	return copyNode(node), nil
}

func (r *NodeRepository) ListByMindMap(_ context.Context, mindmapID string) ([]*entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entities.Node{}
	for _, node := range r.nodes {
		if node.MindmapID == mindmapID {
			out = append(out, copyNode(node))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NodeRepository) UpdateConnections(_ context.Context, id string, parents, children []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("Node")
	}
	node.ReplaceConnections(parents, children)
	return nil
}

func (r *NodeRepository) UpdateFields(_ context.Context, id string, update ports.NodeFieldUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("Node")
	}
	if update.Title != nil {
		node.Title = *update.Title
	}
	if update.Content != nil {
		node.Content = *update.Content
	}
	if update.Position != nil {
		node.Position = *update.Position
	}
	node.ReplaceConnections(update.Parents, update.Children)
	node.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *NodeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[id]; !ok {
		return pkgerrors.NewNotFoundError("Node")
	}
	delete(r.nodes, id)
	return nil
}

func (r *NodeRepository) DeleteByMindMap(_ context.Context, mindmapID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, node := range r.nodes {
		if node.MindmapID == mindmapID {
			delete(r.nodes, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *NodeRepository) CountByUser(_ context.Context, userUID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, node := range r.nodes {
		if node.UserUID == userUID {
			count++
		}
	}
	return count, nil
}
