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

// MindMapRepository is an in-memory ports.MindMapRepository.
type MindMapRepository struct {
	mu       sync.RWMutex
	mindmaps map[string]*entities.MindMap
}

// NewMindMapRepository creates an empty in-memory mindmap repository.
func NewMindMapRepository() *MindMapRepository {
	return &MindMapRepository{mindmaps: make(map[string]*entities.MindMap)}
}

func copyMindMap(m *entities.MindMap) *entities.MindMap {
	c := *m
	c.Sharing.SharedWith = append([]string(nil), m.Sharing.SharedWith...)
	c.Metadata.Tags = append([]string(nil), m.Metadata.Tags...)
	return &c
}

func (r *MindMapRepository) Create(_ context.Context, mindmap *entities.MindMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.mindmaps[mindmap.ID]; ok {
		return pkgerrors.NewConflictError("Mindmap already exists")
	}
	r.mindmaps[mindmap.ID] = copyMindMap(mindmap)
	return nil
}

func (r *MindMapRepository) GetByID(_ context.Context, id string) (*entities.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mindmap, ok := r.mindmaps[id]
	if !ok || mindmap.IsDeleted {
		return nil, pkgerrors.NewNotFoundError("Mindmap")
	}
	return copyMindMap(mindmap), nil
}

func (r *MindMapRepository) ListByUser(_ context.Context, userUID string) ([]*entities.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entities.MindMap{}
	for _, mindmap := range r.mindmaps {
		if mindmap.UserUID == userUID && !mindmap.IsDeleted {
			out = append(out, copyMindMap(mindmap))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MindMapRepository) CountByUser(_ context.Context, userUID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, mindmap := range r.mindmaps {
		if mindmap.UserUID == userUID && !mindmap.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *MindMapRepository) UpdateFields(_ context.Context, id string, update ports.MindMapFieldUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mindmap, ok := r.mindmaps[id]
	if !ok || mindmap.IsDeleted {
		return pkgerrors.NewNotFoundError("Mindmap")
	}
	if update.Title != nil {
		mindmap.Title = *update.Title
	}
	if update.Description != nil {
		mindmap.Description = *update.Description
	}
	if update.Tags != nil {
		mindmap.Metadata.Tags = append([]string(nil), update.Tags...)
	}
	mindmap.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MindMapRepository) UpdateStats(_ context.Context, id string, totalNodes, maxDepth int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mindmap, ok := r.mindmaps[id]
	if !ok || mindmap.IsDeleted {
		return pkgerrors.NewNotFoundError("Mindmap")
	}
	mindmap.RefreshStats(totalNodes, maxDepth)
	return nil
}

func (r *MindMapRepository) TouchLastAccessed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mindmap, ok := r.mindmaps[id]
	if !ok || mindmap.IsDeleted {
		return pkgerrors.NewNotFoundError("Mindmap")
	}
	mindmap.Touch()
	return nil
}

func (r *MindMapRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mindmap, ok := r.mindmaps[id]
	if !ok || mindmap.IsDeleted {
		return pkgerrors.NewNotFoundError("Mindmap")
	}
	mindmap.SoftDelete()
	return nil
}

// GetAny returns the record even when soft-deleted. Test hook for
// asserting on tombstones; not part of the repository port.
func (r *MindMapRepository) GetAny(id string) (*entities.MindMap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mindmap, ok := r.mindmaps[id]
	if !ok {
		return nil, false
	}
	return copyMindMap(mindmap), true
}
