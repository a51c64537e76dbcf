// Package ports defines the interfaces the application layer depends
// on. Infrastructure supplies the implementations; services only ever
// see these contracts.
package ports

import (
	"context"

	"ideavine-backend/domain/core/entities"
	"ideavine-backend/domain/core/valueobjects"
)

// UserRepository persists user records.
//
// Reads come in two visibilities: GetByID and GetByEmail see active
// users only, GetByEmailAny ignores the is_active flag. Creation does
// not check for prior soft-deleted holders of the same email, so a
// deactivated account never blocks re-registration.
type UserRepository interface {
	// Create stores a new user. A second active user with the same
	// email yields a conflict error.
	Create(ctx context.Context, user *entities.User) error

	// GetByID returns the active user with the given identifier, or a
	// not-found error.
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail returns the active user with the given email, or a
	// not-found error.
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// GetByEmailAny returns the most recent user with the given email
	// regardless of active status. Used by diagnostics only.
	GetByEmailAny(ctx context.Context, email string) (*entities.User, error)

	// UpdateStats overwrites the cached aggregate counters.
	UpdateStats(ctx context.Context, id string, totalMindmaps, totalNodes int) error

	// SoftDelete flips is_active to false. The record stays behind.
	SoftDelete(ctx context.Context, id string) error
}

// MindMapFieldUpdate names the mutable mindmap fields. Nil pointers
// leave the stored value untouched.
type MindMapFieldUpdate struct {
	Title       *string
	Description *string
	Tags        []string
}

// MindMapRepository persists mindmap records. All reads exclude
// soft-deleted mindmaps.
type MindMapRepository interface {
	// Create stores a new mindmap. A duplicate identifier yields a
	// conflict error.
	Create(ctx context.Context, mindmap *entities.MindMap) error

	// GetByID returns the live mindmap with the given identifier, or a
	// not-found error. Soft-deleted mindmaps are invisible here.
	GetByID(ctx context.Context, id string) (*entities.MindMap, error)

	// ListByUser returns the user's live mindmaps, most recently
	// updated first.
	ListByUser(ctx context.Context, userUID string) ([]*entities.MindMap, error)

	// CountByUser returns the number of live mindmaps the user owns.
	CountByUser(ctx context.Context, userUID string) (int, error)

	// UpdateFields applies the non-nil fields of the update and bumps
	// updated_at.
	UpdateFields(ctx context.Context, id string, update MindMapFieldUpdate) error

	// UpdateStats overwrites the cached node count and max depth.
	UpdateStats(ctx context.Context, id string, totalNodes, maxDepth int) error

	// TouchLastAccessed refreshes last_accessed without touching
	// updated_at.
	TouchLastAccessed(ctx context.Context, id string) error

	// SoftDelete flips is_deleted. Node cascade is the service's job.
	SoftDelete(ctx context.Context, id string) error
}

// NodeFieldUpdate names the mutable node fields. Nil pointers and nil
// slices leave the stored value untouched.
type NodeFieldUpdate struct {
	Title    *string
	Content  *string
	Position *valueobjects.Position
	Parents  []string
	Children []string
}

// NodeRepository persists node records. Nodes are hard-deleted; there
// is no soft-delete tier below the mindmap.
type NodeRepository interface {
	// Create stores a new node. A duplicate identifier yields a
	// conflict error.
	Create(ctx context.Context, node *entities.Node) error

	// GetByID returns the node with the given identifier, or a
	// not-found error.
	GetByID(ctx context.Context, id string) (*entities.Node, error)

	// ListByMindMap returns every node in the mindmap, oldest first.
	ListByMindMap(ctx context.Context, mindmapID string) ([]*entities.Node, error)

	// UpdateConnections replaces whichever of parents/children is
	// non-nil. Identifiers are not checked for existence; the arrays
	// are hints and may dangle.
	UpdateConnections(ctx context.Context, id string, parents, children []string) error

	// UpdateFields applies the non-nil fields of the update and bumps
	// updated_at.
	UpdateFields(ctx context.Context, id string, update NodeFieldUpdate) error

	// Delete removes the node record. References to it in sibling
	// parent/child arrays are left behind.
	Delete(ctx context.Context, id string) error

	// DeleteByMindMap removes every node in the mindmap and returns
	// how many were deleted.
	DeleteByMindMap(ctx context.Context, mindmapID string) (int, error)

	// CountByUser returns the number of nodes across all of the user's
	// live mindmaps.
	CountByUser(ctx context.Context, userUID string) (int, error)
}
