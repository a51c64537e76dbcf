package entities

import (
	"time"

	"ideavine-backend/domain/core/valueobjects"
	pkgerrors "ideavine-backend/pkg/errors"
)

// AccessLevel is the permission granted to collaborators on a shared mindmap.
type AccessLevel string

const (
	AccessLevelView AccessLevel = "view"
	AccessLevelEdit AccessLevel = "edit"
)

// Sharing describes who besides the owner may see a mindmap.
type Sharing struct {
	IsPublic    bool        `json:"is_public" dynamodbav:"IsPublic"`
	SharedWith  []string    `json:"shared_with" dynamodbav:"SharedWith"`
	AccessLevel AccessLevel `json:"access_level" dynamodbav:"AccessLevel"`
}

// MindMapMetadata caches the node count and maximum stored depth for the
// mindmap, plus its tag set. The two counters mirror what the stats
// engine computes from the node collection.
type MindMapMetadata struct {
	TotalNodes int      `json:"total_nodes" dynamodbav:"TotalNodes"`
	MaxDepth   int      `json:"max_depth" dynamodbav:"MaxDepth"`
	Tags       []string `json:"tags" dynamodbav:"Tags"`
}

// MindMap is a titled collection of nodes owned by a user. Deletion is
// soft: IsDeleted flips and the node set is hard-deleted alongside.
type MindMap struct {
	ID           string          `json:"_id"`
	UserUID      string          `json:"user_uid"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	LastAccessed time.Time       `json:"last_accessed"`
	IsDeleted    bool            `json:"is_deleted"`
	Sharing      Sharing         `json:"sharing"`
	Metadata     MindMapMetadata `json:"metadata"`
}

// NewMindMap creates a mindmap with private sharing and zeroed stats.
// The identifier is supplied by the caller (derived client-side from the
// owner and a timestamp) and must follow the composite format.
func NewMindMap(id, ownerID, title, description string, tags []string) (*MindMap, error) {
	if id == "" {
		return nil, pkgerrors.NewMissingFieldError("mindmap_id")
	}
	if !valueobjects.ValidateMindMapID(id) {
		return nil, pkgerrors.NewValidationError("Invalid mindmap_id format")
	}
	if ownerID == "" {
		return nil, pkgerrors.NewMissingFieldError("user_uid")
	}
	if title == "" {
		return nil, pkgerrors.NewMissingFieldError("title")
	}
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	return &MindMap{
		ID:           id,
		UserUID:      ownerID,
		Title:        title,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastAccessed: now,
		Sharing: Sharing{
			IsPublic:    false,
			SharedWith:  []string{},
			AccessLevel: AccessLevelView,
		},
		Metadata: MindMapMetadata{Tags: tags},
	}, nil
}

// RefreshStats overwrites the cached counters and bumps the update
// timestamp. Idempotent; safe to call redundantly.
func (m *MindMap) RefreshStats(totalNodes, maxDepth int) {
	m.Metadata.TotalNodes = totalNodes
	m.Metadata.MaxDepth = maxDepth
	m.UpdatedAt = time.Now().UTC()
}

// Touch refreshes the last-accessed timestamp. Independent of stats.
func (m *MindMap) Touch() {
	m.LastAccessed = time.Now().UTC()
}

// SoftDelete marks the mindmap deleted. Node cascade is the caller's
// explicit job; see MindMapService.Delete.
func (m *MindMap) SoftDelete() {
	m.IsDeleted = true
	m.UpdatedAt = time.Now().UTC()
}
