package entities

import (
	"time"

	"ideavine-backend/domain/core/valueobjects"
	pkgerrors "ideavine-backend/pkg/errors"
)

// NodeType records how a node came to exist.
type NodeType string

const (
	NodeTypeManual         NodeType = "manual"
	NodeTypeAudioGenerated NodeType = "audio_generated"
	NodeTypeAISuggested    NodeType = "ai_suggested"
)

// NodeSource records where a node's content came from.
type NodeSource string

const (
	NodeSourceUserInput          NodeSource = "user_input"
	NodeSourceAudioTranscription NodeSource = "audio_transcription"
	NodeSourceAISynthesis        NodeSource = "ai_synthesis"
)

// NodeMetadata carries provenance for a node.
type NodeMetadata struct {
	Type           NodeType   `json:"type" dynamodbav:"Type"`
	Source         NodeSource `json:"source" dynamodbav:"Source"`
	LastModifiedBy string     `json:"last_modified_by" dynamodbav:"LastModifiedBy"`
}

// Node is a single idea within a mindmap, linked to other nodes through
// parent and child identifier sets. The sets are hints, not enforced
// foreign keys: deleting a node leaves its identifier behind in sibling
// arrays, and traversal code must tolerate dangling entries.
type Node struct {
	ID        string                `json:"_id"`
	MindmapID string                `json:"mindmap_id"`
	UserUID   string                `json:"user_uid"`
	Title     string                `json:"title"`
	Content   string                `json:"content"`
	Position  valueobjects.Position `json:"position"`
	Parents   []string              `json:"parents"`
	Children  []string              `json:"children"`
	Depth     int                   `json:"depth"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Metadata  NodeMetadata          `json:"metadata"`
}

// NewNode creates a node. When explicitID is empty an identifier is
// derived from the owning mindmap and the current time; an explicit
// identifier must bind to the owning mindmap.
//
// Depth always starts at zero, independent of the parent set, and is
// never recomputed from the graph afterwards. The max-depth statistic
// therefore reflects only what creation paths stored.
func NewNode(explicitID, mindmapID, userUID, title, content string, position valueobjects.Position, parents []string, nodeType NodeType, source NodeSource) (*Node, error) {
	if mindmapID == "" {
		return nil, pkgerrors.NewMissingFieldError("mindmap_id")
	}
	if userUID == "" {
		return nil, pkgerrors.NewMissingFieldError("user_uid")
	}
	if title == "" {
		return nil, pkgerrors.NewMissingFieldError("title")
	}

	id := explicitID
	if id == "" {
		id = valueobjects.DeriveNodeID(mindmapID).String()
	} else if !valueobjects.ValidateNodeID(id, mindmapID) {
		return nil, pkgerrors.NewValidationError("Invalid node_id format: " + id).
			WithDetail("mindmap_id", mindmapID)
	}

	if parents == nil {
		parents = []string{}
	}
	if nodeType == "" {
		nodeType = NodeTypeManual
	}
	if source == "" {
		source = NodeSourceUserInput
	}

	now := time.Now().UTC()
	return &Node{
		ID:        id,
		MindmapID: mindmapID,
		UserUID:   userUID,
		Title:     title,
		Content:   content,
		Position:  position,
		Parents:   parents,
		Children:  []string{},
		Depth:     0,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata: NodeMetadata{
			Type:           nodeType,
			Source:         source,
			LastModifiedBy: userUID,
		},
	}, nil
}

// ReplaceConnections overwrites whichever of parents/children is non-nil
// and bumps the update timestamp. Replacement, never a merge; no cycle
// detection and no depth recompute.
func (n *Node) ReplaceConnections(parents, children []string) {
	if parents != nil {
		n.Parents = parents
	}
	if children != nil {
		n.Children = children
	}
	n.UpdatedAt = time.Now().UTC()
}
