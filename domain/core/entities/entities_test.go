package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideavine-backend/domain/core/valueobjects"
	pkgerrors "ideavine-backend/pkg/errors"
)

func TestNewUser_Defaults(t *testing.T) {
	user, err := NewUser("alice@example.com", "")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Name, "name defaults to the email local part")
	assert.True(t, user.IsActive)
	assert.Equal(t, "tree", user.Settings.DefaultMindmapLayout)
	assert.Equal(t, "light", user.Settings.Theme)
	assert.True(t, user.Settings.NotificationsEnabled)
	assert.Zero(t, user.Metadata.TotalMindmaps)
	assert.Zero(t, user.Metadata.TotalNodes)

	_, err = uuid.Parse(user.ID)
	assert.NoError(t, err)
}

func TestNewUser_RequiresEmail(t *testing.T) {
	_, err := NewUser("", "Alice")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_SoftDelete(t *testing.T) {
	user, err := NewUser("bob@example.com", "Bob")
	require.NoError(t, err)

	before := user.UpdatedAt
	user.SoftDelete()

	assert.False(t, user.IsActive)
	assert.False(t, user.UpdatedAt.Before(before))
}

func TestNewMindMap(t *testing.T) {
	ownerID := uuid.New().String()
	id := valueobjects.NewMindMapID(ownerID, 1000).String()

	m, err := NewMindMap(id, ownerID, "Plan", "weekly planning", nil)
	require.NoError(t, err)

	assert.Equal(t, id, m.ID)
	assert.False(t, m.IsDeleted)
	assert.False(t, m.Sharing.IsPublic)
	assert.Equal(t, AccessLevelView, m.Sharing.AccessLevel)
	assert.Empty(t, m.Sharing.SharedWith)
	assert.Zero(t, m.Metadata.TotalNodes)
	assert.Zero(t, m.Metadata.MaxDepth)
	assert.NotNil(t, m.Metadata.Tags)
}

func TestNewMindMap_Validation(t *testing.T) {
	ownerID := uuid.New().String()
	id := valueobjects.NewMindMapID(ownerID, 1000).String()

	tests := []struct {
		name    string
		id      string
		ownerID string
		title   string
	}{
		{"empty id", "", ownerID, "Plan"},
		{"malformed id", "plan-map", ownerID, "Plan"},
		{"empty owner", id, "", "Plan"},
		{"empty title", id, ownerID, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMindMap(tt.id, tt.ownerID, tt.title, "", nil)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestMindMap_RefreshStats_Idempotent(t *testing.T) {
	ownerID := uuid.New().String()
	m, err := NewMindMap(valueobjects.NewMindMapID(ownerID, 1).String(), ownerID, "Plan", "", nil)
	require.NoError(t, err)

	m.RefreshStats(3, 0)
	first := m.Metadata
	m.RefreshStats(3, 0)

	assert.Equal(t, first, m.Metadata)
}

func TestNewNode(t *testing.T) {
	ownerID := uuid.New().String()
	mindmapID := valueobjects.NewMindMapID(ownerID, 1000).String()

	node, err := NewNode("", mindmapID, ownerID, "Idea", "body", valueobjects.NewPosition(10, 20), nil, "", "")
	require.NoError(t, err)

	assert.True(t, valueobjects.ValidateNodeID(node.ID, mindmapID))
	assert.Equal(t, 0, node.Depth)
	assert.Empty(t, node.Children)
	assert.NotNil(t, node.Parents)
	assert.Equal(t, NodeTypeManual, node.Metadata.Type)
	assert.Equal(t, NodeSourceUserInput, node.Metadata.Source)
	assert.Equal(t, ownerID, node.Metadata.LastModifiedBy)
}

func TestNewNode_DepthIgnoresParents(t *testing.T) {
	ownerID := uuid.New().String()
	mindmapID := valueobjects.NewMindMapID(ownerID, 1000).String()
	parent := valueobjects.NewNodeID(mindmapID, 1).String()

	node, err := NewNode("", mindmapID, ownerID, "Child", "c", valueobjects.Position{}, []string{parent}, "", "")
	require.NoError(t, err)

	assert.Equal(t, 0, node.Depth, "depth is stored, never derived from parents")
	assert.Equal(t, []string{parent}, node.Parents)
}

func TestNewNode_ExplicitIDMustBindToMindmap(t *testing.T) {
	ownerID := uuid.New().String()
	mindmapID := valueobjects.NewMindMapID(ownerID, 1000).String()
	otherMap := valueobjects.NewMindMapID(ownerID, 2000).String()
	foreign := valueobjects.NewNodeID(otherMap, 5).String()

	_, err := NewNode(foreign, mindmapID, ownerID, "Idea", "body", valueobjects.Position{}, nil, "", "")
	assert.True(t, pkgerrors.IsValidation(err))

	own := valueobjects.NewNodeID(mindmapID, 5).String()
	node, err := NewNode(own, mindmapID, ownerID, "Idea", "body", valueobjects.Position{}, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, own, node.ID)
}

func TestNode_ReplaceConnections(t *testing.T) {
	ownerID := uuid.New().String()
	mindmapID := valueobjects.NewMindMapID(ownerID, 1000).String()

	node, err := NewNode("", mindmapID, ownerID, "Idea", "body", valueobjects.Position{}, []string{"p1"}, "", "")
	require.NoError(t, err)

	t.Run("replaces parents only", func(t *testing.T) {
		node.ReplaceConnections([]string{"p2", "p3"}, nil)
		assert.Equal(t, []string{"p2", "p3"}, node.Parents)
		assert.Empty(t, node.Children)
	})

	t.Run("replaces children only", func(t *testing.T) {
		node.ReplaceConnections(nil, []string{"c1"})
		assert.Equal(t, []string{"p2", "p3"}, node.Parents, "omitted side untouched")
		assert.Equal(t, []string{"c1"}, node.Children)
	})

	t.Run("empty slice clears", func(t *testing.T) {
		node.ReplaceConnections([]string{}, nil)
		assert.Empty(t, node.Parents)
	})
}
