package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideavine-backend/domain/core/entities"
	"ideavine-backend/domain/core/valueobjects"
)

func makeNode(t *testing.T, mindmapID, userID string, depth int) *entities.Node {
	t.Helper()
	node, err := entities.NewNode("", mindmapID, userID, "n", "c", valueobjects.Position{}, nil, "", "")
	require.NoError(t, err)
	node.Depth = depth
	return node
}

func TestCompute(t *testing.T) {
	userID := uuid.New().String()
	mindmapID := valueobjects.NewMindMapID(userID, 1000).String()

	t.Run("empty set", func(t *testing.T) {
		assert.Equal(t, Stats{}, Compute(nil))
		assert.Equal(t, Stats{}, Compute([]*entities.Node{}))
	})

	t.Run("three roots", func(t *testing.T) {
		nodes := []*entities.Node{
			makeNode(t, mindmapID, userID, 0),
			makeNode(t, mindmapID, userID, 0),
			makeNode(t, mindmapID, userID, 0),
		}
		assert.Equal(t, Stats{TotalNodes: 3, MaxDepth: 0}, Compute(nodes))
	})

	t.Run("max over stored depth", func(t *testing.T) {
		nodes := []*entities.Node{
			makeNode(t, mindmapID, userID, 0),
			makeNode(t, mindmapID, userID, 2),
			makeNode(t, mindmapID, userID, 1),
		}
		assert.Equal(t, Stats{TotalNodes: 3, MaxDepth: 2}, Compute(nodes))
	})
}
