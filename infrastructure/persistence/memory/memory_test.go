package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/core/entities"
	"ideavine-backend/domain/core/valueobjects"
	pkgerrors "ideavine-backend/pkg/errors"
)

func TestUserRepository_EmailConflictOnlyWhileActive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	first, err := entities.NewUser("alice@example.com", "Alice")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	dup, err := entities.NewUser("alice@example.com", "Alice Again")
	require.NoError(t, err)
	assert.True(t, pkgerrors.IsConflict(repo.Create(ctx, dup)))

	// Deactivating the holder frees the email for a fresh account.
	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	require.NoError(t, repo.Create(ctx, dup))

	_, err = repo.GetByID(ctx, first.ID)
	assert.True(t, pkgerrors.IsNotFound(err), "soft-deleted user invisible to GetByID")

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, dup.ID, got.ID)
}

func TestUserRepository_GetByEmailAnySeesInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user, err := entities.NewUser("bob@example.com", "Bob")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.SoftDelete(ctx, user.ID))

	got, err := repo.GetByEmailAny(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.False(t, got.IsActive)
}

func TestMindMapRepository_SoftDeleteHidesRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewMindMapRepository()

	ownerID := "b7e7f9a0-0000-4000-8000-000000000001"
	mindmap, err := entities.NewMindMap(valueobjects.NewMindMapID(ownerID, 1000).String(), ownerID, "Plan", "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, mindmap))

	assert.True(t, pkgerrors.IsConflict(repo.Create(ctx, mindmap)))

	require.NoError(t, repo.SoftDelete(ctx, mindmap.ID))

	_, err = repo.GetByID(ctx, mindmap.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	maps, err := repo.ListByUser(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, maps)

	raw, ok := repo.GetAny(mindmap.ID)
	require.True(t, ok, "tombstone stays behind")
	assert.True(t, raw.IsDeleted)
}

func TestNodeRepository_DeleteByMindMap(t *testing.T) {
	ctx := context.Background()
	repo := NewNodeRepository()

	ownerID := "b7e7f9a0-0000-4000-8000-000000000002"
	mapA := valueobjects.NewMindMapID(ownerID, 1).String()
	mapB := valueobjects.NewMindMapID(ownerID, 2).String()

	for i, mindmapID := range []string{mapA, mapA, mapA, mapB} {
		node, err := entities.NewNode(valueobjects.NewNodeID(mindmapID, int64(i)).String(), mindmapID, ownerID, "n", "c", valueobjects.Position{}, nil, "", "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, node))
	}

	deleted, err := repo.DeleteByMindMap(ctx, mapA)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	remaining, err := repo.ListByMindMap(ctx, mapA)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	count, err := repo.CountByUser(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNodeRepository_UpdateFieldsPartial(t *testing.T) {
	ctx := context.Background()
	repo := NewNodeRepository()

	ownerID := "b7e7f9a0-0000-4000-8000-000000000003"
	mindmapID := valueobjects.NewMindMapID(ownerID, 1).String()
	node, err := entities.NewNode("", mindmapID, ownerID, "Idea", "body", valueobjects.NewPosition(1, 2), []string{"p1"}, "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, node))

	title := "Renamed"
	require.NoError(t, repo.UpdateFields(ctx, node.ID, ports.NodeFieldUpdate{Title: &title}))

	got, err := repo.GetByID(ctx, node.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "body", got.Content, "omitted fields untouched")
	assert.Equal(t, []string{"p1"}, got.Parents)
}
