package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-funding-api/internal/models"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	st := NewFile(filepath.Join(t.TempDir(), "nope.json"))

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Requests)
}

func TestFileStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	st := NewFile(path)

	snap := models.Snapshot{
		Users: []models.User{{ID: "s1", Name: "Ana", Role: models.RoleStudent}},
		Requests: []models.FundingRequest{
			{ID: "R1", StudentID: "s1", Amount: 42, Urgency: 5, Status: models.StatusSubmitted},
		},
	}
	require.NoError(t, st.Save(ctx, snap))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Users, got.Users)
	assert.Equal(t, snap.Requests, got.Requests)
}

func TestFileStoreSaveCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "deep", "data.json")
	st := NewFile(path)

	require.NoError(t, st.Save(ctx, models.Snapshot{}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreOverwritesWholeBlob(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	st := NewFile(path)

	first := models.Snapshot{Users: []models.User{
		{ID: "s1", Name: "Ana", Role: models.RoleStudent},
		{ID: "s2", Name: "Bo", Role: models.RoleStudent},
	}}
	require.NoError(t, st.Save(ctx, first))

	second := models.Snapshot{Users: []models.User{{ID: "d1", Name: "Cy", Role: models.RoleDonor}}}
	require.NoError(t, st.Save(ctx, second))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Users, 1)
	assert.Equal(t, "d1", got.Users[0].ID)
}

func TestFileStoreCorruptFileLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	st := NewFile(path)
	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Requests)
}
