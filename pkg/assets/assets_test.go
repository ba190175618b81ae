package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUploadAndDelete(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	url, err := store.Upload(ctx, []byte("png-bytes"), "organizations", "org_1_logo")
	require.NoError(t, err)
	assert.Equal(t, "memory://organizations/org_1_logo", url)

	removed, err := store.Delete(ctx, "org_1_logo")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, "org_1_logo")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemoryUploadOverwrites(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Upload(ctx, []byte("v1"), "organizations", "org_2_stamp")
	require.NoError(t, err)
	url, err := store.Upload(ctx, []byte("v2"), "organizations", "org_2_stamp")
	require.NoError(t, err)

	assert.Equal(t, "memory://organizations/org_2_stamp", url)
	assert.Equal(t, []byte("v2"), store.files["organizations/org_2_stamp"])
}
