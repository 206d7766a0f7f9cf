package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSBlobStorePutAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSBlobStore(dir, "http://localhost:8080/media/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "abc.png", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50}, data)

	require.NoError(t, store.Remove(context.Background(), "abc.png"))
	_, err = os.Stat(filepath.Join(dir, "abc.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestFSBlobStoreRemoveMissingIsNoError(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)
	assert.NoError(t, store.Remove(context.Background(), "never-stored.jpg"))
}

func TestFSBlobStoreRejectsTraversalKeys(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", []byte("x"))
	assert.Error(t, err)

	_, err = store.Put(context.Background(), "", []byte("x"))
	assert.Error(t, err)
}
