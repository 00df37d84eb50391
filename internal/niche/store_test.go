package niche

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topic-scout/internal/domain"
)

func writeNicheFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "niche_channels.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_LoadAndFilter(t *testing.T) {
	path := writeNicheFile(t, `{"channels":[
		{"channel_id":"UC1","channel_name":"Fin One","category":"finance"},
		{"channel_id":"@techie","channel_name":"Techie","category":"tech"},
		{"channel_id":"UC3","channel_name":"Fin Two","category":"finance"}]}`)

	store, err := NewStore(path)
	require.NoError(t, err)

	assert.Len(t, store.Channels(""), 3)
	assert.Len(t, store.Channels("finance"), 2)
	assert.Len(t, store.Channels("cooking"), 0)
	assert.Equal(t, []string{"finance", "tech"}, store.Categories())
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	assert.Empty(t, store.Channels(""))
}

func TestStore_MalformedFileRejected(t *testing.T) {
	path := writeNicheFile(t, "{broken")

	_, err := NewStore(path)

	assert.Error(t, err)
}

func TestStore_ReloadKeepsOldListOnError(t *testing.T) {
	path := writeNicheFile(t, `{"channels":[{"channel_id":"UC1","category":"finance"}]}`)
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	err = store.Reload()

	assert.Error(t, err)
	assert.Len(t, store.Channels(""), 1)
}

func TestStore_ReloadSwapsList(t *testing.T) {
	path := writeNicheFile(t, `{"channels":[{"channel_id":"UC1","category":"finance"}]}`)
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"channels":[
		{"channel_id":"UC2","category":"tech"},
		{"channel_id":"UC3","category":"tech"}]}`), 0o644))
	require.NoError(t, store.Reload())

	assert.Len(t, store.Channels("tech"), 2)
	assert.Empty(t, store.Channels("finance"))
}

func TestStore_AddPersistsAndRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "niche.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Add(domain.ChannelRef{ChannelID: "UC1", ChannelName: "Fin", Category: "finance"}))
	err = store.Add(domain.ChannelRef{ChannelID: "UC1", Category: "finance"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	// survives a fresh load from disk
	reopened, err := NewStore(path)
	require.NoError(t, err)
	assert.Len(t, reopened.Channels("finance"), 1)
}

func TestStore_Remove(t *testing.T) {
	path := writeNicheFile(t, `{"channels":[
		{"channel_id":"UC1","category":"finance"},
		{"channel_id":"UC2","category":"tech"}]}`)
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Remove("UC1"))
	assert.Len(t, store.Channels(""), 1)

	err = store.Remove("UC1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
