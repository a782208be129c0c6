package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryStore_GetMissingSlot(t *testing.T) {
	s := NewMemoryStore()

	doc, ok, err := s.Get(context.Background(), SlotUsers)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	records := []record{{ID: "1", Name: "first"}, {ID: "2", Name: "second"}}
	require.NoError(t, Save(ctx, s, SlotUsers, records))

	loaded, ok, err := Load[record](ctx, s, SlotUsers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, records, loaded)
}

func TestLoad_MissingSlotYieldsEmptySlice(t *testing.T) {
	s := NewMemoryStore()

	loaded, ok, err := Load[record](context.Background(), s, SlotIssues)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestSave_NilSliceStoredAsEmptyDocument(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, Save[record](ctx, s, SlotIssues, nil))

	doc, ok, err := s.Get(ctx, SlotIssues)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, "[]", string(doc))
}

func TestSaveOneLoadOne_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, SaveOne(ctx, s, SlotSession, record{ID: "7", Name: "session"}))

	loaded, ok, err := LoadOne[record](ctx, s, SlotSession)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "7", loaded.ID)
}

func TestDelete_RemovesSlot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, Save(ctx, s, SlotIssues, []record{{ID: "1"}}))
	require.NoError(t, s.Delete(ctx, SlotIssues))

	_, ok, err := s.Get(ctx, SlotIssues)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, SlotUsers, []byte(`[{"id":"1"}]`)))

	doc, ok, err := s.Get(ctx, SlotUsers)
	require.NoError(t, err)
	require.True(t, ok)
	doc[0] = 'X'

	fresh, _, err := s.Get(ctx, SlotUsers)
	require.NoError(t, err)
	assert.Equal(t, byte('['), fresh[0])
}
