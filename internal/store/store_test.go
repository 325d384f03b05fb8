package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/contacts"
	"github.com/tartampluch/go-addressbook/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDirectory(t *testing.T) *contacts.Directory {
	t.Helper()
	dir := contacts.NewDirectory()

	john, err := contacts.NewRecord("John")
	require.NoError(t, err)
	require.NoError(t, john.AddPhone("1234567890"))
	require.NoError(t, john.AddPhone("5555555555"))
	require.NoError(t, john.AddPhone("1234567890"))
	require.NoError(t, john.AddBirthday("14.07.1990"))
	dir.AddRecord(john)

	jane, err := contacts.NewRecord("Jane")
	require.NoError(t, err)
	dir.AddRecord(jane)

	leap, err := contacts.NewRecord("Leap Baby")
	require.NoError(t, err)
	require.NoError(t, leap.AddBirthday("29.02.2000"))
	dir.AddRecord(leap)

	return dir
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	want := sampleDirectory(t)

	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Len(), got.Len())

	for i, r := range got.Records() {
		w := want.Records()[i]
		assert.Equal(t, w.Name(), r.Name(), "order must be preserved")
		assert.Equal(t, w.Phones(), r.Phones())
		assert.Equal(t, w.String(), r.String())
	}
}

func TestStore_SaveReplacesPreviousContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleDirectory(t)))

	smaller := contacts.NewDirectory()
	only, err := contacts.NewRecord("Only")
	require.NoError(t, err)
	require.NoError(t, only.AddPhone("1112223333"))
	smaller.AddRecord(only)
	require.NoError(t, s.Save(ctx, smaller))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	r, ok := got.Find("Only")
	require.True(t, ok)
	assert.Equal(t, []string{"1112223333"}, r.Phones())
	_, ok = got.Find("John")
	assert.False(t, ok)
}

func TestStore_LoadEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := store.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleDirectory(t)))
	require.NoError(t, s.Close())

	s2, err := store.New(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	got, err := s2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}
