package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterIdLRU(t *testing.T) {
	db := newTestDB(t, Config{RouterIds: 3, Links: 1, Routes: 1})
	addRids(t, db, 10, 11, 12)
	assert.Equal(t, []RouterId{12, 11, 10}, ridOrder(db))

	_, ok := db.LookupRouterId(10)
	require.True(t, ok)
	assert.Equal(t, []RouterId{10, 12, 11}, ridOrder(db))

	// 11 is now the least recently used
	addRids(t, db, 13)
	assert.Equal(t, []RouterId{13, 10, 12}, ridOrder(db))
	assert.False(t, db.IsValid(11))
	assert.Equal(t, 3, db.NumRouterIds())
}

func TestRouterIdDuplicateLeavesOrder(t *testing.T) {
	db := newTestDB(t, DefaultConfig())
	addRids(t, db, 1, 2, 3)
	_, err := db.AddRouterId(1)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, []RouterId{3, 2, 1}, ridOrder(db))
	assert.Equal(t, 3, db.NumRouterIds())
}

func TestIsValidPromotes(t *testing.T) {
	db := newTestDB(t, DefaultConfig())
	addRids(t, db, 1, 2)
	assert.True(t, db.IsValid(1))
	assert.Equal(t, []RouterId{1, 2}, ridOrder(db))
	assert.False(t, db.IsValid(40))
	assert.Equal(t, []RouterId{1, 2}, ridOrder(db))
}

func TestRemoveRouterId(t *testing.T) {
	db := newTestDB(t, DefaultConfig())
	addRids(t, db, 1, 2, 3)
	e, ok := db.LookupRouterId(2)
	require.True(t, ok)
	assert.Equal(t, RouterId(2), e.RouterId)

	require.NoError(t, db.RemoveRouterId(e.Handle))
	assert.Equal(t, []RouterId{3, 1}, ridOrder(db))
	assert.ErrorIs(t, db.RemoveRouterId(e.Handle), ErrStaleHandle)

	assert.True(t, db.RemoveRouterIdById(3))
	assert.False(t, db.RemoveRouterIdById(3))
	assert.Equal(t, []RouterId{1}, ridOrder(db))
}

func TestStaleHandleAfterEviction(t *testing.T) {
	db := newTestDB(t, Config{RouterIds: 1, Links: 1, Routes: 1})
	first, err := db.AddRouterId(1)
	require.NoError(t, err)
	second, err := db.AddRouterId(2)
	require.NoError(t, err)

	// the evicted entry's slot was reused, but its handle must not reach it
	assert.ErrorIs(t, db.RemoveRouterId(first.Handle), ErrStaleHandle)
	assert.True(t, db.IsValid(2))
	require.NoError(t, db.RemoveRouterId(second.Handle))
	assert.Zero(t, db.NumRouterIds())
}

func TestFillWholeRouterIdSpace(t *testing.T) {
	db := newTestDB(t, DefaultConfig())
	for id := RouterId(0); id <= MaxRouterId; id++ {
		addRids(t, db, id)
	}
	for id := RouterId(0); id <= MaxRouterId; id++ {
		assert.True(t, db.IsValid(id), "router id %d", id)
	}
	// IsValid promoted ascending, so 0 is the eviction candidate
	addRids(t, db, 63)
	assert.False(t, db.IsValid(0))
	assert.True(t, db.IsValid(1))
}
