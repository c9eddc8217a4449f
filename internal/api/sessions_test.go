package api

import (
	"testing"
	"time"

	"product-catalog-admin/internal/listing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSessions(ms *MockCatalogStore, idle time.Duration) *Sessions {
	return NewSessions(func() *listing.Controller { return listing.New(ms) }, idle, zerolog.Nop())
}

func TestSessions_CreateStartsLoad(t *testing.T) {
	ms := new(MockCatalogStore)
	expectLoad(ms, testCatalog(4))
	s := newTestSessions(ms, time.Minute)

	id, ctrl := s.Create()
	require.NotEmpty(t, id)
	require.Eventually(t, func() bool { return !ctrl.View().Loading }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, ctrl.View().TotalCount)

	got, ok := s.Get(id)
	assert.True(t, ok)
	assert.Same(t, ctrl, got)

	_, ok = s.Get("unknown")
	assert.False(t, ok)
}

func TestSessions_SweepEvictsIdle(t *testing.T) {
	ms := new(MockCatalogStore)
	ms.On("ListProducts", mock.Anything).Return(testCatalog(1), nil).Maybe()
	ms.On("ListCategories", mock.Anything).Return(testCategories, nil).Maybe()
	s := newTestSessions(ms, time.Minute)
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	now := base
	s.now = func() time.Time { return now }

	stale, staleCtrl := s.Create()
	now = base.Add(50 * time.Second)
	fresh, _ := s.Create()
	assert.Equal(t, 2, s.Len())

	now = base.Add(90 * time.Second)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(stale)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.True(t, ok)

	updates, _ := staleCtrl.Subscribe()
	_, open := <-updates
	assert.False(t, open, "evicted controllers are closed")
}

func TestSessions_GetKeepsSessionAlive(t *testing.T) {
	ms := new(MockCatalogStore)
	ms.On("ListProducts", mock.Anything).Return(testCatalog(1), nil).Maybe()
	ms.On("ListCategories", mock.Anything).Return(testCategories, nil).Maybe()
	s := newTestSessions(ms, time.Minute)
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	now := base
	s.now = func() time.Time { return now }

	id, _ := s.Create()
	now = base.Add(45 * time.Second)
	_, ok := s.Get(id)
	require.True(t, ok)

	now = base.Add(90 * time.Second)
	assert.Zero(t, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestSessions_CapEvictsLeastRecentlyUsed(t *testing.T) {
	ms := new(MockCatalogStore)
	ms.On("ListProducts", mock.Anything).Return(testCatalog(1), nil).Maybe()
	ms.On("ListCategories", mock.Anything).Return(testCategories, nil).Maybe()
	s := NewSessions(func() *listing.Controller { return listing.New(ms) }, time.Hour, zerolog.Nop(), WithMaxSessions(2))
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	now := base
	s.now = func() time.Time { return now }

	first, _ := s.Create()
	now = base.Add(time.Second)
	second, _ := s.Create()
	now = base.Add(2 * time.Second)
	_, ok := s.Get(first)
	require.True(t, ok)

	now = base.Add(3 * time.Second)
	third, _ := s.Create()
	assert.Equal(t, 2, s.Len())

	_, ok = s.Get(second)
	assert.False(t, ok, "the least recently used session is evicted")
	_, ok = s.Get(first)
	assert.True(t, ok)
	_, ok = s.Get(third)
	assert.True(t, ok)
}
