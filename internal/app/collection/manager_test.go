package collection

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/model"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
	nextID uint
}

func (s *mockStore) Create(ctx context.Context, item *model.SocialLink) error {
	args := s.Called(ctx, item)
	if args.Error(0) == nil {
		s.nextID++
		item.ID = 100 + s.nextID
	}
	return args.Error(0)
}

func (s *mockStore) Update(ctx context.Context, item *model.SocialLink) error {
	return s.Called(ctx, item).Error(0)
}

func (s *mockStore) Delete(ctx context.Context, id uint) error {
	return s.Called(ctx, id).Error(0)
}

func (s *mockStore) SetActive(ctx context.Context, id uint, active bool) error {
	return s.Called(ctx, id, active).Error(0)
}

func (s *mockStore) SaveOrder(ctx context.Context, ids []uint) error {
	return s.Called(ctx, ids).Error(0)
}

var errOffline = errors.New("connection refused")

func newLinks(titles ...string) []model.SocialLink {
	out := make([]model.SocialLink, len(titles))
	for i, title := range titles {
		out[i] = model.SocialLink{ID: uint(i + 1), Title: title, URL: "https://example.com/" + title, Position: i, IsActive: true, ClickCount: 5}
	}
	return out
}

func newTestManager(t *testing.T, titles ...string) (*Manager[model.SocialLink, *model.SocialLink], *mockStore) {
	store := &mockStore{}
	t.Cleanup(func() { store.AssertExpectations(t) })
	return New[model.SocialLink](store, newLinks(titles...)), store
}

func titles(items []model.SocialLink) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestManager_DragOverSplicesImmediately(t *testing.T) {
	m, _ := newTestManager(t, "A", "B", "C", "D")

	require.NoError(t, m.DragStart(0))
	require.NoError(t, m.DragOver(2))

	// visible before the drop
	items := m.Items()
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(items))
	for i, item := range items {
		assert.Equal(t, i, item.Position)
	}
	assert.True(t, m.OrderDirty())

	m.DragEnd()
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(m.Items()))
	assert.ErrorIs(t, m.DragOver(1), ErrNotDragging)
}

func TestManager_DragFollowsPointer(t *testing.T) {
	m, _ := newTestManager(t, "A", "B", "C", "D")

	require.NoError(t, m.DragStart(3))
	require.NoError(t, m.DragOver(2))
	require.NoError(t, m.DragOver(1))
	require.NoError(t, m.DragOver(0))
	m.DragEnd()

	assert.Equal(t, []string{"D", "A", "B", "C"}, titles(m.Items()))
}

func TestManager_ReorderKeepsIdentifierSet(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		m, _ := newTestManager(t, "A", "B", "C", "D", "E", "F")
		expected := titles(m.Items())

		for step := 0; step < 20; step++ {
			from, to := rng.Intn(6), rng.Intn(6)
			require.NoError(t, m.Reorder(from, to))

			moved := expected[from]
			expected = append(expected[:from], expected[from+1:]...)
			expected = append(expected[:to], append([]string{moved}, expected[to:]...)...)
		}

		items := m.Items()
		assert.Equal(t, expected, titles(items))

		got := titles(items)
		sort.Strings(got)
		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, got)
		for i, item := range items {
			assert.Equal(t, i, item.Position)
		}
	}
}

func TestManager_ReorderRejectsBadIndex(t *testing.T) {
	m, _ := newTestManager(t, "A", "B")
	assert.ErrorIs(t, m.Reorder(0, 2), ErrInvalidIndex)
	assert.ErrorIs(t, m.DragStart(-1), ErrInvalidIndex)
	assert.False(t, m.OrderDirty())
}

func TestManager_AddAndCommitCreates(t *testing.T) {
	m, store := newTestManager(t, "A")
	m.SetClock(func() time.Time { return time.Unix(0, 1700) })
	ctx := context.Background()

	key := m.Add(model.SocialLink{Title: "Nuevo", IsActive: true})
	assert.Equal(t, "tmp-1700", key)
	assert.True(t, IsTempKey(key))
	assert.Equal(t, key, m.Editing())

	second := m.Add(model.SocialLink{Title: "Otro"})
	assert.NotEqual(t, key, second, "temp keys stay unique under a frozen clock")

	store.On("Create", ctx, mock.MatchedBy(func(l *model.SocialLink) bool {
		return l.Title == "Agenda" && l.Position == 1
	})).Return(nil).Once()

	newKey, err := m.CommitEdit(ctx, key, func(l *model.SocialLink) {
		l.Title = "Agenda"
		l.URL = "https://agenda.example.com"
	})
	require.NoError(t, err)
	assert.False(t, IsTempKey(newKey))

	entry, err := m.Get(newKey)
	require.NoError(t, err)
	assert.False(t, entry.Temp)
	assert.NotZero(t, entry.Item.ID)
	assert.Equal(t, "Agenda", entry.Item.Title)

	_, err = m.Get(key)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// appended after every persisted entry, as the store placed it
	assert.False(t, m.OrderDirty())
}

func TestManager_CommitFailureLeavesStateUnchanged(t *testing.T) {
	m, store := newTestManager(t, "A", "B")
	ctx := context.Background()
	require.NoError(t, m.Edit("2"))

	store.On("Update", ctx, mock.Anything).Return(errOffline).Once()

	_, err := m.CommitEdit(ctx, "2", func(l *model.SocialLink) {
		l.Title = "Cambiado"
	})
	var transportErr *apperrors.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "update", transportErr.Op)

	assert.Equal(t, []string{"A", "B"}, titles(m.Items()))
	assert.Equal(t, "2", m.Editing())

	form, ok := m.Form()
	require.True(t, ok)
	assert.Equal(t, "Cambiado", form.Title)

	m.CancelEdit()
	_, ok = m.Form()
	assert.False(t, ok)
	assert.Empty(t, m.Editing())
}

func TestManager_ToggleActive(t *testing.T) {
	ctx := context.Background()

	t.Run("Committed", func(t *testing.T) {
		m, store := newTestManager(t, "A")
		store.On("SetActive", ctx, uint(1), false).Return(nil).Once()

		active, err := m.ToggleActive(ctx, "1")
		require.NoError(t, err)
		assert.False(t, active)

		entry, _ := m.Get("1")
		assert.False(t, entry.Item.IsActive)
		assert.Equal(t, ToggleCommitted, entry.Toggle)
	})

	t.Run("Rolled back", func(t *testing.T) {
		m, store := newTestManager(t, "A")
		store.On("SetActive", ctx, uint(1), false).Return(errOffline).Once()

		active, err := m.ToggleActive(ctx, "1")
		assert.Error(t, err)
		assert.True(t, active)

		entry, _ := m.Get("1")
		assert.True(t, entry.Item.IsActive)
		assert.Equal(t, ToggleFailed, entry.Toggle)
	})

	t.Run("Temporary entries flip locally", func(t *testing.T) {
		m, _ := newTestManager(t)
		key := m.Add(model.SocialLink{Title: "x", IsActive: true})

		active, err := m.ToggleActive(ctx, key)
		require.NoError(t, err)
		assert.False(t, active)
	})
}

func TestManager_Duplicate(t *testing.T) {
	m, _ := newTestManager(t, "A", "B")

	key, err := m.Duplicate("1")
	require.NoError(t, err)
	assert.True(t, IsTempKey(key))

	entry, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "A (copy)", entry.Item.Title)
	assert.Zero(t, entry.Item.ID)
	assert.Zero(t, entry.Item.ClickCount)
	assert.Equal(t, 2, entry.Item.Position)
	assert.Equal(t, 3, m.Len())
	assert.Empty(t, m.Editing())
}

func TestManager_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires confirmation", func(t *testing.T) {
		m, _ := newTestManager(t, "A")
		assert.ErrorIs(t, m.Remove(ctx, "1", false), ErrConfirmationRequired)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("Temporary is local only", func(t *testing.T) {
		m, _ := newTestManager(t, "A")
		key := m.Add(model.SocialLink{Title: "x"})
		require.NoError(t, m.Remove(ctx, key, true))
		assert.Equal(t, 1, m.Len())
		assert.Empty(t, m.Editing())
	})

	t.Run("Persisted after store delete", func(t *testing.T) {
		m, store := newTestManager(t, "A", "B", "C")
		store.On("Delete", ctx, uint(2)).Return(nil).Once()

		// a reorder between lookup and delete must not shift the target
		require.NoError(t, m.Reorder(1, 0))
		require.NoError(t, m.Remove(ctx, "2", true))
		assert.Equal(t, []string{"A", "C"}, titles(m.Items()))
	})

	t.Run("Store failure keeps entry", func(t *testing.T) {
		m, store := newTestManager(t, "A", "B")
		store.On("Delete", ctx, uint(1)).Return(errOffline).Once()

		err := m.Remove(ctx, "1", true)
		var transportErr *apperrors.TransportError
		assert.ErrorAs(t, err, &transportErr)
		assert.Equal(t, []string{"A", "B"}, titles(m.Items()))
	})
}

func TestManager_SaveOrder(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, "A", "B", "C")
	m.Add(model.SocialLink{Title: "tmp"})
	require.NoError(t, m.Reorder(2, 0))

	store.On("SaveOrder", ctx, []uint{3, 1, 2}).Return(errOffline).Once()
	assert.Error(t, m.SaveOrder(ctx))
	assert.True(t, m.OrderDirty())

	store.On("SaveOrder", ctx, []uint{3, 1, 2}).Return(nil).Once()
	require.NoError(t, m.SaveOrder(ctx))
	assert.False(t, m.OrderDirty())
}

func TestManager_RemoveDuringCreateDeletesRow(t *testing.T) {
	m, store := newTestManager(t, "A")
	ctx := context.Background()
	key := m.Add(model.SocialLink{Title: "Nuevo", IsActive: true})

	started := make(chan struct{})
	release := make(chan struct{})
	store.On("Create", ctx, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(nil).Once()
	store.On("Delete", ctx, uint(101)).Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := m.CommitEdit(ctx, key, nil)
		done <- err
	}()

	<-started
	require.NoError(t, m.Remove(ctx, key, true))
	close(release)

	assert.ErrorIs(t, <-done, ErrItemNotFound)
	assert.Equal(t, []string{"A"}, titles(m.Items()))
}

func TestManager_SaveOrderKeepsMovesMadeDuringWrite(t *testing.T) {
	m, store := newTestManager(t, "A", "B", "C")
	ctx := context.Background()
	require.NoError(t, m.Reorder(2, 0))

	store.On("SaveOrder", ctx, []uint{3, 1, 2}).Run(func(mock.Arguments) {
		assert.NoError(t, m.Reorder(0, 2))
	}).Return(nil).Once()

	require.NoError(t, m.SaveOrder(ctx))
	assert.Equal(t, []string{"A", "B", "C"}, titles(m.Items()))
	assert.True(t, m.OrderDirty())

	store.On("SaveOrder", ctx, []uint{1, 2, 3}).Return(nil).Once()
	require.NoError(t, m.SaveOrder(ctx))
	assert.False(t, m.OrderDirty())
}

func TestManager_CommitAheadOfPersistedEntriesMarksOrderDirty(t *testing.T) {
	m, store := newTestManager(t, "A", "B")
	ctx := context.Background()

	key := m.Add(model.SocialLink{Title: "Nuevo", IsActive: true})
	require.NoError(t, m.Reorder(2, 0))
	store.On("SaveOrder", ctx, []uint{1, 2}).Return(nil).Once()
	require.NoError(t, m.SaveOrder(ctx))
	require.False(t, m.OrderDirty())

	store.On("Create", ctx, mock.Anything).Return(nil).Once()
	newKey, err := m.CommitEdit(ctx, key, nil)
	require.NoError(t, err)
	assert.Equal(t, "101", newKey)
	assert.True(t, m.OrderDirty(), "the store appended the row after A and B")

	store.On("SaveOrder", ctx, []uint{101, 1, 2}).Return(nil).Once()
	require.NoError(t, m.SaveOrder(ctx))
	assert.False(t, m.OrderDirty())
}
