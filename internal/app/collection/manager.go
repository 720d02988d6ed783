package collection

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/ikkim/directorio-backend/internal/errors"
)

const (
	TempKeyPrefix = "tmp-"
	CopySuffix    = " (copy)"
)

var (
	ErrItemNotFound         = apperrors.NotFoundError(apperrors.CollectionItemNotFound, "No encontramos el elemento")
	ErrConfirmationRequired = apperrors.BadRequestError(apperrors.CollectionConfirmRequired, "Confirma la eliminación antes de continuar")
	ErrInvalidIndex         = apperrors.BadRequestError(apperrors.CollectionInvalidIndex, "Posición fuera de rango")
	ErrNotDragging          = apperrors.BadRequestError(apperrors.CollectionInvalidIndex, "No hay un elemento en arrastre")
)

// Resource is implemented by the pointer type of every managed resource.
type Resource[T any] interface {
	*T
	ResourceID() uint
	SetResourceID(id uint)
	ResourceTitle() string
	SetResourceTitle(title string)
	Active() bool
	SetActive(active bool)
	SetPosition(position int)
	ResetCounters()
}

// Store persists resources of one company.
type Store[T any] interface {
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint, active bool) error
	SaveOrder(ctx context.Context, ids []uint) error
}

// ToggleStatus tracks the last active-flag write of an entry.
type ToggleStatus string

const (
	TogglePending   ToggleStatus = "pending"
	ToggleCommitted ToggleStatus = "committed"
	ToggleFailed    ToggleStatus = "failed"
)

// Entry is one row of the managed list.
type Entry[T any] struct {
	Key    string       `json:"key"`
	Temp   bool         `json:"temp"`
	Toggle ToggleStatus `json:"toggle_status,omitempty"`
	Item   T            `json:"item"`
}

// Manager is an ordered list of resources with inline editing, optimistic
// toggles and live drag reordering. The lock is never held across store calls,
// so entries are always re-found by key once a call returns.
type Manager[T any, P Resource[T]] struct {
	mu      sync.Mutex
	store   Store[T]
	entries []Entry[T]

	editing string
	form    *T // input of the last failed commit

	dragIndex  int
	orderDirty bool
	orderGen   uint64 // bumped on every local move

	now      func() time.Time
	lastTemp int64
}

// New builds a manager over items, which must already be in display order.
func New[T any, P Resource[T]](store Store[T], items []T) *Manager[T, P] {
	m := &Manager[T, P]{
		store:     store,
		entries:   make([]Entry[T], 0, len(items)),
		dragIndex: -1,
		now:       time.Now,
	}
	for _, item := range items {
		m.entries = append(m.entries, Entry[T]{Key: persistedKey(P(&item).ResourceID()), Item: item})
	}
	return m
}

// SetClock replaces the time source used for temporary keys.
func (m *Manager[T, P]) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func persistedKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsTempKey reports whether key was generated locally and never saved.
func IsTempKey(key string) bool {
	return strings.HasPrefix(key, TempKeyPrefix)
}

func (m *Manager[T, P]) nextTempKey() string {
	n := m.now().UnixNano()
	if n <= m.lastTemp {
		n = m.lastTemp + 1
	}
	m.lastTemp = n
	return fmt.Sprintf("%s%d", TempKeyPrefix, n)
}

func (m *Manager[T, P]) indexOf(key string) int {
	for i := range m.entries {
		if m.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Items returns a copy of the list with positions renumbered by index.
func (m *Manager[T, P]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]T, len(m.entries))
	for i := range m.entries {
		out[i] = m.entries[i].Item
		P(&out[i]).SetPosition(i)
	}
	return out
}

// Entries returns a snapshot of the list including keys and toggle status.
func (m *Manager[T, P]) Entries() []Entry[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry[T], len(m.entries))
	copy(out, m.entries)
	for i := range out {
		P(&out[i].Item).SetPosition(i)
	}
	return out
}

func (m *Manager[T, P]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Get returns the entry stored under key.
func (m *Manager[T, P]) Get(key string) (Entry[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(key)
	if i < 0 {
		return Entry[T]{}, ErrItemNotFound
	}
	entry := m.entries[i]
	P(&entry.Item).SetPosition(i)
	return entry, nil
}

// Add appends seed under a temporary key and enters edit mode for it.
func (m *Manager[T, P]) Add(seed T) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	P(&seed).SetResourceID(0)
	P(&seed).SetPosition(len(m.entries))
	key := m.nextTempKey()
	m.entries = append(m.entries, Entry[T]{Key: key, Temp: true, Item: seed})
	m.editing = key
	m.form = nil
	return key
}

func (m *Manager[T, P]) Edit(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(key) < 0 {
		return ErrItemNotFound
	}
	if m.editing != key {
		m.form = nil
	}
	m.editing = key
	return nil
}

// CancelEdit leaves edit mode. Unsaved temporary entries stay in the list.
func (m *Manager[T, P]) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editing = ""
	m.form = nil
}

// Editing returns the key in edit mode, or "".
func (m *Manager[T, P]) Editing() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing
}

// Form returns the input of the last failed commit, so it can be shown again.
func (m *Manager[T, P]) Form() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.form == nil {
		var zero T
		return zero, false
	}
	return *m.form, true
}

// CommitEdit applies update to a copy of the entry and persists it: a create
// for temporary keys, an update otherwise. On failure the list is untouched,
// edit mode is kept and the attempted values are available through Form.
// It returns the key the entry lives under afterwards.
func (m *Manager[T, P]) CommitEdit(ctx context.Context, key string, update func(item P)) (string, error) {
	m.mu.Lock()
	i := m.indexOf(key)
	if i < 0 {
		m.mu.Unlock()
		return "", ErrItemNotFound
	}
	entry := m.entries[i]
	candidate := entry.Item
	if update != nil {
		update(P(&candidate))
	}
	P(&candidate).SetPosition(i)
	m.mu.Unlock()

	var err error
	if entry.Temp {
		err = m.store.Create(ctx, &candidate)
	} else {
		err = m.store.Update(ctx, &candidate)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		form := candidate
		m.form = &form
		m.editing = key
		op := "update"
		if entry.Temp {
			op = "create"
		}
		return key, apperrors.NewTransportError(op, err)
	}

	newKey := key
	if entry.Temp {
		newKey = persistedKey(P(&candidate).ResourceID())
	}

	i = m.indexOf(key)
	if i < 0 {
		if !entry.Temp {
			return newKey, nil
		}
		// removed locally while the create was in flight; drop the new row too
		id := P(&candidate).ResourceID()
		m.mu.Unlock()
		err := m.store.Delete(ctx, id)
		m.mu.Lock()
		if err != nil {
			return "", apperrors.NewTransportError("delete", err)
		}
		return "", ErrItemNotFound
	}
	m.entries[i] = Entry[T]{Key: newKey, Item: candidate}
	if entry.Temp && m.persistedAfter(i) {
		// the store appended it after rows that follow it here
		m.markMoved()
	}
	if m.editing == key {
		m.editing = ""
	}
	m.form = nil
	return newKey, nil
}

func (m *Manager[T, P]) persistedAfter(i int) bool {
	for j := i + 1; j < len(m.entries); j++ {
		if !m.entries[j].Temp {
			return true
		}
	}
	return false
}

// ToggleActive flips the active flag optimistically. Persisted entries are
// marked pending until the store answers; a failed write restores the previous
// value and marks the entry failed.
func (m *Manager[T, P]) ToggleActive(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	i := m.indexOf(key)
	if i < 0 {
		m.mu.Unlock()
		return false, ErrItemNotFound
	}
	item := P(&m.entries[i].Item)
	next := !item.Active()
	item.SetActive(next)
	if m.entries[i].Temp {
		m.mu.Unlock()
		return next, nil
	}
	m.entries[i].Toggle = TogglePending
	id := item.ResourceID()
	m.mu.Unlock()

	err := m.store.SetActive(ctx, id, next)

	m.mu.Lock()
	defer m.mu.Unlock()

	i = m.indexOf(key)
	if i < 0 {
		if err != nil {
			return !next, apperrors.NewTransportError("toggle", err)
		}
		return next, nil
	}
	if err != nil {
		// a later toggle may already have flipped it again
		if P(&m.entries[i].Item).Active() == next {
			P(&m.entries[i].Item).SetActive(!next)
		}
		m.entries[i].Toggle = ToggleFailed
		return P(&m.entries[i].Item).Active(), apperrors.NewTransportError("toggle", err)
	}
	m.entries[i].Toggle = ToggleCommitted
	return P(&m.entries[i].Item).Active(), nil
}

// Duplicate appends an unsaved copy of key with reset counters.
func (m *Manager[T, P]) Duplicate(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(key)
	if i < 0 {
		return "", ErrItemNotFound
	}
	clone := m.entries[i].Item
	p := P(&clone)
	p.SetResourceID(0)
	p.ResetCounters()
	p.SetResourceTitle(p.ResourceTitle() + CopySuffix)
	p.SetPosition(len(m.entries))

	newKey := m.nextTempKey()
	m.entries = append(m.entries, Entry[T]{Key: newKey, Temp: true, Item: clone})
	return newKey, nil
}

// Remove deletes key. Nothing happens without confirmation. Temporary entries
// are dropped locally; persisted ones only after the store delete succeeds.
func (m *Manager[T, P]) Remove(ctx context.Context, key string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	m.mu.Lock()
	i := m.indexOf(key)
	if i < 0 {
		m.mu.Unlock()
		return ErrItemNotFound
	}
	if m.entries[i].Temp {
		m.removeAt(i)
		m.mu.Unlock()
		return nil
	}
	id := P(&m.entries[i].Item).ResourceID()
	m.mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return apperrors.NewTransportError("delete", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i = m.indexOf(key); i >= 0 {
		m.removeAt(i)
	}
	return nil
}

func (m *Manager[T, P]) removeAt(i int) {
	key := m.entries[i].Key
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	if m.editing == key {
		m.editing = ""
		m.form = nil
	}
	if m.dragIndex == i {
		m.dragIndex = -1
	} else if m.dragIndex > i {
		m.dragIndex--
	}
}

// DragStart captures the index being dragged.
func (m *Manager[T, P]) DragStart(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.entries) {
		return ErrInvalidIndex
	}
	m.dragIndex = index
	return nil
}

// DragOver moves the dragged entry to index right away, so the list reflects
// the drag before it is dropped.
func (m *Manager[T, P]) DragOver(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dragIndex < 0 {
		return ErrNotDragging
	}
	if index < 0 || index >= len(m.entries) {
		return ErrInvalidIndex
	}
	if index == m.dragIndex {
		return nil
	}
	m.move(m.dragIndex, index)
	m.dragIndex = index
	return nil
}

func (m *Manager[T, P]) DragEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dragIndex = -1
}

// Reorder is a complete drag from one index to another.
func (m *Manager[T, P]) Reorder(from, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if from < 0 || from >= len(m.entries) || to < 0 || to >= len(m.entries) {
		return ErrInvalidIndex
	}
	if from != to {
		m.move(from, to)
	}
	return nil
}

func (m *Manager[T, P]) move(from, to int) {
	entry := m.entries[from]
	m.entries = append(m.entries[:from], m.entries[from+1:]...)
	m.entries = append(m.entries[:to], append([]Entry[T]{entry}, m.entries[to:]...)...)
	m.markMoved()
}

func (m *Manager[T, P]) markMoved() {
	m.orderDirty = true
	m.orderGen++
}

// OrderDirty reports whether the list order changed since the last save.
func (m *Manager[T, P]) OrderDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderDirty
}

// SaveOrder writes the positions of every persisted entry in one batch.
// Temporary entries are skipped; they get a position when first committed.
// Moves made while the write is in flight keep the order dirty.
func (m *Manager[T, P]) SaveOrder(ctx context.Context) error {
	m.mu.Lock()
	gen := m.orderGen
	ids := make([]uint, 0, len(m.entries))
	for i := range m.entries {
		if !m.entries[i].Temp {
			ids = append(ids, P(&m.entries[i].Item).ResourceID())
		}
	}
	m.mu.Unlock()

	if err := m.store.SaveOrder(ctx, ids); err != nil {
		return apperrors.NewTransportError("save order", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orderGen == gen {
		m.orderDirty = false
	}
	return nil
}
