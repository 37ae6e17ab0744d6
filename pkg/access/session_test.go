package access

import (
	"testing"
	"time"

	"github.com/kidsbilling/adjustments/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)}
	store := NewSessionStore(time.Hour, clock)
	acc := NewContext("acorn", "Acorn")

	// given
	id, expiresAt := store.Create(acc)
	other, _ := store.Create(acc)

	// then
	assert.NotEmpty(t, id)
	assert.NotEqual(t, id, other)
	assert.Equal(t, clock.FixedNow.Add(time.Hour), expiresAt)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	t.Run("unknown session", func(t *testing.T) {
		_, err := store.Get("missing")
		assert.ErrorIs(t, err, ErrNoAccess)
	})

	t.Run("deleted session", func(t *testing.T) {
		store.Delete(other)
		_, err := store.Get(other)
		assert.ErrorIs(t, err, ErrNoAccess)
	})

	t.Run("expired session", func(t *testing.T) {
		clock.Advance(59 * time.Minute)
		_, err := store.Get(id)
		require.NoError(t, err)

		clock.Advance(time.Minute)
		_, err = store.Get(id)
		assert.ErrorIs(t, err, ErrNoAccess)
	})
}

func TestSessionStore_CreateSweepsExpired(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)}
	store := NewSessionStore(time.Hour, clock)
	acc := NewContext("acorn", "Acorn")

	// given
	store.Create(acc)
	store.Create(acc)
	clock.Advance(30 * time.Minute)
	live, _ := store.Create(acc)

	// when
	clock.Advance(45 * time.Minute)
	fresh, _ := store.Create(acc)

	// then
	assert.Len(t, store.sessions, 2)
	assert.Contains(t, store.sessions, live)
	assert.Contains(t, store.sessions, fresh)
}
