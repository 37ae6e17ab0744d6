package adjustment

import (
	"testing"

	"github.com/kidsbilling/adjustments/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres store tests need a container runtime")
	}
	container, openDB := test_utils.TestWithDB()
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
	db := openDB()
	t.Cleanup(db.Close)
	return NewPostgresStore(db)
}

func TestPostgresStore(t *testing.T) {
	store := setupPostgresStore(t)

	t.Run("should load empty table", func(t *testing.T) {
		records, err := store.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("should keep record order", func(t *testing.T) {
		records := []Record{mapleRecord, acornRecord, {UID: "3", CenterName: "Acorn", Note: "third"}}

		// when
		require.NoError(t, store.Save(ctx, records))
		loaded, err := store.Load(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, records, loaded)
	})

	t.Run("should replace the whole table on save", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, []Record{acornRecord, mapleRecord}))

		// when
		require.NoError(t, store.Save(ctx, []Record{mapleRecord}))
		loaded, err := store.Load(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, []Record{mapleRecord}, loaded)
	})

	t.Run("should clear table when saving nothing", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, []Record{acornRecord}))

		require.NoError(t, store.Save(ctx, nil))
		loaded, err := store.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}
