package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, ":8181", cfg.Addr)
		assert.Equal(t, StorageBackendCsv, cfg.Storage.Backend)
		assert.Equal(t, "data.csv", cfg.Storage.DataFile)
		assert.Equal(t, "center_students.csv", cfg.Storage.DirectoryFile)
		assert.Equal(t, "center_admins.csv", cfg.Storage.CredentialsFile)
		assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
		assert.Equal(t, 5432, cfg.Database.Port)
	})

	t.Run("should override defaults from yaml file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "addr: \":9090\"\n" +
			"storage:\n" +
			"  backend: postgres\n" +
			"  datafile: /var/lib/adjustments/data.csv\n" +
			"session:\n" +
			"  ttl: 30m\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, StorageBackendPostgres, cfg.Storage.Backend)
		assert.Equal(t, "/var/lib/adjustments/data.csv", cfg.Storage.DataFile)
		assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
		assert.Equal(t, "adjustments_session", cfg.Session.CookieName)
	})

	t.Run("should override file values from environment", func(t *testing.T) {
		// given
		t.Setenv("ADJUSTMENTS_STORAGE_DIRECTORYFILE", "/tmp/children.csv")
		t.Setenv("ADJUSTMENTS_DB_HOST", "db.internal")

		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, "/tmp/children.csv", cfg.Storage.DirectoryFile)
		assert.Equal(t, "db.internal", cfg.Database.Host)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage: [unterminated"), 0644))

		// when
		_, err := Load(path)

		// then
		assert.Error(t, err)
	})
}
