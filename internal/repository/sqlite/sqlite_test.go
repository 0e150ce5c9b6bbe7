package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tavares/listabot/internal/config"
	"github.com/tavares/listabot/pkg/logger"
)

// openTestDB creates a fresh migrated database in a temp directory.
func openTestDB(t *testing.T) *config.Database {
	t.Helper()

	db, err := config.NewDatabase(filepath.Join(t.TempDir(), "test.db"), logger.New("error"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

// The connection pragmas are passed in the DSN; make sure the driver actually
// applies them.
func TestDatabaseAppliesPragmas(t *testing.T) {
	db := openTestDB(t)

	var journalMode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys)
}
