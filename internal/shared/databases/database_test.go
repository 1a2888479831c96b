package databases

import (
	"path/filepath"
	"testing"

	"server-runner/internal/shared/configs"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_None(t *testing.T) {
	t.Parallel()

	db, err := Open(configs.DatabaseConfig{Driver: DriverNone}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.NoError(t, Close(db))
}

func TestOpen_SQLite(t *testing.T) {
	t.Parallel()

	db, err := Open(configs.DatabaseConfig{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "history.db")}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, db)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	assert.NoError(t, Close(db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(configs.DatabaseConfig{Driver: "oracle"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_SQLiteCreatesParentDir(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	db, err := Open(configs.DatabaseConfig{Driver: DriverSQLite, DSN: dsn}, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, Close(db))
}
