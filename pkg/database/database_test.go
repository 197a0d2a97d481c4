package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(&Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE probe (id INTEGER)").Error)
	require.NoError(t, db.Exec("INSERT INTO probe (id) VALUES (1)").Error)

	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM probe").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&Config{Driver: "mysql"})
	assert.Error(t, err)
}
