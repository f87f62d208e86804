package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := OpenSqlite(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (x INTEGER)`)
	assert.NoError(t, err)
}

func TestOpenPostgresBadURL(t *testing.T) {
	_, err := Open("postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
