// Package testkit sets up what shopfront's package tests share: a migrated
// in-memory database and helpers for calling handlers and reading the JSON
// envelope back.
package testkit

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/shopfront/database/migrations" // registers the schema
	"github.com/shashiranjanraj/shopfront/pkg/database"
	"github.com/shashiranjanraj/shopfront/pkg/migration"
)

// NewDB opens a private in-memory SQLite database, runs every migration and
// closes it when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")

	require.NoError(t, migration.New(db).WithOutput(io.Discard).Run(), "testkit: migrate")

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
