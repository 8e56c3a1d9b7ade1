package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

func init() {
	Register("20260101000000_create_widgets_table", createWidgets{})
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRunIsIdempotent(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := New(db).WithOutput(&out)

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&widget{}))

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")
}

func TestRollbackLastBatch(t *testing.T) {
	db := openDB(t)
	r := New(db).WithOutput(&bytes.Buffer{})

	require.NoError(t, r.Run())
	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&widget{}))

	var out bytes.Buffer
	require.NoError(t, r.WithOutput(&out).Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := New(db).WithOutput(&out)

	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Pending")

	require.NoError(t, r.Run())
	out.Reset()
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Ran")
}
