package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
)

// setupTestDB opens an in-memory store with the full schema migrated.
// Timestamps are truncated to millisecond precision so cursor round trips
// compare cleanly.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// seedTestDB additionally loads the demo dataset.
func seedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb := setupTestDB(t)
	require.NoError(t, db.Seed(gdb))
	return gdb
}

func mustCreateUser(t *testing.T, gdb *gorm.DB, user db.User) db.User {
	t.Helper()
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

func mustCreateSkill(t *testing.T, gdb *gorm.DB, name string) db.Skill {
	t.Helper()
	skill := db.Skill{Name: name}
	require.NoError(t, gdb.Create(&skill).Error)
	return skill
}
