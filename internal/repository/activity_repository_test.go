package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
	"github.com/oggyb/skillswap/internal/repository"
)

func createActivities(t *testing.T, gdb *gorm.DB, userID uint64, n int) {
	t.Helper()
	repo := repository.NewActivityRepository(gdb)
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Create(context.Background(), &db.Activity{
			UserID:  userID,
			Type:    "swap_completed",
			Message: fmt.Sprintf("entry %d", i),
			IsNew:   true,
		}))
	}
}

func TestActivityListRecent_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewActivityRepository(gdb)

	createActivities(t, gdb, 7, 6)
	createActivities(t, gdb, 8, 2) // another user's feed

	activities, err := repo.ListRecent(ctx, 7, 4)
	require.NoError(t, err)
	require.Len(t, activities, 4)
	assert.Equal(t, "entry 5", activities[0].Message)
	assert.Equal(t, "entry 2", activities[3].Message)
	for _, a := range activities {
		assert.EqualValues(t, 7, a.UserID)
	}
}

func TestActivityListPage_WalksWholeFeed(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewActivityRepository(gdb)

	createActivities(t, gdb, 7, 23)

	var (
		token *string
		seen  []uint64
		pages int
	)
	for {
		page, next, err := repo.ListPage(ctx, 7, token, 10)
		require.NoError(t, err)
		pages++
		for _, a := range page {
			seen = append(seen, a.ID)
		}
		if next == nil {
			assert.Len(t, page, 3, "last page holds the remainder")
			break
		}
		assert.Len(t, page, 10)
		token = next
	}

	assert.Equal(t, 3, pages)
	require.Len(t, seen, 23)
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i], seen[i-1], "ids strictly descend across the whole walk")
	}
}

func TestActivityListPage_BadToken(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewActivityRepository(gdb)

	bad := "not-a-cursor"
	_, _, err := repo.ListPage(ctx, 7, &bad, 10)
	require.Error(t, err)
}

func TestActivityMarkRead(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewActivityRepository(gdb)

	createActivities(t, gdb, 7, 3)
	createActivities(t, gdb, 8, 2)

	n, err := repo.MarkRead(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// only user 7's entries flipped
	var unread int64
	require.NoError(t, gdb.Model(&db.Activity{}).Where("user_id = 8 AND is_new = ?", true).Count(&unread).Error)
	assert.EqualValues(t, 2, unread)

	n, err = repo.MarkRead(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, n)
}
