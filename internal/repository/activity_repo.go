package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
	"github.com/oggyb/skillswap/internal/utils/pagination"
)

// ActivityRepository provides data access methods for the append-only
// activity feed.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new repository bound to the given DB
// connection or transaction.
func NewActivityRepository(database *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: database}
}

// Create appends a feed entry.
func (r *ActivityRepository) Create(ctx context.Context, activity *db.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListRecent returns the user's most recent activities, newest first,
// capped at limit.
func (r *ActivityRepository) ListRecent(ctx context.Context, userID uint64, limit int) ([]db.Activity, error) {
	var activities []db.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// ListPage returns one page of the user's feed, newest first, with an
// opaque cursor for the next page.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC (id breaks same-instant ties).
//   - Fetches limit+1 rows; the extra row's presence means another page
//     exists and yields the next cursor.
func (r *ActivityRepository) ListPage(ctx context.Context, userID uint64, paginationToken *string, limit int) ([]db.Activity, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.ID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var activities []db.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(activities) > limit {
		last := activities[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		activities = activities[:limit]
	}

	return activities, nextToken, nil
}

// MarkRead clears the is_new flag on all of the user's unread activities
// and returns how many were flipped.
func (r *ActivityRepository) MarkRead(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Activity{}).
		Where("user_id = ? AND is_new = ?", userID, true).
		Update("is_new", false)
	return res.RowsAffected, res.Error
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
