// Package swap implements the persistence service backing the skill-swap
// marketplace: it owns the relational schema lifecycle, executes all
// query and command operations, and keeps the durable snapshot in step
// with the in-memory store after every mutation.
package swap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/app"
	"github.com/oggyb/skillswap/internal/db"
	svcErr "github.com/oggyb/skillswap/internal/errors"
	"github.com/oggyb/skillswap/internal/repository"
	"github.com/oggyb/skillswap/internal/snapshot"
)

// Service is the single owner of the relational store. Construct it with
// NewService, call Initialize (or just call any operation — every public
// operation lazily initializes), and Close when done.
//
// Single-writer model: one Service instance per store, operations execute
// one at a time from the caller's perspective. The mutex only guards the
// initialization handshake.
type Service struct {
	appCtx *app.AppContext

	users      *repository.UserRepository
	skills     *repository.SkillRepository
	requests   *repository.SwapRequestRepository
	swaps      *repository.ActiveSwapRepository
	activities *repository.ActivityRepository

	mu          sync.Mutex
	initialized bool
}

// NewService creates the persistence service with dependencies from
// AppContext. The snapshot store may be nil, in which case durability is
// delegated entirely to the database engine (e.g. a MySQL deployment).
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		users:      repository.NewUserRepository(appCtx.DB),
		skills:     repository.NewSkillRepository(appCtx.DB),
		requests:   repository.NewSwapRequestRepository(appCtx.DB),
		swaps:      repository.NewActiveSwapRepository(appCtx.DB),
		activities: repository.NewActivityRepository(appCtx.DB),
	}
}

// Initialize prepares the store for use. Idempotent: after the first
// successful call it is a no-op for the rest of the process lifetime.
//
// On first call it tries to restore the persisted snapshot from the fixed
// storage key. A present, valid snapshot is replayed as-is (no reseeding);
// an absent or unreadable snapshot triggers fresh seeding of the demo
// dataset, which is then persisted.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	restored, err := s.restoreSnapshot(ctx)
	if err != nil {
		return err
	}

	if !restored {
		if err := db.Seed(s.appCtx.DB); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		if err := s.persist(ctx); err != nil {
			return err
		}
		s.appCtx.Logger.Info("store seeded with demo dataset")
	}

	s.initialized = true
	return nil
}

// restoreSnapshot loads and replays a persisted snapshot if one exists.
// Snapshots that fail to decode or replay are treated as absent: the store
// is reset and reseeding proceeds.
func (s *Service) restoreSnapshot(ctx context.Context) (bool, error) {
	// An already-populated engine (file-backed SQLite, MySQL) is the source
	// of truth; replaying a snapshot over it would conflict on every id.
	var userCount int64
	if err := s.appCtx.DB.WithContext(ctx).Model(&db.User{}).Count(&userCount).Error; err != nil {
		return false, fmt.Errorf("failed to inspect store: %w", err)
	}
	if userCount > 0 {
		return true, nil
	}

	if s.appCtx.Snapshots == nil {
		return false, nil
	}

	b, ok, err := s.appCtx.Snapshots.Get(snapshot.Key)
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !ok {
		return false, nil
	}

	data, err := snapshot.Decode(b)
	if err != nil {
		s.appCtx.Logger.Warn("stored snapshot is unreadable, reseeding", "err", err)
		return false, nil
	}

	if err := snapshot.Import(s.appCtx.DB, data); err != nil {
		s.appCtx.Logger.Warn("snapshot replay failed, reseeding", "err", err)
		if resetErr := db.Reset(s.appCtx.DB); resetErr != nil {
			return false, fmt.Errorf("failed to reset store after bad snapshot: %w", resetErr)
		}
		return false, nil
	}

	s.appCtx.Logger.Info("store restored from snapshot",
		"revision", data.Revision, "saved_at", data.SavedAt)
	return true, nil
}

// Close releases the underlying database handle.
func (s *Service) Close() error {
	sqlDB, err := s.appCtx.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensureInit backs the lazy-init contract: every public operation is safe
// to call without an explicit prior Initialize.
func (s *Service) ensureInit(ctx context.Context) error {
	return s.Initialize(ctx)
}

// persist serializes the whole store and overwrites the durable snapshot.
// Called after every successful mutation; a failure here means the
// in-memory store is ahead of the snapshot and the caller must be told.
func (s *Service) persist(ctx context.Context) error {
	if s.appCtx.Snapshots == nil {
		return nil
	}
	data, err := snapshot.Export(s.appCtx.DB)
	if err != nil {
		return err
	}
	b, err := snapshot.Encode(data)
	if err != nil {
		return err
	}
	if err := s.appCtx.Snapshots.Put(snapshot.Key, b); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

//
// Query operations
//

// ListUsers returns every user except the viewer, annotated with skill
// name lists, ordered by rating descending then online-first.
func (s *Service) ListUsers(ctx context.Context, viewerID uint64) ([]repository.UserProfile, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	return s.users.List(ctx, viewerID)
}

// GetCurrentUser returns the viewer's own record, or nil if absent.
func (s *Service) GetCurrentUser(ctx context.Context, userID uint64) (*db.User, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}

// SearchUsers returns users matching the query and filters, excluding the
// viewer, in the same shape and ordering as ListUsers.
func (s *Service) SearchUsers(ctx context.Context, viewerID uint64, query string, filters repository.SearchFilters) ([]repository.UserProfile, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	return s.users.Search(ctx, viewerID, query, filters)
}

// ListSkills returns the whole catalog.
func (s *Service) ListSkills(ctx context.Context) ([]db.Skill, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	return s.skills.List(ctx)
}

// ListRequests returns every swap request the user is party to, with
// display names joined in, newest first.
func (s *Service) ListRequests(ctx context.Context, userID uint64) ([]repository.RequestDetail, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	return s.requests.ListForUser(ctx, userID)
}

// GetUserActivities returns the user's most recent feed entries, newest
// first, capped at limit (10 when limit <= 0).
func (s *Service) GetUserActivities(ctx context.Context, userID uint64, limit int) ([]db.Activity, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.activities.ListRecent(ctx, userID, limit)
}

// GetUserActivitiesPage returns one cursor-paginated page of the feed.
func (s *Service) GetUserActivitiesPage(ctx context.Context, userID uint64, paginationToken *string, limit int) ([]db.Activity, *string, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.activities.ListPage(ctx, userID, paginationToken, limit)
}

// PendingRequests splits a user's pending requests by direction.
type PendingRequests = repository.PendingCounts

// ProfileStats are the aggregate numbers on the dashboard, computed from
// the user's swap history rather than stored anywhere.
type ProfileStats struct {
	TotalSwaps    int     `json:"totalSwaps"`
	SkillsTaught  int     `json:"skillsTaught"`
	SkillsLearned int     `json:"skillsLearned"`
	AverageRating float64 `json:"averageRating"`
	MemberSince   string  `json:"memberSince"`
	LastActive    string  `json:"lastActive"`
}

// DashboardStats is everything the dashboard needs in one call.
type DashboardStats struct {
	PendingRequests PendingRequests         `json:"pendingRequests"`
	ActiveSwaps     []repository.SwapDetail `json:"activeSwaps"`
	Stats           ProfileStats            `json:"stats"`
}

// GetDashboardStats computes the user's pending-request counts (split
// sent/received), their active swaps joined with partner identity, and
// aggregate profile statistics derived from completed-swap history.
//
// Pending counts are cache-first when a Redis cache is wired: read the
// counter key, fall back to the store on a miss, repopulate with a 1h TTL.
func (s *Service) GetDashboardStats(ctx context.Context, userID uint64) (*DashboardStats, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	pending, err := s.pendingCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.swaps.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrUserNotFound
		}
		return nil, err
	}

	total, taught, learned, err := s.swaps.CompletedStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		PendingRequests: pending,
		ActiveSwaps:     active,
		Stats: ProfileStats{
			TotalSwaps:    total,
			SkillsTaught:  taught,
			SkillsLearned: learned,
			AverageRating: user.Rating,
			MemberSince:   user.CreatedAt.Format("January 2006"),
			LastActive:    relativeTime(user.LastActive),
		},
	}, nil
}

func (s *Service) pendingCounts(ctx context.Context, userID uint64) (PendingRequests, error) {
	if c := s.appCtx.RedisCache; c != nil {
		sent, received, ok, err := c.GetPendingCounts(ctx, userID)
		if err != nil {
			s.appCtx.Logger.Warn("pending-count cache read failed", "err", err)
		} else if ok {
			return PendingRequests{Sent: sent, Received: received}, nil
		}
	}

	counts, err := s.requests.CountPending(ctx, userID)
	if err != nil {
		return PendingRequests{}, err
	}

	if c := s.appCtx.RedisCache; c != nil {
		if err := c.SetPendingCounts(ctx, userID, counts.Sent, counts.Received); err != nil {
			s.appCtx.Logger.Warn("pending-count cache write failed", "err", err)
		}
	}
	return counts, nil
}

// invalidatePendingCounts drops cached counters for both parties of a
// request whose pending state changed. Cache errors are logged, not
// surfaced: the store already holds the truth.
func (s *Service) invalidatePendingCounts(ctx context.Context, userIDs ...uint64) {
	c := s.appCtx.RedisCache
	if c == nil {
		return
	}
	for _, id := range userIDs {
		if err := c.InvalidatePendingCounts(ctx, id); err != nil {
			s.appCtx.Logger.Warn("pending-count cache invalidation failed", "user_id", id, "err", err)
		}
	}
}

// relativeTime renders a last-active timestamp the way the dashboard
// displays it.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
