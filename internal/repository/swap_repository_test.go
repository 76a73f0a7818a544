package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
	"github.com/oggyb/skillswap/internal/repository"
)

func createRequest(t *testing.T, gdb *gorm.DB, requester, requestee uint64, status db.RequestStatus) db.SwapRequest {
	t.Helper()
	req := db.SwapRequest{
		RequesterID: requester, RequesteeID: requestee,
		OfferedSkillID: 1, WantedSkillID: 2,
		Status: status,
	}
	require.NoError(t, gdb.Create(&req).Error)
	return req
}

func TestSwapRequestCountPending_SplitsByDirection(t *testing.T) {
	ctx := context.Background()
	gdb := seedTestDB(t)
	repo := repository.NewSwapRequestRepository(gdb)

	createRequest(t, gdb, 1, 2, db.RequestPending)
	createRequest(t, gdb, 1, 3, db.RequestPending)
	createRequest(t, gdb, 4, 1, db.RequestPending)
	// non-pending rows never count
	createRequest(t, gdb, 5, 1, db.RequestAccepted)
	createRequest(t, gdb, 1, 5, db.RequestRejected)
	// a request between other users never counts for user 1
	createRequest(t, gdb, 2, 3, db.RequestPending)

	counts, err := repo.CountPending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Sent)
	assert.Equal(t, 1, counts.Received)
}

func TestSwapRequestListForUser_JoinsNamesNewestFirst(t *testing.T) {
	ctx := context.Background()
	gdb := seedTestDB(t)
	repo := repository.NewSwapRequestRepository(gdb)

	first := createRequest(t, gdb, 1, 2, db.RequestPending)
	second := createRequest(t, gdb, 3, 1, db.RequestPending)
	createRequest(t, gdb, 4, 5, db.RequestPending) // not user 1's

	details, err := repo.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, details, 2)

	// newest first: id breaks the same-instant tie
	assert.Equal(t, second.ID, details[0].ID)
	assert.Equal(t, first.ID, details[1].ID)

	assert.Equal(t, "Marcus Johnson", details[0].RequesterName)
	assert.Equal(t, "Alex Johnson", details[0].RequesteeName)
	assert.Equal(t, "React", details[0].OfferedSkillName)
	assert.Equal(t, "JavaScript", details[0].WantedSkillName)
}

func TestSwapRequestUpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	gdb := seedTestDB(t)
	repo := repository.NewSwapRequestRepository(gdb)

	req := createRequest(t, gdb, 1, 2, db.RequestPending)

	require.NoError(t, repo.UpdateStatus(ctx, req.ID, db.RequestAccepted))
	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, db.RequestAccepted, got.Status)

	require.NoError(t, repo.Delete(ctx, req.ID))
	_, err = repo.GetByID(ctx, req.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActiveSwapListForUser_ViewerPerspective(t *testing.T) {
	ctx := context.Background()
	gdb := seedTestDB(t)
	repo := repository.NewActiveSwapRepository(gdb)

	req := createRequest(t, gdb, 1, 2, db.RequestAccepted)
	soon := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Millisecond)
	later := soon.Add(72 * time.Hour)

	swapA := db.ActiveSwap{
		RequestID: req.ID,
		User1ID:   1, User2ID: 2,
		User1SkillID: 1, User2SkillID: 4, // React for UI/UX Design
		Status:      db.SwapScheduled,
		NextSession: &later,
	}
	require.NoError(t, gdb.Create(&swapA).Error)

	req2 := createRequest(t, gdb, 4, 1, db.RequestAccepted)
	swapB := db.ActiveSwap{
		RequestID: req2.ID,
		User1ID:   4, User2ID: 1,
		User1SkillID: 13, User2SkillID: 3, // Spanish for Python
		Status:      db.SwapScheduled,
		NextSession: &soon,
	}
	require.NoError(t, gdb.Create(&swapB).Error)

	details, err := repo.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, details, 2)

	// soonest next_session comes first
	assert.Equal(t, swapB.ID, details[0].ID)

	// user 1 sits on side two of swapB, so the columns flip
	assert.EqualValues(t, 4, details[0].PartnerID)
	assert.Equal(t, "Elena Rodriguez", details[0].PartnerName)
	assert.Equal(t, "Python", details[0].YourSkill)
	assert.Equal(t, "Spanish", details[0].TheirSkill)

	// and on side one of swapA
	assert.Equal(t, "Sarah Chen", details[1].PartnerName)
	assert.Equal(t, "React", details[1].YourSkill)
	assert.Equal(t, "UI/UX Design", details[1].TheirSkill)
}

func TestActiveSwapCompletedStats(t *testing.T) {
	ctx := context.Background()
	gdb := seedTestDB(t)
	repo := repository.NewActiveSwapRepository(gdb)

	req := createRequest(t, gdb, 1, 2, db.RequestCompleted)
	require.NoError(t, gdb.Create(&db.ActiveSwap{
		RequestID: req.ID,
		User1ID:   1, User2ID: 2,
		User1SkillID: 1, User2SkillID: 4,
		Status: db.SwapCompleted,
	}).Error)

	req2 := createRequest(t, gdb, 3, 1, db.RequestCompleted)
	require.NoError(t, gdb.Create(&db.ActiveSwap{
		RequestID: req2.ID,
		User1ID:   3, User2ID: 1,
		User1SkillID: 3, User2SkillID: 1, // user 1 taught React again
		Status: db.SwapCompleted,
	}).Error)

	// an in-progress swap never counts
	req3 := createRequest(t, gdb, 1, 5, db.RequestAccepted)
	require.NoError(t, gdb.Create(&db.ActiveSwap{
		RequestID: req3.ID,
		User1ID:   1, User2ID: 5,
		User1SkillID: 2, User2SkillID: 20,
		Status: db.SwapInProgress,
	}).Error)

	total, taught, learned, err := repo.CompletedStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, taught, "React taught twice counts once")
	assert.Equal(t, 2, learned)
}
