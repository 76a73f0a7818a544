package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
)

// SwapRequestRepository provides data access methods for the SwapRequest
// model. Construct it over a transaction handle to join a larger write.
type SwapRequestRepository struct {
	db *gorm.DB
}

// NewSwapRequestRepository creates a new repository bound to the given DB
// connection or transaction.
func NewSwapRequestRepository(database *gorm.DB) *SwapRequestRepository {
	return &SwapRequestRepository{db: database}
}

// RequestDetail is a swap request joined with the display names the
// request-management views need.
type RequestDetail struct {
	db.SwapRequest
	RequesterName    string `json:"requesterName"`
	RequesteeName    string `json:"requesteeName"`
	OfferedSkillName string `json:"offeredSkillName"`
	WantedSkillName  string `json:"wantedSkillName"`
}

// PendingCounts splits a user's pending requests by direction.
type PendingCounts struct {
	Sent     int `json:"sent"`
	Received int `json:"received"`
}

// Create inserts a new swap request.
func (r *SwapRequestRepository) Create(ctx context.Context, req *db.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID returns a single swap request row.
func (r *SwapRequestRepository) GetByID(ctx context.Context, id uint64) (*db.SwapRequest, error) {
	var req db.SwapRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStatus moves a request to a new lifecycle state.
func (r *SwapRequestRepository) UpdateStatus(ctx context.Context, id uint64, status db.RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&db.SwapRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes a request row. Only cancellation of a pending request
// uses this; accepted/rejected requests stay as history.
func (r *SwapRequestRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.SwapRequest{}, id).Error
}

// CountPending returns how many pending requests the user has sent and
// received, in one query.
func (r *SwapRequestRepository) CountPending(ctx context.Context, userID uint64) (PendingCounts, error) {
	var counts PendingCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(CASE WHEN requester_id = ? THEN 1 END) AS sent,
			COUNT(CASE WHEN requestee_id = ? THEN 1 END) AS received
		FROM swap_requests
		WHERE status = 'pending' AND (requester_id = ? OR requestee_id = ?)`,
		userID, userID, userID, userID,
	).Scan(&counts).Error
	return counts, err
}

// ListForUser returns every request the user is party to, joined with
// counterpart and skill names, newest first.
func (r *SwapRequestRepository) ListForUser(ctx context.Context, userID uint64) ([]RequestDetail, error) {
	var details []RequestDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT sr.*,
		       ru.name AS requester_name,
		       eu.name AS requestee_name,
		       os.name AS offered_skill_name,
		       ws.name AS wanted_skill_name
		FROM swap_requests sr
		JOIN users ru ON ru.id = sr.requester_id
		JOIN users eu ON eu.id = sr.requestee_id
		JOIN skills os ON os.id = sr.offered_skill_id
		JOIN skills ws ON ws.id = sr.wanted_skill_id
		WHERE sr.requester_id = ? OR sr.requestee_id = ?
		ORDER BY sr.created_at DESC, sr.id DESC`,
		userID, userID,
	).Scan(&details).Error
	return details, err
}

// ActiveSwapRepository provides data access methods for the ActiveSwap model.
type ActiveSwapRepository struct {
	db *gorm.DB
}

// NewActiveSwapRepository creates a new repository bound to the given DB
// connection or transaction.
func NewActiveSwapRepository(database *gorm.DB) *ActiveSwapRepository {
	return &ActiveSwapRepository{db: database}
}

// SwapDetail is an active swap viewed from one participant's side: the
// partner's identity plus which skill each side contributes.
type SwapDetail struct {
	ID                uint64        `json:"id"`
	PartnerID         uint64        `json:"partnerId"`
	PartnerName       string        `json:"partnerName"`
	PartnerAvatar     string        `json:"partnerAvatar"`
	PartnerRating     float64       `json:"partnerRating"`
	YourSkill         string        `json:"yourSkill"`
	TheirSkill        string        `json:"theirSkill"`
	Status            db.SwapStatus `json:"status"`
	NextSession       *time.Time    `json:"nextSession"`
	TotalSessions     int           `json:"totalSessions"`
	CompletedSessions int           `json:"completedSessions"`
}

// Create inserts a new active swap.
func (r *ActiveSwapRepository) Create(ctx context.Context, swap *db.ActiveSwap) error {
	return r.db.WithContext(ctx).Create(swap).Error
}

// GetByID returns a single active swap row.
func (r *ActiveSwapRepository) GetByID(ctx context.Context, id uint64) (*db.ActiveSwap, error) {
	var swap db.ActiveSwap
	if err := r.db.WithContext(ctx).First(&swap, id).Error; err != nil {
		return nil, err
	}
	return &swap, nil
}

// Save writes back a mutated active swap row.
func (r *ActiveSwapRepository) Save(ctx context.Context, swap *db.ActiveSwap) error {
	return r.db.WithContext(ctx).Save(swap).Error
}

// ListForUser returns the user's swaps joined with partner identity and
// skill names, soonest next session first. The CASE expressions flip the
// row into the viewer's perspective regardless of which side they sit on.
func (r *ActiveSwapRepository) ListForUser(ctx context.Context, userID uint64) ([]SwapDetail, error) {
	var details []SwapDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			CASE WHEN s.user1_id = ? THEN s.user2_id ELSE s.user1_id END AS partner_id,
			u.name AS partner_name,
			u.profile_photo AS partner_avatar,
			u.rating AS partner_rating,
			sk1.name AS your_skill,
			sk2.name AS their_skill,
			s.status,
			s.next_session,
			s.total_sessions,
			s.completed_sessions
		FROM active_swaps s
		JOIN users u ON (CASE WHEN s.user1_id = ? THEN s.user2_id ELSE s.user1_id END = u.id)
		JOIN skills sk1 ON (CASE WHEN s.user1_id = ? THEN s.user1_skill_id ELSE s.user2_skill_id END = sk1.id)
		JOIN skills sk2 ON (CASE WHEN s.user1_id = ? THEN s.user2_skill_id ELSE s.user1_skill_id END = sk2.id)
		WHERE s.user1_id = ? OR s.user2_id = ?
		ORDER BY s.next_session ASC`,
		userID, userID, userID, userID, userID, userID,
	).Scan(&details).Error
	return details, err
}

// CompletedStats aggregates a user's completed-swap history: total count,
// distinct skills they taught, distinct skills they learned.
func (r *ActiveSwapRepository) CompletedStats(ctx context.Context, userID uint64) (total, taught, learned int, err error) {
	var row struct {
		Total   int
		Taught  int
		Learned int
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(DISTINCT CASE WHEN user1_id = ? THEN user1_skill_id ELSE user2_skill_id END) AS taught,
			COUNT(DISTINCT CASE WHEN user1_id = ? THEN user2_skill_id ELSE user1_skill_id END) AS learned
		FROM active_swaps
		WHERE status = 'completed' AND (user1_id = ? OR user2_id = ?)`,
		userID, userID, userID, userID,
	).Scan(&row).Error
	return row.Total, row.Taught, row.Learned, err
}
