package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
	svcErr "github.com/oggyb/skillswap/internal/errors"
	"github.com/oggyb/skillswap/internal/repository"
)

// CreateSwapRequestInput carries everything needed to open a request.
// Skill names reference the shared catalog and are resolved, never created.
type CreateSwapRequestInput struct {
	RequesterID      uint64 `json:"requesterId"`
	RequesteeID      uint64 `json:"requesteeId"`
	OfferedSkillName string `json:"offeredSkillName"`
	WantedSkillName  string `json:"wantedSkillName"`
	Message          string `json:"message"`
}

// AddActivityInput carries a new feed entry. IsNew defaults to true.
type AddActivityInput struct {
	UserID            uint64  `json:"userId"`
	Type              string  `json:"type"`
	Message           string  `json:"message"`
	RelatedUserID     *uint64 `json:"relatedUserId"`
	RelatedUserName   string  `json:"relatedUserName"`
	RelatedUserAvatar string  `json:"relatedUserAvatar"`
}

// CreateSwapRequest resolves both skill names and inserts a pending
// request. A skill name with no catalog row fails with ErrSkillNotFound
// and inserts nothing.
//
// This is the bare write; it does not create the paired feed entry for
// the requestee. SubmitSwapRequest does both under one transaction.
func (s *Service) CreateSwapRequest(ctx context.Context, input CreateSwapRequestInput) (*db.SwapRequest, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	offered, wanted, err := s.resolveSkills(ctx, input.OfferedSkillName, input.WantedSkillName)
	if err != nil {
		return nil, err
	}

	req := &db.SwapRequest{
		RequesterID:    input.RequesterID,
		RequesteeID:    input.RequesteeID,
		OfferedSkillID: offered.ID,
		WantedSkillID:  wanted.ID,
		Message:        input.Message,
		Status:         db.RequestPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.invalidatePendingCounts(ctx, input.RequesterID, input.RequesteeID)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("swap request created",
		"request_id", req.ID, "requester", req.RequesterID, "requestee", req.RequesteeID)
	return req, nil
}

// AddActivity appends a feed entry with is_new set.
func (s *Service) AddActivity(ctx context.Context, input AddActivityInput) (*db.Activity, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	activity := &db.Activity{
		UserID:            input.UserID,
		Type:              input.Type,
		Message:           input.Message,
		RelatedUserID:     input.RelatedUserID,
		RelatedUserName:   input.RelatedUserName,
		RelatedUserAvatar: input.RelatedUserAvatar,
		IsNew:             true,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return activity, nil
}

// SubmitSwapRequest is the atomic form of "send a swap request": the
// request row and the requestee's feed entry are written in one
// transaction, so either both land or neither does.
func (s *Service) SubmitSwapRequest(ctx context.Context, input CreateSwapRequestInput) (*db.SwapRequest, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	offered, wanted, err := s.resolveSkills(ctx, input.OfferedSkillName, input.WantedSkillName)
	if err != nil {
		return nil, err
	}

	requester, err := s.users.GetByID(ctx, input.RequesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrUserNotFound
		}
		return nil, err
	}

	req := &db.SwapRequest{
		RequesterID:    input.RequesterID,
		RequesteeID:    input.RequesteeID,
		OfferedSkillID: offered.ID,
		WantedSkillID:  wanted.ID,
		Message:        input.Message,
		Status:         db.RequestPending,
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSwapRequestRepository(tx).Create(ctx, req); err != nil {
			return err
		}
		activity := &db.Activity{
			UserID:            input.RequesteeID,
			Type:              "request_received",
			Message:           fmt.Sprintf("New swap request from %s for %s", requester.Name, offered.Name),
			RelatedUserID:     &requester.ID,
			RelatedUserName:   requester.Name,
			RelatedUserAvatar: requester.ProfilePhoto,
			IsNew:             true,
		}
		return repository.NewActivityRepository(tx).Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePendingCounts(ctx, input.RequesterID, input.RequesteeID)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("swap request submitted",
		"request_id", req.ID, "requester", req.RequesterID, "requestee", req.RequesteeID)
	return req, nil
}

// AcceptSwapRequest moves a pending request to accepted, creates the
// ActiveSwap the exchange will run under, and notifies the requester —
// all in one transaction. Only the requestee may accept.
func (s *Service) AcceptSwapRequest(ctx context.Context, requestID, actorID uint64) (*db.ActiveSwap, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	req, err := s.loadPendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesteeID != actorID {
		return nil, svcErr.ErrNotRequestee
	}

	requestee, err := s.users.GetByID(ctx, req.RequesteeID)
	if err != nil {
		return nil, err
	}
	wanted, err := s.skillByID(ctx, req.WantedSkillID)
	if err != nil {
		return nil, err
	}

	activeSwap := &db.ActiveSwap{
		RequestID:    req.ID,
		User1ID:      req.RequesterID,
		User2ID:      req.RequesteeID,
		User1SkillID: req.OfferedSkillID,
		User2SkillID: req.WantedSkillID,
		Status:       db.SwapPendingSchedule,
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSwapRequestRepository(tx).UpdateStatus(ctx, req.ID, db.RequestAccepted); err != nil {
			return err
		}
		if err := repository.NewActiveSwapRepository(tx).Create(ctx, activeSwap); err != nil {
			return err
		}
		activity := &db.Activity{
			UserID:            req.RequesterID,
			Type:              "request_accepted",
			Message:           fmt.Sprintf("%s accepted your request for %s lessons", requestee.Name, wanted.Name),
			RelatedUserID:     &requestee.ID,
			RelatedUserName:   requestee.Name,
			RelatedUserAvatar: requestee.ProfilePhoto,
			IsNew:             true,
		}
		return repository.NewActivityRepository(tx).Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePendingCounts(ctx, req.RequesterID, req.RequesteeID)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("swap request accepted", "request_id", req.ID, "swap_id", activeSwap.ID)
	return activeSwap, nil
}

// DeclineSwapRequest moves a pending request to rejected and notifies the
// requester. Only the requestee may decline.
func (s *Service) DeclineSwapRequest(ctx context.Context, requestID, actorID uint64) error {
	if err := s.ensureInit(ctx); err != nil {
		return err
	}

	req, err := s.loadPendingRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RequesteeID != actorID {
		return svcErr.ErrNotRequestee
	}

	requestee, err := s.users.GetByID(ctx, req.RequesteeID)
	if err != nil {
		return err
	}
	wanted, err := s.skillByID(ctx, req.WantedSkillID)
	if err != nil {
		return err
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSwapRequestRepository(tx).UpdateStatus(ctx, req.ID, db.RequestRejected); err != nil {
			return err
		}
		activity := &db.Activity{
			UserID:            req.RequesterID,
			Type:              "request_declined",
			Message:           fmt.Sprintf("%s declined your request for %s lessons", requestee.Name, wanted.Name),
			RelatedUserID:     &requestee.ID,
			RelatedUserName:   requestee.Name,
			RelatedUserAvatar: requestee.ProfilePhoto,
			IsNew:             true,
		}
		return repository.NewActivityRepository(tx).Create(ctx, activity)
	})
	if err != nil {
		return err
	}

	s.invalidatePendingCounts(ctx, req.RequesterID, req.RequesteeID)
	return s.persist(ctx)
}

// CancelSwapRequest deletes a pending request. Only the requester may
// cancel, and only while the request is still pending.
func (s *Service) CancelSwapRequest(ctx context.Context, requestID, actorID uint64) error {
	if err := s.ensureInit(ctx); err != nil {
		return err
	}

	req, err := s.loadPendingRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RequesterID != actorID {
		return svcErr.ErrNotRequester
	}

	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return err
	}

	s.invalidatePendingCounts(ctx, req.RequesterID, req.RequesteeID)
	return s.persist(ctx)
}

// ScheduleSession sets the next session time on a swap and, when given,
// the planned total session count. A swap waiting for its first schedule
// moves to scheduled.
func (s *Service) ScheduleSession(ctx context.Context, swapID uint64, at time.Time, totalSessions int) (*db.ActiveSwap, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	sw, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrSwapNotFound
		}
		return nil, err
	}
	if sw.Status == db.SwapCompleted {
		return nil, svcErr.ErrInvalidTransition
	}

	sw.NextSession = &at
	if totalSessions > 0 {
		sw.TotalSessions = totalSessions
	}
	if sw.Status == db.SwapPendingSchedule {
		sw.Status = db.SwapScheduled
	}

	if err := s.swaps.Save(ctx, sw); err != nil {
		return nil, err
	}
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return sw, nil
}

// CompleteSession records one finished session. Completing past the
// planned total fails with ErrSessionOverflow; completing the final
// session moves the swap to completed and clears the next session.
func (s *Service) CompleteSession(ctx context.Context, swapID uint64) (*db.ActiveSwap, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	sw, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrSwapNotFound
		}
		return nil, err
	}
	if sw.Status == db.SwapCompleted || sw.CompletedSessions >= sw.TotalSessions {
		return nil, svcErr.ErrSessionOverflow
	}

	sw.CompletedSessions++
	if sw.CompletedSessions >= sw.TotalSessions {
		sw.Status = db.SwapCompleted
		sw.NextSession = nil
	} else {
		sw.Status = db.SwapInProgress
	}

	if err := s.swaps.Save(ctx, sw); err != nil {
		return nil, err
	}
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return sw, nil
}

// MarkActivitiesRead clears the is_new flag across the user's feed and
// returns how many entries were flipped.
func (s *Service) MarkActivitiesRead(ctx context.Context, userID uint64) (int64, error) {
	if err := s.ensureInit(ctx); err != nil {
		return 0, err
	}
	n, err := s.activities.MarkRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := s.persist(ctx); err != nil {
			return n, err
		}
	}
	return n, nil
}

// AddUserSkill lists a catalog skill on a user's profile in one direction.
func (s *Service) AddUserSkill(ctx context.Context, userID uint64, skillName string, typ db.SkillType, proficiency int) error {
	if err := s.ensureInit(ctx); err != nil {
		return err
	}
	skill, err := s.skills.GetByName(ctx, skillName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", svcErr.ErrSkillNotFound, skillName)
		}
		return err
	}
	if err := s.users.AddSkill(ctx, userID, skill.ID, typ, proficiency); err != nil {
		return err
	}
	return s.persist(ctx)
}

// RemoveUserSkill removes one skill listing from a user's profile.
func (s *Service) RemoveUserSkill(ctx context.Context, userID uint64, skillName string, typ db.SkillType) error {
	if err := s.ensureInit(ctx); err != nil {
		return err
	}
	skill, err := s.skills.GetByName(ctx, skillName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", svcErr.ErrSkillNotFound, skillName)
		}
		return err
	}
	if err := s.users.RemoveSkill(ctx, userID, skill.ID, typ); err != nil {
		return err
	}
	return s.persist(ctx)
}

// DeleteUser removes a user and cascades to their skills, requests, swaps
// and activities.
func (s *Service) DeleteUser(ctx context.Context, userID uint64) error {
	if err := s.ensureInit(ctx); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.ErrUserNotFound
		}
		return err
	}
	s.invalidatePendingCounts(ctx, userID)
	return s.persist(ctx)
}

// Reseed wipes the store and reloads the demo dataset. Used by cmd/seed.
func (s *Service) Reseed(ctx context.Context) error {
	if err := s.ensureInit(ctx); err != nil {
		return err
	}
	if err := db.Reset(s.appCtx.DB); err != nil {
		return err
	}
	if err := db.Seed(s.appCtx.DB); err != nil {
		return err
	}
	return s.persist(ctx)
}

//
// helpers
//

func (s *Service) resolveSkills(ctx context.Context, offeredName, wantedName string) (offered, wanted *db.Skill, err error) {
	offered, err = s.skills.GetByName(ctx, offeredName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", svcErr.ErrSkillNotFound, offeredName)
		}
		return nil, nil, err
	}
	wanted, err = s.skills.GetByName(ctx, wantedName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", svcErr.ErrSkillNotFound, wantedName)
		}
		return nil, nil, err
	}
	return offered, wanted, nil
}

func (s *Service) skillByID(ctx context.Context, id uint64) (*db.Skill, error) {
	var skill db.Skill
	if err := s.appCtx.DB.WithContext(ctx).First(&skill, id).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

func (s *Service) loadPendingRequest(ctx context.Context, requestID uint64) (*db.SwapRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrRequestNotFound
		}
		return nil, err
	}
	if req.Status != db.RequestPending {
		return nil, svcErr.ErrInvalidTransition
	}
	return req, nil
}
