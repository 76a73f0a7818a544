package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
)

// UserRepository provides data access methods for the User model and its
// skill associations.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// UserProfile is a user row annotated with its aggregated offered/wanted
// skill name lists, the shape the directory and search results use.
type UserProfile struct {
	db.User
	SkillsOffered []string `json:"skillsOffered"`
	SkillsWanted  []string `json:"skillsWanted"`
}

// SearchFilters narrow a user search. Zero values mean "not provided";
// provided filters combine with logical AND.
type SearchFilters struct {
	Location     string
	Availability string
	MinRating    float64
}

// GetByID returns a single user row.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user. A duplicate email violates the unique index and
// leaves the prior record unchanged.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// List returns every user except excludeID, each annotated with skill name
// lists, ordered by rating descending then online status descending
// (online first within equal rating).
func (r *UserRepository) List(ctx context.Context, excludeID uint64) ([]UserProfile, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("rating DESC, is_online DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return r.attachSkills(ctx, users)
}

// Search returns users matching the query and filters, same shape and
// ordering as List.
//
// Behavior:
//   - query: case-insensitive substring match against name, location, or
//     any associated skill name (empty query matches everyone).
//   - filters.Location: case-insensitive substring match.
//   - filters.Availability: exact match.
//   - filters.MinRating: rating >= threshold, only when > 0.
//
// Relaxing any filter can only grow the result set.
func (r *UserRepository) Search(ctx context.Context, excludeID uint64, query string, filters SearchFilters) ([]UserProfile, error) {
	q := r.db.WithContext(ctx).Model(&db.User{}).Where("id <> ?", excludeID)

	if term := strings.TrimSpace(query); term != "" {
		like := "%" + term + "%"
		q = q.Where(`name LIKE ? OR location LIKE ? OR EXISTS (
			SELECT 1 FROM user_skills us
			JOIN skills s ON s.id = us.skill_id
			WHERE us.user_id = users.id AND s.name LIKE ?)`, like, like, like)
	}
	if filters.Location != "" {
		q = q.Where("location LIKE ?", "%"+filters.Location+"%")
	}
	if filters.Availability != "" {
		q = q.Where("availability = ?", filters.Availability)
	}
	if filters.MinRating > 0 {
		q = q.Where("rating >= ?", filters.MinRating)
	}

	var users []db.User
	if err := q.Order("rating DESC, is_online DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return r.attachSkills(ctx, users)
}

// AddSkill associates a skill with a user in one direction. The unique
// (user, skill, type) index rejects duplicates.
func (r *UserRepository) AddSkill(ctx context.Context, userID, skillID uint64, typ db.SkillType, proficiency int) error {
	if proficiency <= 0 {
		proficiency = 1
	}
	us := db.UserSkill{
		UserID:           userID,
		SkillID:          skillID,
		Type:             typ,
		ProficiencyLevel: proficiency,
	}
	return r.db.WithContext(ctx).Create(&us).Error
}

// RemoveSkill deletes one (user, skill, direction) association.
func (r *UserRepository) RemoveSkill(ctx context.Context, userID, skillID uint64, typ db.SkillType) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND skill_id = ? AND type = ?", userID, skillID, typ).
		Delete(&db.UserSkill{}).Error
}

// Delete removes a user and everything hanging off them: skill
// associations, swap requests on either side, active swaps they
// participate in, and their activity feed. One transaction, so a failure
// partway leaves the store untouched.
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&db.Activity{}).Error; err != nil {
			return fmt.Errorf("failed to delete activities: %w", err)
		}
		if err := tx.Where("user1_id = ? OR user2_id = ?", id, id).Delete(&db.ActiveSwap{}).Error; err != nil {
			return fmt.Errorf("failed to delete active swaps: %w", err)
		}
		if err := tx.Where("requester_id = ? OR requestee_id = ?", id, id).Delete(&db.SwapRequest{}).Error; err != nil {
			return fmt.Errorf("failed to delete swap requests: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&db.UserSkill{}).Error; err != nil {
			return fmt.Errorf("failed to delete user skills: %w", err)
		}
		if err := tx.Delete(&db.User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// attachSkills loads skill names for the given users in one query and
// groups them by direction, preserving association insertion order.
func (r *UserRepository) attachSkills(ctx context.Context, users []db.User) ([]UserProfile, error) {
	profiles := make([]UserProfile, len(users))
	if len(users) == 0 {
		return profiles, nil
	}

	ids := make([]uint64, len(users))
	for i, u := range users {
		ids[i] = u.ID
		profiles[i] = UserProfile{User: u, SkillsOffered: []string{}, SkillsWanted: []string{}}
	}

	type skillRow struct {
		UserID uint64
		Type   db.SkillType
		Name   string
	}
	var rows []skillRow
	err := r.db.WithContext(ctx).
		Table("user_skills us").
		Select("us.user_id, us.type, s.name").
		Joins("JOIN skills s ON s.id = us.skill_id").
		Where("us.user_id IN ?", ids).
		Order("us.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	index := make(map[uint64]*UserProfile, len(profiles))
	for i := range profiles {
		index[profiles[i].ID] = &profiles[i]
	}
	for _, row := range rows {
		p, ok := index[row.UserID]
		if !ok {
			continue
		}
		switch row.Type {
		case db.SkillOffered:
			p.SkillsOffered = append(p.SkillsOffered, row.Name)
		case db.SkillWanted:
			p.SkillsWanted = append(p.SkillsWanted, row.Name)
		}
	}

	return profiles, nil
}
