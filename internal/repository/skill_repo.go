package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
)

// SkillRepository provides data access methods for the shared skill catalog.
type SkillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new repository bound to the given DB connection.
func NewSkillRepository(database *gorm.DB) *SkillRepository {
	return &SkillRepository{db: database}
}

// GetByName resolves a catalog skill by its unique name.
func (r *SkillRepository) GetByName(ctx context.Context, name string) (*db.Skill, error) {
	var skill db.Skill
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// List returns the whole catalog ordered by name.
func (r *SkillRepository) List(ctx context.Context) ([]db.Skill, error) {
	var skills []db.Skill
	if err := r.db.WithContext(ctx).Order("name").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// Create adds a skill to the catalog; duplicate names violate the unique index.
func (r *SkillRepository) Create(ctx context.Context, skill *db.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}
