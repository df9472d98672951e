package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/skill"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
)

// PostgresSkillRepository implements SkillRepository using GORM
type PostgresSkillRepository struct {
	db  *gorm.DB
	log *log.Logger
}

func NewPostgresSkillRepository(db *gorm.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{
		db:  db,
		log: logger.Repository("skill"),
	}
}

func (r *PostgresSkillRepository) Create(ctx context.Context, s *skill.Skill) error {
	r.log.Debug("Creating skill", "name", s.Name, "category", s.Category)

	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		r.log.Error("Failed to create skill", "name", s.Name, "error", err)
		return translate(err, "skill")
	}

	r.log.Info("Skill created", "id", s.ID, "slug", s.Slug)
	return nil
}

func (r *PostgresSkillRepository) GetBySlug(ctx context.Context, slug string) (*skill.Skill, error) {
	var s skill.Skill
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&s).Error; err != nil {
		r.log.Debug("Skill not retrieved", "slug", slug, "error", err)
		return nil, translate(err, "skill")
	}
	return &s, nil
}

func (r *PostgresSkillRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]skill.Skill, error) {
	skills := make([]skill.Skill, 0, len(ids))
	if len(ids) == 0 {
		return skills, nil
	}

	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&skills).Error; err != nil {
		r.log.Error("Failed to get skills by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get skills: %w", err)
	}
	return skills, nil
}

func (r *PostgresSkillRepository) List(ctx context.Context, filter SkillFilter, params PaginationParams) (*PaginatedResult[skill.Skill], error) {
	r.log.Debug("Listing skills", "category", filter.Category, "search", filter.Search)

	query := r.db.Model(&skill.Skill{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+strings.ReplaceAll(filter.Search, "%", `\%`)+"%")
	}

	result, err := paginate[skill.Skill](ctx, query, params, "name")
	if err != nil {
		r.log.Error("Failed to list skills", "error", err)
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return result, nil
}

// PostgresUserSkillRepository implements UserSkillRepository using GORM
type PostgresUserSkillRepository struct {
	*ScopedRepository[skill.UserSkill]
}

func NewPostgresUserSkillRepository(db *gorm.DB) *PostgresUserSkillRepository {
	repo := newScopedRepository(db, "user_skill", policy.UserSkillRead, "Skill").
		withAssociations().
		withOrder("created_at DESC")
	return &PostgresUserSkillRepository{ScopedRepository: repo}
}

// MarkVerified flips is_verified only while it is still false. Of two
// concurrent verifiers exactly one sees true.
func (r *PostgresUserSkillRepository) MarkVerified(ctx context.Context, id, verifier uuid.UUID) (bool, error) {
	r.log.Debug("Verifying user skill", "id", id, "verifier", verifier)

	result := r.db.WithContext(ctx).
		Model(&skill.UserSkill{}).
		Where("id = ? AND is_verified = ?", id, false).
		Updates(map[string]any{
			"is_verified":    true,
			"verified_by_id": verifier,
		})
	if result.Error != nil {
		r.log.Error("Failed to verify user skill", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to verify user skill: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.log.Debug("User skill was already verified", "id", id)
		return false, nil
	}

	r.log.Info("User skill verified", "id", id, "verifier", verifier)
	return true, nil
}
