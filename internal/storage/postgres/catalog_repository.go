package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
)

// PostgresCategoryRepository implements CategoryRepository using GORM
type PostgresCategoryRepository struct {
	db  *gorm.DB
	log *log.Logger
}

func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{
		db:  db,
		log: logger.Repository("category"),
	}
}

func (r *PostgresCategoryRepository) CreateCategory(ctx context.Context, c *catalog.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		r.log.Error("Failed to create category", "title", c.Title, "error", err)
		return translate(err, "category")
	}
	r.log.Info("Category created", "id", c.ID, "title", c.Title)
	return nil
}

func (r *PostgresCategoryRepository) ListCategories(ctx context.Context, params PaginationParams) (*PaginatedResult[catalog.Category], error) {
	return paginate[catalog.Category](ctx, r.db.Model(&catalog.Category{}), params, "title")
}

func (r *PostgresCategoryRepository) GetCategories(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	categories := make([]catalog.Category, 0, len(ids))
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *PostgresCategoryRepository) CreateTag(ctx context.Context, t *catalog.SkillTag) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		r.log.Error("Failed to create tag", "name", t.Name, "error", err)
		return translate(err, "tag")
	}
	r.log.Info("Tag created", "id", t.ID, "name", t.Name)
	return nil
}

func (r *PostgresCategoryRepository) ListTags(ctx context.Context, params PaginationParams) (*PaginatedResult[catalog.SkillTag], error) {
	return paginate[catalog.SkillTag](ctx, r.db.Model(&catalog.SkillTag{}), params, "name")
}

func (r *PostgresCategoryRepository) GetTags(ctx context.Context, ids []uuid.UUID) ([]catalog.SkillTag, error) {
	tags := make([]catalog.SkillTag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	return tags, nil
}

type PostgresHostRepository struct {
	*ScopedRepository[catalog.Host]
}

func NewPostgresHostRepository(db *gorm.DB) *PostgresHostRepository {
	repo := newScopedRepository(db, "host", policy.HostRead, "Administrators").
		withOrder("name")
	return &PostgresHostRepository{ScopedRepository: repo}
}

type PostgresEventRepository struct {
	*ScopedRepository[catalog.Event]
}

func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	repo := newScopedRepository(db, "event", policy.EventRead, "Categories").
		withOrder("start_time DESC")
	return &PostgresEventRepository{ScopedRepository: repo}
}

type PostgresCompetitionRepository struct {
	*ScopedRepository[catalog.Competition]
}

func NewPostgresCompetitionRepository(db *gorm.DB) *PostgresCompetitionRepository {
	repo := newScopedRepository(db, "competition", policy.CompetitionRead, "Tags", "Categories").
		withOrder("start_date DESC")
	return &PostgresCompetitionRepository{ScopedRepository: repo}
}

type PostgresProgramRepository struct {
	*ScopedRepository[catalog.Program]
}

func NewPostgresProgramRepository(db *gorm.DB) *PostgresProgramRepository {
	repo := newScopedRepository(db, "program", policy.ProgramRead).
		withOrder("title")
	return &PostgresProgramRepository{ScopedRepository: repo}
}

// PostgresSubmissionRepository implements SubmissionRepository using GORM.
// Submissions are visible to their author only.
type PostgresSubmissionRepository struct {
	*ScopedRepository[catalog.ChallengeSubmission]
}

func NewPostgresSubmissionRepository(db *gorm.DB) *PostgresSubmissionRepository {
	repo := newScopedRepository(db, "challenge_submission", policy.SubmissionRead).
		withOrder("submitted_at DESC")
	return &PostgresSubmissionRepository{ScopedRepository: repo}
}

func (r *PostgresSubmissionRepository) ListByCompetition(ctx context.Context, viewer, competitionID uuid.UUID, params PaginationParams) (*PaginatedResult[catalog.ChallengeSubmission], error) {
	return r.ListWith(ctx, r.read, viewer, params, func(db *gorm.DB) *gorm.DB {
		return db.Where("competition_id = ?", competitionID)
	})
}
