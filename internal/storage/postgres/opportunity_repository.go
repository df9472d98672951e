package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/policy"
)

// PostgresOpportunityRepository implements OpportunityRepository using GORM
type PostgresOpportunityRepository struct {
	*ScopedRepository[opportunity.Opportunity]
}

func NewPostgresOpportunityRepository(db *gorm.DB) *PostgresOpportunityRepository {
	repo := newScopedRepository(db, "opportunity", policy.OpportunityRead, "RequiredSkills").
		withOrder("posted_date DESC")
	return &PostgresOpportunityRepository{ScopedRepository: repo}
}

// List shows active opportunities only
func (r *PostgresOpportunityRepository) List(ctx context.Context, viewer uuid.UUID, params PaginationParams) (*PaginatedResult[opportunity.Opportunity], error) {
	return r.Search(ctx, viewer, OpportunityFilter{}, params)
}

// Search lists active opportunities matching filter. With Mine set it lists
// the viewer's own postings, inactive ones included.
func (r *PostgresOpportunityRepository) Search(ctx context.Context, viewer uuid.UUID, filter OpportunityFilter, params PaginationParams) (*PaginatedResult[opportunity.Opportunity], error) {
	rule := policy.OpportunityList
	if filter.Mine {
		rule = policy.OpportunityPoster
	}

	return r.ListWith(ctx, rule, viewer, params, func(db *gorm.DB) *gorm.DB {
		if len(filter.Skills) > 0 {
			db = db.Where(`EXISTS (SELECT 1 FROM opportunity_skills os JOIN skills s ON s.id = os.skill_id `+
				`WHERE os.opportunity_id = opportunities.id AND s.slug = ANY(?))`, pq.Array(filter.Skills))
		}
		if filter.Type != "" {
			db = db.Where("opportunity_type = ?", filter.Type)
		}
		if filter.Remote != nil {
			db = db.Where("is_remote = ?", *filter.Remote)
		}
		return db
	})
}

// PostgresApplicationRepository implements ApplicationRepository using GORM.
// The opportunity is always loaded so the poster can be checked in memory.
type PostgresApplicationRepository struct {
	*ScopedRepository[opportunity.Application]
}

func NewPostgresApplicationRepository(db *gorm.DB) *PostgresApplicationRepository {
	repo := newScopedRepository(db, "application", policy.ApplicationRead, "Opportunity").
		withAssociations().
		withOrder("applied_date DESC")
	return &PostgresApplicationRepository{ScopedRepository: repo}
}

func (r *PostgresApplicationRepository) Search(ctx context.Context, viewer uuid.UUID, filter ApplicationFilter, params PaginationParams) (*PaginatedResult[opportunity.Application], error) {
	return r.ListWith(ctx, policy.ApplicationRead, viewer, params, func(db *gorm.DB) *gorm.DB {
		if filter.OpportunityID != nil {
			db = db.Where("opportunity_id = ?", *filter.OpportunityID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		return db
	})
}

// UpdateStatus writes the status column only
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status opportunity.Status) error {
	r.log.Debug("Updating application status", "id", id, "status", status)

	result := r.db.WithContext(ctx).Model(&opportunity.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		r.log.Error("Failed to update application status", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "application")
	}

	r.log.Info("Application status updated", "id", id, "status", status)
	return nil
}
