package postgres

import (
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/policy"
)

// PostgresAchievementRepository implements AchievementRepository using GORM
type PostgresAchievementRepository struct {
	*ScopedRepository[profile.Achievement]
}

func NewPostgresAchievementRepository(db *gorm.DB) *PostgresAchievementRepository {
	repo := newScopedRepository(db, "achievement", policy.AchievementRead, "Skills").
		withOrder("date_achieved DESC")
	return &PostgresAchievementRepository{ScopedRepository: repo}
}

// PostgresProjectRepository implements ProjectRepository using GORM.
// Reads follow the project visibility, collaborators included.
type PostgresProjectRepository struct {
	*ScopedRepository[profile.Project]
}

func NewPostgresProjectRepository(db *gorm.DB) *PostgresProjectRepository {
	repo := newScopedRepository(db, "project", policy.ProjectRead, "Skills", "Collaborators").
		withOrder("start_date DESC")
	return &PostgresProjectRepository{ScopedRepository: repo}
}

// PostgresTimelineRepository implements TimelineRepository using GORM
type PostgresTimelineRepository struct {
	*ScopedRepository[profile.CareerTimeline]
}

func NewPostgresTimelineRepository(db *gorm.DB) *PostgresTimelineRepository {
	repo := newScopedRepository(db, "career_timeline", policy.TimelineRead, "Skills").
		withOrder("start_date DESC")
	return &PostgresTimelineRepository{ScopedRepository: repo}
}
