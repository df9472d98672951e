package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

// ScopedStore define los métodos comunes de los recursos filtrados por visibilidad.
// Get y List aplican la misma regla de lectura.
type ScopedStore[T any] interface {
	Create(ctx context.Context, rec *T) error
	Get(ctx context.Context, viewer, id uuid.UUID) (*T, error)
	List(ctx context.Context, viewer uuid.UUID, params PaginationParams) (*PaginatedResult[T], error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, rec *T) error
}

// UserRepository define los métodos para interactuar con los usuarios en la DB.
type UserRepository interface {
	Ensure(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error)
	Update(ctx context.Context, u *user.User) error
}

// SkillFilter filtra el catálogo de habilidades
type SkillFilter struct {
	Category string
	Search   string
}

// SkillRepository define los métodos para el catálogo de habilidades
type SkillRepository interface {
	Create(ctx context.Context, s *skill.Skill) error
	GetBySlug(ctx context.Context, slug string) (*skill.Skill, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]skill.Skill, error)
	List(ctx context.Context, filter SkillFilter, params PaginationParams) (*PaginatedResult[skill.Skill], error)
}

// UserSkillRepository define los métodos para las habilidades de cada usuario
type UserSkillRepository interface {
	ScopedStore[skill.UserSkill]
	// Find ignora la regla de lectura; la usa la verificación
	Find(ctx context.Context, id uuid.UUID) (*skill.UserSkill, error)
	// MarkVerified devuelve false si otro verificador ganó la carrera
	MarkVerified(ctx context.Context, id, verifier uuid.UUID) (bool, error)
}

type AchievementRepository interface {
	ScopedStore[profile.Achievement]
}

type ProjectRepository interface {
	ScopedStore[profile.Project]
}

type TimelineRepository interface {
	ScopedStore[profile.CareerTimeline]
}

// OpportunityFilter refleja los filtros de la lista de oportunidades
type OpportunityFilter struct {
	Skills []string
	Type   opportunity.Type
	Remote *bool
	Mine   bool
}

// OpportunityRepository define los métodos para las oportunidades
type OpportunityRepository interface {
	ScopedStore[opportunity.Opportunity]
	Search(ctx context.Context, viewer uuid.UUID, filter OpportunityFilter, params PaginationParams) (*PaginatedResult[opportunity.Opportunity], error)
}

// ApplicationFilter filtra las postulaciones visibles
type ApplicationFilter struct {
	OpportunityID *uuid.UUID
	Status        *opportunity.Status
}

// ApplicationRepository define los métodos para las postulaciones
type ApplicationRepository interface {
	ScopedStore[opportunity.Application]
	Search(ctx context.Context, viewer uuid.UUID, filter ApplicationFilter, params PaginationParams) (*PaginatedResult[opportunity.Application], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status opportunity.Status) error
}

// ReactionRepository define los métodos del registro de reacciones
type ReactionRepository interface {
	Upsert(ctx context.Context, r *reaction.Reaction) (*reaction.Reaction, error)
	Get(ctx context.Context, userID uuid.UUID, target reaction.Target) (*reaction.Reaction, error)
	Delete(ctx context.Context, userID uuid.UUID, target reaction.Target) error
	Count(ctx context.Context, target reaction.Target, kind reaction.Kind) (int64, error)
	CountByKind(ctx context.Context, target reaction.Target) (map[reaction.Kind]int64, error)
}

// CategoryRepository define los métodos para categorías y etiquetas
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *catalog.Category) error
	ListCategories(ctx context.Context, params PaginationParams) (*PaginatedResult[catalog.Category], error)
	GetCategories(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error)
	CreateTag(ctx context.Context, t *catalog.SkillTag) error
	ListTags(ctx context.Context, params PaginationParams) (*PaginatedResult[catalog.SkillTag], error)
	GetTags(ctx context.Context, ids []uuid.UUID) ([]catalog.SkillTag, error)
}

type HostRepository interface {
	ScopedStore[catalog.Host]
}

type EventRepository interface {
	ScopedStore[catalog.Event]
}

type CompetitionRepository interface {
	ScopedStore[catalog.Competition]
}

type ProgramRepository interface {
	ScopedStore[catalog.Program]
}

// SubmissionRepository define los métodos para las entregas de competencias
type SubmissionRepository interface {
	ScopedStore[catalog.ChallengeSubmission]
	ListByCompetition(ctx context.Context, viewer, competitionID uuid.UUID, params PaginationParams) (*PaginatedResult[catalog.ChallengeSubmission], error)
}
