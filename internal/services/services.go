package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
	"github.com/gravadigital/orbitview-api/internal/validation"
)

// Services agrupa los servicios de la API sobre un mismo contenedor de repositorios
type Services struct {
	Users         *UserService
	Skills        *SkillService
	Profiles      *ProfileService
	Opportunities *OpportunityService
	Reactions     *ReactionService
	Catalog       *CatalogService
	Submissions   *SubmissionService
}

// New construye todos los servicios
func New(repos postgres.RepositoryContainer) *Services {
	users, skills := repos.Users(), repos.Skills()
	return &Services{
		Users:         NewUserService(users),
		Skills:        NewSkillService(skills, repos.UserSkills()),
		Profiles:      NewProfileService(repos.Achievements(), repos.Projects(), repos.Timeline(), skills, users),
		Opportunities: NewOpportunityService(repos.Opportunities(), repos.Applications(), skills),
		Reactions:     NewReactionService(repos.Reactions(), NewTargetRegistry(repos)),
		Catalog:       NewCatalogService(repos.Categories(), repos.Hosts(), repos.Events(), repos.Competitions(), repos.Programs(), users),
		Submissions:   NewSubmissionService(repos.Submissions(), repos.Competitions()),
	}
}

// getter es la parte de lectura de un ScopedStore
type getter[T any] interface {
	Get(ctx context.Context, viewer, id uuid.UUID) (*T, error)
}

// loadForWrite obtiene un recurso visible para viewer y verifica la regla de escritura.
// Un recurso invisible es NotFound; uno visible pero ajeno es PermissionDenied.
func loadForWrite[T any](ctx context.Context, store getter[T], rule policy.Rule[*T], viewer, id uuid.UUID, entity string) (*T, error) {
	rec, err := store.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if !rule.Allows(viewer, rec) {
		return nil, apperr.PermissionDenied("you do not have permission to modify this " + entity)
	}
	return rec, nil
}

// validate convierte el error de Validate en un error de validación
func validate(v interface{ Validate() error }) error {
	if err := v.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

// UserService maneja la lógica de negocio de usuarios
type UserService struct {
	userRepo postgres.UserRepository
	log      *log.Logger
}

// NewUserService crea una nueva instancia del servicio de usuarios
func NewUserService(userRepo postgres.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      logger.Service("user"),
	}
}

// Ensure crea el perfil de una identidad autenticada la primera vez que se ve
func (s *UserService) Ensure(ctx context.Context, id uuid.UUID, username, email string) (*user.User, error) {
	u := user.NewUser(id, username, email)
	if err := s.userRepo.Ensure(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetMe obtiene el perfil del usuario autenticado
func (s *UserService) GetMe(ctx context.Context, viewer uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, viewer)
}

// UpdateUserRequest representa una solicitud para actualizar el perfil
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=255"`
	LastName    *string `json:"last_name" binding:"omitempty,max=255"`
	Bio         *string `json:"bio"`
	Website     *string `json:"website" binding:"omitempty,url"`
	DateOfBirth *string `json:"date_of_birth"`
}

// UpdateMe actualiza el perfil del usuario autenticado
func (s *UserService) UpdateMe(ctx context.Context, viewer uuid.UUID, req UpdateUserRequest) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, viewer)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		if err := validation.ValidateMaxLength(*req.Bio, 250, "bio"); err != nil {
			return nil, apperr.Validation(err.Error())
		}
		u.Bio = *req.Bio
	}
	if req.Website != nil {
		u.Website = req.Website
	}
	if req.DateOfBirth != nil {
		dob, err := validation.ValidatePastDate(*req.DateOfBirth, "date_of_birth")
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		u.DateOfBirth = dob
	}

	if err := validate(u); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("Profile updated", "user", u.ID)
	return u, nil
}
