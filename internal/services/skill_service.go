package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
	"github.com/gravadigital/orbitview-api/internal/validation"
)

// SkillService maneja el catálogo de habilidades y las habilidades de cada usuario
type SkillService struct {
	skillRepo     postgres.SkillRepository
	userSkillRepo postgres.UserSkillRepository
	validator     validation.SkillValidation
	log           *log.Logger
}

// NewSkillService crea una nueva instancia del servicio de habilidades
func NewSkillService(skillRepo postgres.SkillRepository, userSkillRepo postgres.UserSkillRepository) *SkillService {
	return &SkillService{
		skillRepo:     skillRepo,
		userSkillRepo: userSkillRepo,
		validator:     validation.SkillValidation{},
		log:           logger.Service("skill"),
	}
}

// CreateSkillRequest representa una solicitud para crear una habilidad
type CreateSkillRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// CreateSkill agrega una habilidad al catálogo; el slug se deriva del nombre
func (s *SkillService) CreateSkill(ctx context.Context, req CreateSkillRequest) (*skill.Skill, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.validator.ValidateSkillName(name); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.validator.ValidateSkillCategory(req.Category); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	sk := &skill.Skill{Name: name, Category: strings.TrimSpace(req.Category), Slug: skill.Slugify(name)}
	if err := validation.ValidateSlug(sk.Slug); err != nil {
		return nil, apperr.Validation("name must contain at least one letter or digit")
	}
	if err := s.skillRepo.Create(ctx, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// GetSkill obtiene una habilidad por su slug
func (s *SkillService) GetSkill(ctx context.Context, slug string) (*skill.Skill, error) {
	return s.skillRepo.GetBySlug(ctx, slug)
}

// ListSkills lista el catálogo
func (s *SkillService) ListSkills(ctx context.Context, filter postgres.SkillFilter, params postgres.PaginationParams) (*postgres.PaginatedResult[skill.Skill], error) {
	return s.skillRepo.List(ctx, filter, params)
}

// resolveSkills carga las habilidades indicadas; un id desconocido es un error de validación
func resolveSkills(ctx context.Context, repo postgres.SkillRepository, ids []uuid.UUID) ([]skill.Skill, error) {
	unique := uniqueIDs(ids)
	skills, err := repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(skills) != len(unique) {
		return nil, apperr.Validation("one or more skills do not exist")
	}
	return skills, nil
}

// CreateUserSkillRequest representa una solicitud para declarar una habilidad
type CreateUserSkillRequest struct {
	SkillID         uuid.UUID `json:"skill" binding:"required"`
	Proficiency     int       `json:"proficiency" binding:"required,min=1,max=4"`
	YearsExperience float64   `json:"years_experience" binding:"min=0"`
}

// UpdateUserSkillRequest actualiza los campos editables; la verificación es de solo lectura
type UpdateUserSkillRequest struct {
	Proficiency     *int     `json:"proficiency" binding:"omitempty,min=1,max=4"`
	YearsExperience *float64 `json:"years_experience" binding:"omitempty,min=0"`
}

// ListUserSkills lista las habilidades del usuario autenticado
func (s *SkillService) ListUserSkills(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[skill.UserSkill], error) {
	return s.userSkillRepo.List(ctx, viewer, params)
}

// GetUserSkill obtiene una habilidad del usuario autenticado
func (s *SkillService) GetUserSkill(ctx context.Context, viewer, id uuid.UUID) (*skill.UserSkill, error) {
	return s.userSkillRepo.Get(ctx, viewer, id)
}

// CreateUserSkill declara una habilidad; repetirla es DuplicateConstraint
func (s *SkillService) CreateUserSkill(ctx context.Context, viewer uuid.UUID, req CreateUserSkillRequest) (*skill.UserSkill, error) {
	skills, err := resolveSkills(ctx, s.skillRepo, []uuid.UUID{req.SkillID})
	if err != nil {
		return nil, err
	}

	us := &skill.UserSkill{
		UserID:          viewer,
		SkillID:         req.SkillID,
		Proficiency:     skill.Proficiency(req.Proficiency),
		YearsExperience: req.YearsExperience,
	}
	if err := validate(us); err != nil {
		return nil, err
	}
	if err := s.userSkillRepo.Create(ctx, us); err != nil {
		return nil, err
	}

	us.Skill = skills[0]
	return us, nil
}

// UpdateUserSkill modifica nivel y experiencia
func (s *SkillService) UpdateUserSkill(ctx context.Context, viewer, id uuid.UUID, req UpdateUserSkillRequest) (*skill.UserSkill, error) {
	us, err := loadForWrite(ctx, s.userSkillRepo, policy.UserSkillWrite, viewer, id, "skill")
	if err != nil {
		return nil, err
	}

	if req.Proficiency != nil {
		us.Proficiency = skill.Proficiency(*req.Proficiency)
	}
	if req.YearsExperience != nil {
		us.YearsExperience = *req.YearsExperience
	}
	if err := validate(us); err != nil {
		return nil, err
	}
	if err := s.userSkillRepo.Update(ctx, us); err != nil {
		return nil, err
	}
	return us, nil
}

// DeleteUserSkill elimina una habilidad del usuario autenticado
func (s *SkillService) DeleteUserSkill(ctx context.Context, viewer, id uuid.UUID) error {
	us, err := loadForWrite(ctx, s.userSkillRepo, policy.UserSkillWrite, viewer, id, "skill")
	if err != nil {
		return err
	}
	return s.userSkillRepo.Delete(ctx, us)
}

// VerifyUserSkill marca como verificada la habilidad de otro usuario.
// Cualquier usuario autenticado salvo el dueño puede verificar, por eso
// la búsqueda no aplica la regla de lectura.
func (s *SkillService) VerifyUserSkill(ctx context.Context, viewer, id uuid.UUID) (*skill.UserSkill, error) {
	us, err := s.userSkillRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckVerify(viewer, us); err != nil {
		return nil, err
	}

	won, err := s.userSkillRepo.MarkVerified(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperr.AlreadyInState("skill is already verified")
	}

	us.IsVerified = true
	us.VerifiedByID = &viewer
	s.log.Info("Skill verified", "user_skill", id, "owner", us.UserID, "verifier", viewer)
	return us, nil
}
