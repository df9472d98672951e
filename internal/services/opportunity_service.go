package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// OpportunityService maneja las oportunidades y el flujo de postulaciones
type OpportunityService struct {
	opportunityRepo postgres.OpportunityRepository
	applicationRepo postgres.ApplicationRepository
	skillRepo       postgres.SkillRepository
	now             func() time.Time
	log             *log.Logger
}

// NewOpportunityService crea una nueva instancia del servicio de oportunidades
func NewOpportunityService(
	opportunityRepo postgres.OpportunityRepository,
	applicationRepo postgres.ApplicationRepository,
	skillRepo postgres.SkillRepository,
) *OpportunityService {
	return &OpportunityService{
		opportunityRepo: opportunityRepo,
		applicationRepo: applicationRepo,
		skillRepo:       skillRepo,
		now:             time.Now,
		log:             logger.Service("opportunity"),
	}
}

// OpportunityRequest representa una solicitud para publicar una oportunidad
type OpportunityRequest struct {
	Title           string      `json:"title" binding:"required,max=200"`
	Organization    string      `json:"organization" binding:"required,max=200"`
	Description     string      `json:"description" binding:"required"`
	OpportunityType string      `json:"opportunity_type" binding:"required"`
	Location        string      `json:"location" binding:"max=200"`
	IsRemote        bool        `json:"is_remote"`
	Deadline        *time.Time  `json:"deadline"`
	IsActive        *bool       `json:"is_active"`
	RequiredSkills  []uuid.UUID `json:"required_skills"`
}

// UpdateOpportunityRequest representa una actualización parcial de una oportunidad
type UpdateOpportunityRequest struct {
	Title           *string      `json:"title" binding:"omitempty,max=200"`
	Organization    *string      `json:"organization" binding:"omitempty,max=200"`
	Description     *string      `json:"description"`
	OpportunityType *string      `json:"opportunity_type"`
	Location        *string      `json:"location" binding:"omitempty,max=200"`
	IsRemote        *bool        `json:"is_remote"`
	Deadline        *time.Time   `json:"deadline"`
	IsActive        *bool        `json:"is_active"`
	RequiredSkills  *[]uuid.UUID `json:"required_skills"`
}

// ListOpportunities lista las oportunidades activas, o las propias con filter.Mine
func (s *OpportunityService) ListOpportunities(ctx context.Context, viewer uuid.UUID, filter postgres.OpportunityFilter, params postgres.PaginationParams) (*postgres.PaginatedResult[opportunity.Opportunity], error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperr.Validation("invalid opportunity type: " + string(filter.Type))
	}
	return s.opportunityRepo.Search(ctx, viewer, filter, params)
}

// GetOpportunity obtiene una oportunidad activa, o cualquiera propia
func (s *OpportunityService) GetOpportunity(ctx context.Context, viewer, id uuid.UUID) (*opportunity.Opportunity, error) {
	return s.opportunityRepo.Get(ctx, viewer, id)
}

// CreateOpportunity publica una oportunidad a nombre del usuario autenticado
func (s *OpportunityService) CreateOpportunity(ctx context.Context, viewer uuid.UUID, req OpportunityRequest) (*opportunity.Opportunity, error) {
	skills, err := resolveSkills(ctx, s.skillRepo, req.RequiredSkills)
	if err != nil {
		return nil, err
	}

	o := &opportunity.Opportunity{
		Title:           req.Title,
		Organization:    req.Organization,
		Description:     req.Description,
		OpportunityType: opportunity.Type(req.OpportunityType),
		Location:        req.Location,
		IsRemote:        req.IsRemote,
		PostedByID:      viewer,
		Deadline:        req.Deadline,
		IsActive:        req.IsActive == nil || *req.IsActive,
		RequiredSkills:  skills,
	}
	if err := validate(o); err != nil {
		return nil, err
	}
	if err := s.opportunityRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.log.Info("Opportunity posted", "id", o.ID, "poster", viewer, "type", o.OpportunityType)
	return o, nil
}

// UpdateOpportunity actualiza una oportunidad; solo quien la publicó puede escribir
func (s *OpportunityService) UpdateOpportunity(ctx context.Context, viewer, id uuid.UUID, req UpdateOpportunityRequest) (*opportunity.Opportunity, error) {
	o, err := loadForWrite(ctx, s.opportunityRepo, policy.OpportunityWrite, viewer, id, "opportunity")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		o.Title = *req.Title
	}
	if req.Organization != nil {
		o.Organization = *req.Organization
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.OpportunityType != nil {
		o.OpportunityType = opportunity.Type(*req.OpportunityType)
	}
	if req.Location != nil {
		o.Location = *req.Location
	}
	if req.IsRemote != nil {
		o.IsRemote = *req.IsRemote
	}
	if req.Deadline != nil {
		o.Deadline = req.Deadline
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}
	if req.RequiredSkills != nil {
		if o.RequiredSkills, err = resolveSkills(ctx, s.skillRepo, *req.RequiredSkills); err != nil {
			return nil, err
		}
	}

	if err := validate(o); err != nil {
		return nil, err
	}
	if err := s.opportunityRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OpportunityService) DeleteOpportunity(ctx context.Context, viewer, id uuid.UUID) error {
	o, err := loadForWrite(ctx, s.opportunityRepo, policy.OpportunityWrite, viewer, id, "opportunity")
	if err != nil {
		return err
	}
	return s.opportunityRepo.Delete(ctx, o)
}

// ApplyRequest representa una postulación desde la oportunidad
type ApplyRequest struct {
	Notes string `json:"notes"`
}

// Apply postula al usuario autenticado. Una segunda postulación se detecta por la
// restricción única y se informa como AlreadyInState.
func (s *OpportunityService) Apply(ctx context.Context, viewer, opportunityID uuid.UUID, req ApplyRequest) (*opportunity.Application, error) {
	o, err := s.openOpportunity(ctx, viewer, opportunityID)
	if err != nil {
		return nil, err
	}

	app := opportunity.NewApplication(o.ID, viewer, req.Notes)
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if apperr.Is(err, apperr.KindDuplicateConstraint) {
			return nil, apperr.New(apperr.KindAlreadyInState, "you have already applied for this opportunity", err)
		}
		return nil, err
	}

	app.Opportunity = o
	s.log.Info("Application submitted", "id", app.ID, "opportunity", o.ID, "applicant", viewer)
	return app, nil
}

// CreateApplicationRequest representa una postulación creada en la colección
type CreateApplicationRequest struct {
	OpportunityID uuid.UUID `json:"opportunity" binding:"required"`
	Notes         string    `json:"notes"`
}

// CreateApplication crea una postulación del usuario autenticado; repetirla es DuplicateConstraint
func (s *OpportunityService) CreateApplication(ctx context.Context, viewer uuid.UUID, req CreateApplicationRequest) (*opportunity.Application, error) {
	o, err := s.openOpportunity(ctx, viewer, req.OpportunityID)
	if err != nil {
		return nil, err
	}

	app := opportunity.NewApplication(o.ID, viewer, req.Notes)
	if !policy.ApplicationCreate.Allows(viewer, app) {
		return nil, apperr.PermissionDenied("applications can only be created by the applicant")
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	app.Opportunity = o
	return app, nil
}

// openOpportunity obtiene una oportunidad visible que acepta postulaciones
func (s *OpportunityService) openOpportunity(ctx context.Context, viewer, id uuid.UUID) (*opportunity.Opportunity, error) {
	o, err := s.opportunityRepo.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if !o.AcceptsApplications(s.now()) {
		return nil, apperr.Validation("this opportunity is not accepting applications")
	}
	return o, nil
}

// ListApplications lista las postulaciones propias y las recibidas en oportunidades propias
func (s *OpportunityService) ListApplications(ctx context.Context, viewer uuid.UUID, filter postgres.ApplicationFilter, params postgres.PaginationParams) (*postgres.PaginatedResult[opportunity.Application], error) {
	return s.applicationRepo.Search(ctx, viewer, filter, params)
}

func (s *OpportunityService) GetApplication(ctx context.Context, viewer, id uuid.UUID) (*opportunity.Application, error) {
	return s.applicationRepo.Get(ctx, viewer, id)
}

// UpdateApplicationRequest representa un cambio sobre una postulación
type UpdateApplicationRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// UpdateApplication aplica un cambio de estado. Solo quien publicó la oportunidad
// puede cambiar el estado; las notas no se modifican después de postular.
func (s *OpportunityService) UpdateApplication(ctx context.Context, viewer, id uuid.UUID, req UpdateApplicationRequest) (*opportunity.Application, error) {
	app, err := s.applicationRepo.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !policy.ApplicationStatusWrite.Allows(viewer, app) {
		return nil, apperr.PermissionDenied("only the opportunity poster can change the application status")
	}
	if req.Notes != nil && *req.Notes != app.Notes {
		return nil, apperr.PermissionDenied("notes can only be set when applying")
	}
	if req.Status == nil {
		return app, nil
	}

	status, ok := opportunity.StatusFromString(*req.Status)
	if !ok {
		return nil, apperr.Validation("invalid status: " + *req.Status)
	}
	if status == app.Status {
		return app, nil
	}

	previous := app.Status
	if err := app.UpdateStatus(status); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.applicationRepo.UpdateStatus(ctx, app.ID, status); err != nil {
		return nil, err
	}

	s.log.Info("Application status changed", "id", app.ID, "from", previous, "to", status, "by", viewer)
	return app, nil
}

// WithdrawApplication elimina una postulación; solo el postulante puede hacerlo
func (s *OpportunityService) WithdrawApplication(ctx context.Context, viewer, id uuid.UUID) error {
	app, err := loadForWrite(ctx, s.applicationRepo, policy.ApplicationDelete, viewer, id, "application")
	if err != nil {
		return err
	}
	return s.applicationRepo.Delete(ctx, app)
}
