package services

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/common"
	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
	"github.com/gravadigital/orbitview-api/internal/validation"
)

// ProfileService maneja logros, proyectos y trayectoria de los usuarios
type ProfileService struct {
	achievementRepo postgres.AchievementRepository
	projectRepo     postgres.ProjectRepository
	timelineRepo    postgres.TimelineRepository
	skillRepo       postgres.SkillRepository
	userRepo        postgres.UserRepository
	log             *log.Logger
}

// NewProfileService crea una nueva instancia del servicio de perfiles
func NewProfileService(
	achievementRepo postgres.AchievementRepository,
	projectRepo postgres.ProjectRepository,
	timelineRepo postgres.TimelineRepository,
	skillRepo postgres.SkillRepository,
	userRepo postgres.UserRepository,
) *ProfileService {
	return &ProfileService{
		achievementRepo: achievementRepo,
		projectRepo:     projectRepo,
		timelineRepo:    timelineRepo,
		skillRepo:       skillRepo,
		userRepo:        userRepo,
		log:             logger.Service("profile"),
	}
}

// AchievementRequest representa una solicitud para crear un logro
type AchievementRequest struct {
	Title           string      `json:"title" binding:"required,max=200"`
	Description     string      `json:"description" binding:"required"`
	AchievementType string      `json:"achievement_type" binding:"required"`
	DateAchieved    common.Date `json:"date_achieved"`
	Issuer          string      `json:"issuer" binding:"required,max=200"`
	VerificationURL *string     `json:"verification_url"`
	Skills          []uuid.UUID `json:"skills"`
}

// UpdateAchievementRequest representa una actualización parcial de un logro
type UpdateAchievementRequest struct {
	Title           *string      `json:"title" binding:"omitempty,max=200"`
	Description     *string      `json:"description"`
	AchievementType *string      `json:"achievement_type"`
	DateAchieved    *common.Date `json:"date_achieved"`
	Issuer          *string      `json:"issuer" binding:"omitempty,max=200"`
	VerificationURL *string      `json:"verification_url"`
	Skills          *[]uuid.UUID `json:"skills"`
}

func (s *ProfileService) ListAchievements(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[profile.Achievement], error) {
	return s.achievementRepo.List(ctx, viewer, params)
}

func (s *ProfileService) GetAchievement(ctx context.Context, viewer, id uuid.UUID) (*profile.Achievement, error) {
	return s.achievementRepo.Get(ctx, viewer, id)
}

// CreateAchievement crea un logro del usuario autenticado
func (s *ProfileService) CreateAchievement(ctx context.Context, viewer uuid.UUID, req AchievementRequest) (*profile.Achievement, error) {
	if err := validateOptionalURL(req.VerificationURL, "verification_url"); err != nil {
		return nil, err
	}
	skills, err := resolveSkills(ctx, s.skillRepo, req.Skills)
	if err != nil {
		return nil, err
	}

	a := &profile.Achievement{
		UserID:          viewer,
		Title:           req.Title,
		Description:     req.Description,
		AchievementType: profile.AchievementType(req.AchievementType),
		DateAchieved:    req.DateAchieved,
		Issuer:          req.Issuer,
		VerificationURL: req.VerificationURL,
		Skills:          skills,
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	if err := s.achievementRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAchievement actualiza un logro propio
func (s *ProfileService) UpdateAchievement(ctx context.Context, viewer, id uuid.UUID, req UpdateAchievementRequest) (*profile.Achievement, error) {
	a, err := loadForWrite(ctx, s.achievementRepo, policy.AchievementWrite, viewer, id, "achievement")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.AchievementType != nil {
		a.AchievementType = profile.AchievementType(*req.AchievementType)
	}
	if req.DateAchieved != nil {
		a.DateAchieved = *req.DateAchieved
	}
	if req.Issuer != nil {
		a.Issuer = *req.Issuer
	}
	if req.VerificationURL != nil {
		if err := validateOptionalURL(req.VerificationURL, "verification_url"); err != nil {
			return nil, err
		}
		a.VerificationURL = req.VerificationURL
	}
	if req.Skills != nil {
		if a.Skills, err = resolveSkills(ctx, s.skillRepo, *req.Skills); err != nil {
			return nil, err
		}
	}

	if err := validate(a); err != nil {
		return nil, err
	}
	if err := s.achievementRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ProfileService) DeleteAchievement(ctx context.Context, viewer, id uuid.UUID) error {
	a, err := loadForWrite(ctx, s.achievementRepo, policy.AchievementWrite, viewer, id, "achievement")
	if err != nil {
		return err
	}
	return s.achievementRepo.Delete(ctx, a)
}

// ProjectRequest representa una solicitud para crear un proyecto
type ProjectRequest struct {
	Title         string       `json:"title" binding:"required,max=200"`
	Description   string       `json:"description" binding:"required"`
	StartDate     common.Date  `json:"start_date"`
	EndDate       *common.Date `json:"end_date"`
	IsOngoing     bool         `json:"is_ongoing"`
	Visibility    string       `json:"visibility"`
	GithubURL     *string      `json:"github_url"`
	LiveURL       *string      `json:"live_url"`
	Skills        []uuid.UUID  `json:"skills"`
	Collaborators []uuid.UUID  `json:"collaborators"`
}

// UpdateProjectRequest representa una actualización parcial de un proyecto
type UpdateProjectRequest struct {
	Title         *string      `json:"title" binding:"omitempty,max=200"`
	Description   *string      `json:"description"`
	StartDate     *common.Date `json:"start_date"`
	EndDate       *common.Date `json:"end_date"`
	IsOngoing     *bool        `json:"is_ongoing"`
	Visibility    *string      `json:"visibility"`
	GithubURL     *string      `json:"github_url"`
	LiveURL       *string      `json:"live_url"`
	Skills        *[]uuid.UUID `json:"skills"`
	Collaborators *[]uuid.UUID `json:"collaborators"`
}

// ProjectView agrega los colaboradores a la respuesta del proyecto
type ProjectView struct {
	*profile.Project
	Collaborators []common.UserSummary `json:"collaborators"`
}

// NewProjectView construye la representación pública de un proyecto
func NewProjectView(p *profile.Project) ProjectView {
	collaborators := make([]common.UserSummary, 0, len(p.Collaborators))
	for i := range p.Collaborators {
		collaborators = append(collaborators, p.Collaborators[i].Summary())
	}
	return ProjectView{Project: p, Collaborators: collaborators}
}

// ListProjects lista los proyectos que el usuario puede ver
func (s *ProfileService) ListProjects(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[profile.Project], error) {
	return s.projectRepo.List(ctx, viewer, params)
}

// GetProject obtiene un proyecto si su visibilidad lo permite
func (s *ProfileService) GetProject(ctx context.Context, viewer, id uuid.UUID) (*profile.Project, error) {
	return s.projectRepo.Get(ctx, viewer, id)
}

// CreateProject crea un proyecto del usuario autenticado
func (s *ProfileService) CreateProject(ctx context.Context, viewer uuid.UUID, req ProjectRequest) (*profile.Project, error) {
	visibility := profile.VisibilityPublic
	if req.Visibility != "" {
		v, ok := profile.VisibilityFromString(req.Visibility)
		if !ok {
			return nil, apperr.Validation("visibility must be one of PUBLIC, PRIVATE, CONNECTIONS")
		}
		visibility = v
	}
	for _, u := range []*string{req.GithubURL, req.LiveURL} {
		if err := validateOptionalURL(u, "url"); err != nil {
			return nil, err
		}
	}

	skills, err := resolveSkills(ctx, s.skillRepo, req.Skills)
	if err != nil {
		return nil, err
	}
	collaborators, err := s.resolveCollaborators(ctx, viewer, req.Collaborators)
	if err != nil {
		return nil, err
	}

	p := &profile.Project{
		UserID:        viewer,
		Title:         req.Title,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsOngoing:     req.IsOngoing,
		Visibility:    visibility,
		GithubURL:     req.GithubURL,
		LiveURL:       req.LiveURL,
		Skills:        skills,
		Collaborators: collaborators,
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("Project created", "id", p.ID, "owner", viewer, "visibility", p.Visibility)
	return p, nil
}

// UpdateProject actualiza un proyecto; solo el dueño puede escribir
func (s *ProfileService) UpdateProject(ctx context.Context, viewer, id uuid.UUID, req UpdateProjectRequest) (*profile.Project, error) {
	p, err := loadForWrite(ctx, s.projectRepo, policy.ProjectWrite, viewer, id, "project")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate
	}
	if req.IsOngoing != nil {
		p.IsOngoing = *req.IsOngoing
		if p.IsOngoing && req.EndDate == nil {
			p.EndDate = nil
		}
	}
	if req.Visibility != nil {
		v, ok := profile.VisibilityFromString(*req.Visibility)
		if !ok {
			return nil, apperr.Validation("visibility must be one of PUBLIC, PRIVATE, CONNECTIONS")
		}
		p.Visibility = v
	}
	if req.GithubURL != nil {
		if err := validateOptionalURL(req.GithubURL, "github_url"); err != nil {
			return nil, err
		}
		p.GithubURL = req.GithubURL
	}
	if req.LiveURL != nil {
		if err := validateOptionalURL(req.LiveURL, "live_url"); err != nil {
			return nil, err
		}
		p.LiveURL = req.LiveURL
	}
	if req.Skills != nil {
		if p.Skills, err = resolveSkills(ctx, s.skillRepo, *req.Skills); err != nil {
			return nil, err
		}
	}
	if req.Collaborators != nil {
		if p.Collaborators, err = s.resolveCollaborators(ctx, viewer, *req.Collaborators); err != nil {
			return nil, err
		}
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) DeleteProject(ctx context.Context, viewer, id uuid.UUID) error {
	p, err := loadForWrite(ctx, s.projectRepo, policy.ProjectWrite, viewer, id, "project")
	if err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, p)
}

// resolveCollaborators carga los usuarios colaboradores; el dueño no puede serlo
func (s *ProfileService) resolveCollaborators(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}

	unique := uniqueIDs(ids)
	if slices.Contains(unique, owner) {
		return nil, apperr.Validation("the owner cannot be a collaborator")
	}

	users, err := s.userRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(users) != len(unique) {
		return nil, apperr.Validation("one or more collaborators do not exist")
	}
	return users, nil
}

// TimelineRequest representa una solicitud para crear una entrada de trayectoria
type TimelineRequest struct {
	Title         string          `json:"title" binding:"required,max=200"`
	Organization  string          `json:"organization" binding:"required,max=200"`
	Description   string          `json:"description" binding:"required"`
	StartDate     common.Date     `json:"start_date"`
	EndDate       *common.Date    `json:"end_date"`
	IsCurrent     bool            `json:"is_current"`
	EntryType     string          `json:"entry_type" binding:"required,max=50"`
	ImpactMetrics json.RawMessage `json:"impact_metrics"`
	Skills        []uuid.UUID     `json:"skills"`
}

// UpdateTimelineRequest representa una actualización parcial de la trayectoria
type UpdateTimelineRequest struct {
	Title         *string         `json:"title" binding:"omitempty,max=200"`
	Organization  *string         `json:"organization" binding:"omitempty,max=200"`
	Description   *string         `json:"description"`
	StartDate     *common.Date    `json:"start_date"`
	EndDate       *common.Date    `json:"end_date"`
	IsCurrent     *bool           `json:"is_current"`
	EntryType     *string         `json:"entry_type" binding:"omitempty,max=50"`
	ImpactMetrics json.RawMessage `json:"impact_metrics"`
	Skills        *[]uuid.UUID    `json:"skills"`
}

func (s *ProfileService) ListTimeline(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[profile.CareerTimeline], error) {
	return s.timelineRepo.List(ctx, viewer, params)
}

func (s *ProfileService) GetTimelineEntry(ctx context.Context, viewer, id uuid.UUID) (*profile.CareerTimeline, error) {
	return s.timelineRepo.Get(ctx, viewer, id)
}

// CreateTimelineEntry crea una entrada de trayectoria del usuario autenticado
func (s *ProfileService) CreateTimelineEntry(ctx context.Context, viewer uuid.UUID, req TimelineRequest) (*profile.CareerTimeline, error) {
	skills, err := resolveSkills(ctx, s.skillRepo, req.Skills)
	if err != nil {
		return nil, err
	}

	entry := &profile.CareerTimeline{
		UserID:        viewer,
		Title:         req.Title,
		Organization:  req.Organization,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsCurrent:     req.IsCurrent,
		EntryType:     req.EntryType,
		ImpactMetrics: impactMetrics(req.ImpactMetrics),
		Skills:        skills,
	}
	if err := validate(entry); err != nil {
		return nil, err
	}
	if err := s.timelineRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateTimelineEntry actualiza una entrada propia
func (s *ProfileService) UpdateTimelineEntry(ctx context.Context, viewer, id uuid.UUID, req UpdateTimelineRequest) (*profile.CareerTimeline, error) {
	entry, err := loadForWrite(ctx, s.timelineRepo, policy.TimelineWrite, viewer, id, "timeline entry")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Organization != nil {
		entry.Organization = *req.Organization
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.StartDate != nil {
		entry.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		entry.EndDate = req.EndDate
	}
	if req.IsCurrent != nil {
		entry.IsCurrent = *req.IsCurrent
	}
	if req.EntryType != nil {
		entry.EntryType = *req.EntryType
	}
	if req.ImpactMetrics != nil {
		entry.ImpactMetrics = impactMetrics(req.ImpactMetrics)
	}
	if req.Skills != nil {
		if entry.Skills, err = resolveSkills(ctx, s.skillRepo, *req.Skills); err != nil {
			return nil, err
		}
	}

	if err := validate(entry); err != nil {
		return nil, err
	}
	if err := s.timelineRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ProfileService) DeleteTimelineEntry(ctx context.Context, viewer, id uuid.UUID) error {
	entry, err := loadForWrite(ctx, s.timelineRepo, policy.TimelineWrite, viewer, id, "timeline entry")
	if err != nil {
		return err
	}
	return s.timelineRepo.Delete(ctx, entry)
}

// impactMetrics guarda {} cuando no se enviaron métricas
func impactMetrics(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

func validateOptionalURL(value *string, field string) error {
	if value == nil || *value == "" {
		return nil
	}
	if err := validation.ValidateURL(*value, field); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}
