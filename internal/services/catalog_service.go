package services

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/domain/common"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
	"github.com/gravadigital/orbitview-api/internal/validation"
)

// CatalogService maneja categorías, etiquetas, anfitriones, eventos, competencias y programas
type CatalogService struct {
	categoryRepo    postgres.CategoryRepository
	hostRepo        postgres.HostRepository
	eventRepo       postgres.EventRepository
	competitionRepo postgres.CompetitionRepository
	programRepo     postgres.ProgramRepository
	userRepo        postgres.UserRepository
	titles          validation.TitleValidation
	log             *log.Logger
}

// NewCatalogService crea una nueva instancia del servicio de catálogo
func NewCatalogService(
	categoryRepo postgres.CategoryRepository,
	hostRepo postgres.HostRepository,
	eventRepo postgres.EventRepository,
	competitionRepo postgres.CompetitionRepository,
	programRepo postgres.ProgramRepository,
	userRepo postgres.UserRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo:    categoryRepo,
		hostRepo:        hostRepo,
		eventRepo:       eventRepo,
		competitionRepo: competitionRepo,
		programRepo:     programRepo,
		userRepo:        userRepo,
		titles:          validation.TitleValidation{MaxTitle: 250},
		log:             logger.Service("catalog"),
	}
}

// CategoryRequest representa una solicitud para crear una categoría
type CategoryRequest struct {
	Title string `json:"title" binding:"required,max=250"`
}

// TagRequest representa una solicitud para crear una etiqueta
type TagRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (s *CatalogService) ListCategories(ctx context.Context, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.Category], error) {
	return s.categoryRepo.ListCategories(ctx, params)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req CategoryRequest) (*catalog.Category, error) {
	c := &catalog.Category{Title: strings.TrimSpace(req.Title)}
	if err := s.titles.ValidateTitle(c.Title); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.categoryRepo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListTags(ctx context.Context, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.SkillTag], error) {
	return s.categoryRepo.ListTags(ctx, params)
}

func (s *CatalogService) CreateTag(ctx context.Context, req TagRequest) (*catalog.SkillTag, error) {
	t := &catalog.SkillTag{Name: strings.ToLower(strings.TrimSpace(req.Name))}
	if err := validation.ValidateRequired(t.Name, "name"); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.categoryRepo.CreateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// HostRequest representa una solicitud para crear un anfitrión
type HostRequest struct {
	Name           string      `json:"name" binding:"required,max=250"`
	Slogan         string      `json:"slogan" binding:"max=250"`
	Bio            string      `json:"bio"`
	Administrators []uuid.UUID `json:"administrators"`
}

// UpdateHostRequest representa una actualización parcial de un anfitrión
type UpdateHostRequest struct {
	Name           *string      `json:"name" binding:"omitempty,max=250"`
	Slogan         *string      `json:"slogan" binding:"omitempty,max=250"`
	Bio            *string      `json:"bio"`
	Administrators *[]uuid.UUID `json:"administrators"`
}

// HostView agrega los administradores a la respuesta del anfitrión
type HostView struct {
	*catalog.Host
	Administrators []common.UserSummary `json:"administrators"`
}

func NewHostView(h *catalog.Host) HostView {
	admins := make([]common.UserSummary, 0, len(h.Administrators))
	for i := range h.Administrators {
		admins = append(admins, h.Administrators[i].Summary())
	}
	return HostView{Host: h, Administrators: admins}
}

func (s *CatalogService) ListHosts(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.Host], error) {
	return s.hostRepo.List(ctx, viewer, params)
}

func (s *CatalogService) GetHost(ctx context.Context, viewer, id uuid.UUID) (*catalog.Host, error) {
	return s.hostRepo.Get(ctx, viewer, id)
}

// CreateHost crea un anfitrión; quien lo crea queda como administrador
func (s *CatalogService) CreateHost(ctx context.Context, viewer uuid.UUID, req HostRequest) (*catalog.Host, error) {
	admins, err := s.resolveAdministrators(ctx, viewer, req.Administrators)
	if err != nil {
		return nil, err
	}

	h := &catalog.Host{Name: req.Name, Slogan: req.Slogan, Bio: req.Bio, Administrators: admins}
	if err := validate(h); err != nil {
		return nil, err
	}
	if err := s.hostRepo.Create(ctx, h); err != nil {
		return nil, err
	}

	s.log.Info("Host created", "id", h.ID, "administrators", len(h.Administrators))
	return h, nil
}

// UpdateHost actualiza un anfitrión; solo sus administradores pueden escribir
func (s *CatalogService) UpdateHost(ctx context.Context, viewer, id uuid.UUID, req UpdateHostRequest) (*catalog.Host, error) {
	h, err := loadForWrite(ctx, s.hostRepo, policy.HostWrite, viewer, id, "host")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Slogan != nil {
		h.Slogan = *req.Slogan
	}
	if req.Bio != nil {
		h.Bio = *req.Bio
	}
	if req.Administrators != nil {
		if len(*req.Administrators) == 0 {
			return nil, apperr.Validation("a host needs at least one administrator")
		}
		users, err := s.userRepo.GetByIDs(ctx, *req.Administrators)
		if err != nil {
			return nil, err
		}
		if len(users) != len(uniqueIDs(*req.Administrators)) {
			return nil, apperr.Validation("one or more administrators do not exist")
		}
		h.Administrators = users
	}

	if err := validate(h); err != nil {
		return nil, err
	}
	if err := s.hostRepo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *CatalogService) DeleteHost(ctx context.Context, viewer, id uuid.UUID) error {
	h, err := loadForWrite(ctx, s.hostRepo, policy.HostWrite, viewer, id, "host")
	if err != nil {
		return err
	}
	return s.hostRepo.Delete(ctx, h)
}

// resolveAdministrators carga los administradores e incluye siempre al creador
func (s *CatalogService) resolveAdministrators(ctx context.Context, creator uuid.UUID, ids []uuid.UUID) ([]user.User, error) {
	ids = uniqueIDs(append([]uuid.UUID{creator}, ids...))
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, apperr.Validation("one or more administrators do not exist")
	}
	return users, nil
}

// requireHostAdmin verifica que viewer administre el anfitrión indicado
func (s *CatalogService) requireHostAdmin(ctx context.Context, viewer, hostID uuid.UUID) error {
	h, err := s.hostRepo.Get(ctx, viewer, hostID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Validation("host does not exist")
		}
		return err
	}
	if !policy.HostWrite.Allows(viewer, h) {
		return apperr.PermissionDenied("only host administrators can manage its events and programs")
	}
	return nil
}

// EventRequest representa una solicitud para crear un evento
type EventRequest struct {
	Title       string      `json:"title" binding:"required,max=250"`
	Description string      `json:"description"`
	HostID      uuid.UUID   `json:"host" binding:"required"`
	URL         string      `json:"url" binding:"max=500"`
	Location    string      `json:"location" binding:"max=250"`
	StartTime   time.Time   `json:"start_time" binding:"required"`
	EndTime     time.Time   `json:"end_time" binding:"required"`
	Categories  []uuid.UUID `json:"categories"`
}

// UpdateEventRequest representa una actualización parcial de un evento
type UpdateEventRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=250"`
	Description *string      `json:"description"`
	HostID      *uuid.UUID   `json:"host"`
	URL         *string      `json:"url" binding:"omitempty,max=500"`
	Location    *string      `json:"location" binding:"omitempty,max=250"`
	StartTime   *time.Time   `json:"start_time"`
	EndTime     *time.Time   `json:"end_time"`
	Categories  *[]uuid.UUID `json:"categories"`
}

func (s *CatalogService) ListEvents(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.Event], error) {
	return s.eventRepo.List(ctx, viewer, params)
}

func (s *CatalogService) GetEvent(ctx context.Context, viewer, id uuid.UUID) (*catalog.Event, error) {
	return s.eventRepo.Get(ctx, viewer, id)
}

// CreateEvent crea un evento de un anfitrión administrado por viewer
func (s *CatalogService) CreateEvent(ctx context.Context, viewer uuid.UUID, req EventRequest) (*catalog.Event, error) {
	if err := s.requireHostAdmin(ctx, viewer, req.HostID); err != nil {
		return nil, err
	}
	categories, err := s.resolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	e := &catalog.Event{
		Title:       req.Title,
		Description: req.Description,
		HostID:      req.HostID,
		URL:         req.URL,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Categories:  categories,
	}
	if err := validate(e); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEvent actualiza un evento; mover el evento exige administrar ambos anfitriones
func (s *CatalogService) UpdateEvent(ctx context.Context, viewer, id uuid.UUID, req UpdateEventRequest) (*catalog.Event, error) {
	e, err := s.eventRepo.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireHostAdmin(ctx, viewer, e.HostID); err != nil {
		return nil, err
	}

	if req.HostID != nil && *req.HostID != e.HostID {
		if err := s.requireHostAdmin(ctx, viewer, *req.HostID); err != nil {
			return nil, err
		}
		e.HostID = *req.HostID
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.URL != nil {
		e.URL = *req.URL
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.StartTime != nil {
		e.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		e.EndTime = *req.EndTime
	}
	if req.Categories != nil {
		if e.Categories, err = s.resolveCategories(ctx, *req.Categories); err != nil {
			return nil, err
		}
	}

	if err := validate(e); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *CatalogService) DeleteEvent(ctx context.Context, viewer, id uuid.UUID) error {
	e, err := s.eventRepo.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := s.requireHostAdmin(ctx, viewer, e.HostID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, e)
}

// ProgramRequest representa una solicitud para crear un programa
type ProgramRequest struct {
	Title               string    `json:"title" binding:"required,max=250"`
	Description         string    `json:"description"`
	HostID              uuid.UUID `json:"host" binding:"required"`
	URL                 string    `json:"url" binding:"max=500"`
	DurationDescription string    `json:"duration_description" binding:"max=250"`
}

// UpdateProgramRequest representa una actualización parcial de un programa
type UpdateProgramRequest struct {
	Title               *string    `json:"title" binding:"omitempty,max=250"`
	Description         *string    `json:"description"`
	HostID              *uuid.UUID `json:"host"`
	URL                 *string    `json:"url" binding:"omitempty,max=500"`
	DurationDescription *string    `json:"duration_description" binding:"omitempty,max=250"`
}

func (s *CatalogService) ListPrograms(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.Program], error) {
	return s.programRepo.List(ctx, viewer, params)
}

func (s *CatalogService) GetProgram(ctx context.Context, viewer, id uuid.UUID) (*catalog.Program, error) {
	return s.programRepo.Get(ctx, viewer, id)
}

func (s *CatalogService) CreateProgram(ctx context.Context, viewer uuid.UUID, req ProgramRequest) (*catalog.Program, error) {
	if err := s.requireHostAdmin(ctx, viewer, req.HostID); err != nil {
		return nil, err
	}

	p := &catalog.Program{
		Title:               req.Title,
		Description:         req.Description,
		HostID:              req.HostID,
		URL:                 req.URL,
		DurationDescription: req.DurationDescription,
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.programRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProgram(ctx context.Context, viewer, id uuid.UUID, req UpdateProgramRequest) (*catalog.Program, error) {
	p, err := s.programRepo.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireHostAdmin(ctx, viewer, p.HostID); err != nil {
		return nil, err
	}

	if req.HostID != nil && *req.HostID != p.HostID {
		if err := s.requireHostAdmin(ctx, viewer, *req.HostID); err != nil {
			return nil, err
		}
		p.HostID = *req.HostID
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.URL != nil {
		p.URL = *req.URL
	}
	if req.DurationDescription != nil {
		p.DurationDescription = *req.DurationDescription
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.programRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProgram(ctx context.Context, viewer, id uuid.UUID) error {
	p, err := s.programRepo.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := s.requireHostAdmin(ctx, viewer, p.HostID); err != nil {
		return err
	}
	return s.programRepo.Delete(ctx, p)
}

// CompetitionRequest representa una solicitud para crear una competencia
type CompetitionRequest struct {
	Title           string      `json:"title" binding:"required,max=250"`
	Description     string      `json:"description"`
	Organizer       string      `json:"organizer" binding:"max=250"`
	URL             string      `json:"url" binding:"max=500"`
	DifficultyLevel string      `json:"difficulty_level"`
	StartDate       time.Time   `json:"start_date" binding:"required"`
	EndDate         time.Time   `json:"end_date" binding:"required"`
	Tags            []uuid.UUID `json:"tags"`
	Categories      []uuid.UUID `json:"categories"`
}

// UpdateCompetitionRequest representa una actualización parcial de una competencia
type UpdateCompetitionRequest struct {
	Title           *string      `json:"title" binding:"omitempty,max=250"`
	Description     *string      `json:"description"`
	Organizer       *string      `json:"organizer" binding:"omitempty,max=250"`
	URL             *string      `json:"url" binding:"omitempty,max=500"`
	DifficultyLevel *string      `json:"difficulty_level"`
	StartDate       *time.Time   `json:"start_date"`
	EndDate         *time.Time   `json:"end_date"`
	Tags            *[]uuid.UUID `json:"tags"`
	Categories      *[]uuid.UUID `json:"categories"`
}

func (s *CatalogService) ListCompetitions(ctx context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.Competition], error) {
	return s.competitionRepo.List(ctx, viewer, params)
}

func (s *CatalogService) GetCompetition(ctx context.Context, viewer, id uuid.UUID) (*catalog.Competition, error) {
	return s.competitionRepo.Get(ctx, viewer, id)
}

// CreateCompetition crea una competencia a nombre de viewer
func (s *CatalogService) CreateCompetition(ctx context.Context, viewer uuid.UUID, req CompetitionRequest) (*catalog.Competition, error) {
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	categories, err := s.resolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	c := &catalog.Competition{
		Title:           req.Title,
		Description:     req.Description,
		Organizer:       req.Organizer,
		URL:             req.URL,
		DifficultyLevel: catalog.Difficulty(req.DifficultyLevel),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		CreatedByID:     viewer,
		Tags:            tags,
		Categories:      categories,
	}
	if c.DifficultyLevel == "" {
		c.DifficultyLevel = catalog.DifficultyBeginner
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.competitionRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	c.Past = c.IsPast(time.Now())
	return c, nil
}

// UpdateCompetition actualiza una competencia; solo su creador puede escribir
func (s *CatalogService) UpdateCompetition(ctx context.Context, viewer, id uuid.UUID, req UpdateCompetitionRequest) (*catalog.Competition, error) {
	c, err := loadForWrite(ctx, s.competitionRepo, policy.CompetitionWrite, viewer, id, "competition")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Organizer != nil {
		c.Organizer = *req.Organizer
	}
	if req.URL != nil {
		c.URL = *req.URL
	}
	if req.DifficultyLevel != nil {
		c.DifficultyLevel = catalog.Difficulty(*req.DifficultyLevel)
	}
	if req.StartDate != nil {
		c.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = *req.EndDate
	}
	if req.Tags != nil {
		if c.Tags, err = s.resolveTags(ctx, *req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Categories != nil {
		if c.Categories, err = s.resolveCategories(ctx, *req.Categories); err != nil {
			return nil, err
		}
	}

	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.competitionRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	c.Past = c.IsPast(time.Now())
	return c, nil
}

func (s *CatalogService) DeleteCompetition(ctx context.Context, viewer, id uuid.UUID) error {
	c, err := loadForWrite(ctx, s.competitionRepo, policy.CompetitionWrite, viewer, id, "competition")
	if err != nil {
		return err
	}
	return s.competitionRepo.Delete(ctx, c)
}

func (s *CatalogService) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	ids = uniqueIDs(ids)
	categories, err := s.categoryRepo.GetCategories(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(ids) {
		return nil, apperr.Validation("one or more categories do not exist")
	}
	return categories, nil
}

func (s *CatalogService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]catalog.SkillTag, error) {
	ids = uniqueIDs(ids)
	tags, err := s.categoryRepo.GetTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, apperr.Validation("one or more tags do not exist")
	}
	return tags, nil
}

// uniqueIDs quita duplicados conservando el orden
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
