package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
	"github.com/gravadigital/orbitview-api/internal/validation"
)

// SubmissionService maneja las entregas de competencias; cada usuario ve solo las suyas
type SubmissionService struct {
	submissionRepo  postgres.SubmissionRepository
	competitionRepo postgres.CompetitionRepository
	texts           validation.TitleValidation
}

func NewSubmissionService(submissionRepo postgres.SubmissionRepository, competitionRepo postgres.CompetitionRepository) *SubmissionService {
	return &SubmissionService{
		submissionRepo:  submissionRepo,
		competitionRepo: competitionRepo,
		texts:           validation.TitleValidation{MaxTitle: 50, MaxDescription: 5000},
	}
}

// SubmissionRequest representa una entrega; sin título se genera uno aleatorio
type SubmissionRequest struct {
	CompetitionID uuid.UUID `json:"competition_id" binding:"required"`
	Title         string    `json:"title" binding:"max=50"`
	Description   string    `json:"description" binding:"max=5000"`
	Link          string    `json:"link" binding:"max=500"`
}

// UpdateSubmissionRequest representa una actualización parcial; is_verified es de solo lectura
type UpdateSubmissionRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Link        *string `json:"link" binding:"omitempty,max=500"`
}

// ListSubmissions lista las entregas propias, opcionalmente de una competencia
func (s *SubmissionService) ListSubmissions(ctx context.Context, viewer uuid.UUID, competitionID *uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.ChallengeSubmission], error) {
	if competitionID != nil {
		return s.submissionRepo.ListByCompetition(ctx, viewer, *competitionID, params)
	}
	return s.submissionRepo.List(ctx, viewer, params)
}

func (s *SubmissionService) GetSubmission(ctx context.Context, viewer, id uuid.UUID) (*catalog.ChallengeSubmission, error) {
	return s.submissionRepo.Get(ctx, viewer, id)
}

// CreateSubmission crea una entrega del usuario autenticado
func (s *SubmissionService) CreateSubmission(ctx context.Context, viewer uuid.UUID, req SubmissionRequest) (*catalog.ChallengeSubmission, error) {
	if _, err := s.competitionRepo.Get(ctx, viewer, req.CompetitionID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Validation("competition does not exist")
		}
		return nil, err
	}
	if err := s.texts.ValidateDescription(req.Description); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	sub := &catalog.ChallengeSubmission{
		UserID:        viewer,
		CompetitionID: req.CompetitionID,
		Title:         req.Title,
		Description:   req.Description,
		Link:          req.Link,
	}
	if err := validate(sub); err != nil {
		return nil, err
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubmission actualiza una entrega propia
func (s *SubmissionService) UpdateSubmission(ctx context.Context, viewer, id uuid.UUID, req UpdateSubmissionRequest) (*catalog.ChallengeSubmission, error) {
	sub, err := loadForWrite(ctx, s.submissionRepo, policy.SubmissionWrite, viewer, id, "submission")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := s.texts.ValidateTitle(*req.Title); err != nil {
			return nil, apperr.Validation(err.Error())
		}
		sub.Title = *req.Title
	}
	if req.Description != nil {
		sub.Description = *req.Description
	}
	if req.Link != nil {
		sub.Link = *req.Link
	}

	if err := validate(sub); err != nil {
		return nil, err
	}
	if err := s.submissionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	sub.Edited = true
	return sub, nil
}

func (s *SubmissionService) DeleteSubmission(ctx context.Context, viewer, id uuid.UUID) error {
	sub, err := loadForWrite(ctx, s.submissionRepo, policy.SubmissionWrite, viewer, id, "submission")
	if err != nil {
		return err
	}
	return s.submissionRepo.Delete(ctx, sub)
}
