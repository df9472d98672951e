package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// TargetLookup confirms that a target exists and is readable by the viewer.
// It returns NotFound otherwise.
type TargetLookup func(ctx context.Context, viewer, id uuid.UUID) error

// TargetRegistry maps every reactable target type to its lookup
type TargetRegistry map[reaction.TargetType]TargetLookup

// lookup adapts the Get of a scoped store
func lookup[T any](store getter[T]) TargetLookup {
	return func(ctx context.Context, viewer, id uuid.UUID) error {
		_, err := store.Get(ctx, viewer, id)
		return err
	}
}

// NewTargetRegistry registers every target type of reaction.TargetTypes
func NewTargetRegistry(repos postgres.RepositoryContainer) TargetRegistry {
	return TargetRegistry{
		reaction.TargetProject:             lookup(repos.Projects()),
		reaction.TargetAchievement:         lookup(repos.Achievements()),
		reaction.TargetCareerTimeline:      lookup(repos.Timeline()),
		reaction.TargetOpportunity:         lookup(repos.Opportunities()),
		reaction.TargetEvent:               lookup(repos.Events()),
		reaction.TargetCompetition:         lookup(repos.Competitions()),
		reaction.TargetProgram:             lookup(repos.Programs()),
		reaction.TargetChallengeSubmission: lookup(repos.Submissions()),
	}
}

// Resolve checks the tag against the registry and the target against its visibility
func (r TargetRegistry) Resolve(ctx context.Context, viewer uuid.UUID, targetType string, id uuid.UUID) (reaction.Target, error) {
	find, ok := r[reaction.TargetType(targetType)]
	if !ok {
		return reaction.Target{}, apperr.InvalidTarget("unsupported target type: " + targetType)
	}
	if id == uuid.Nil {
		return reaction.Target{}, apperr.Validation("target_id is required")
	}

	if err := find(ctx, viewer, id); err != nil {
		return reaction.Target{}, err
	}
	return reaction.Target{Type: reaction.TargetType(targetType), ID: id}, nil
}

// ReactionService keeps one reaction per user and target
type ReactionService struct {
	reactionRepo postgres.ReactionRepository
	targets      TargetRegistry
	log          *log.Logger
}

func NewReactionService(reactionRepo postgres.ReactionRepository, targets TargetRegistry) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		targets:      targets,
		log:          logger.Service("reaction"),
	}
}

// TargetRequest identifies a target in query strings and bodies
type TargetRequest struct {
	TargetType string    `json:"target_type" binding:"required"`
	TargetID   uuid.UUID `json:"target_id"`
}

// SetReactionRequest representa una reacción sobre un recurso
type SetReactionRequest struct {
	TargetRequest
	Reaction string `json:"reaction" binding:"required"`
}

// SetReaction stores the viewer's reaction. Repeating the same kind leaves one
// row; a different kind overwrites it in place.
func (s *ReactionService) SetReaction(ctx context.Context, viewer uuid.UUID, req SetReactionRequest) (*reaction.Reaction, error) {
	kind := reaction.Kind(req.Reaction)
	if !kind.Valid() {
		return nil, apperr.Validation("reaction must be LIKE or DISLIKE")
	}

	target, err := s.targets.Resolve(ctx, viewer, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}
	return s.reactionRepo.Upsert(ctx, reaction.NewReaction(viewer, target, kind))
}

// RemoveReaction deletes the viewer's reaction on the target
func (s *ReactionService) RemoveReaction(ctx context.Context, viewer uuid.UUID, req TargetRequest) error {
	target, err := s.targets.Resolve(ctx, viewer, req.TargetType, req.TargetID)
	if err != nil {
		return err
	}
	return s.reactionRepo.Delete(ctx, viewer, target)
}

// Count returns how many reactions of kind the target has
func (s *ReactionService) Count(ctx context.Context, viewer uuid.UUID, req TargetRequest, kind reaction.Kind) (int64, error) {
	if !kind.Valid() {
		return 0, apperr.Validation("reaction must be LIKE or DISLIKE")
	}
	target, err := s.targets.Resolve(ctx, viewer, req.TargetType, req.TargetID)
	if err != nil {
		return 0, err
	}
	return s.reactionRepo.Count(ctx, target, kind)
}

// Summary returns both counts plus the viewer's own reaction, if any
func (s *ReactionService) Summary(ctx context.Context, viewer uuid.UUID, req TargetRequest) (*reaction.Summary, error) {
	target, err := s.targets.Resolve(ctx, viewer, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	counts, err := s.reactionRepo.CountByKind(ctx, target)
	if err != nil {
		return nil, err
	}
	summary := &reaction.Summary{
		Target:   target,
		Likes:    counts[reaction.Like],
		Dislikes: counts[reaction.Dislike],
	}

	mine, err := s.reactionRepo.Get(ctx, viewer, target)
	switch {
	case err == nil:
		summary.Mine = &mine.Reaction
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}
	return summary, nil
}
