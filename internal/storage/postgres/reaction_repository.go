package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/logger"
)

// PostgresReactionRepository implements ReactionRepository using GORM
type PostgresReactionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{
		db:  db,
		log: logger.Repository("reaction"),
	}
}

// Upsert stores the reaction of a user on a target. A second call for the
// same (user, target) overwrites the kind in place instead of adding a row.
func (r *PostgresReactionRepository) Upsert(ctx context.Context, rec *reaction.Reaction) (*reaction.Reaction, error) {
	r.log.Debug("Setting reaction", "user", rec.UserID, "target", rec.Target(), "reaction", rec.Reaction)

	rec.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction", "updated_at"}),
		}).
		Create(rec).Error
	if err != nil {
		r.log.Error("Failed to set reaction", "user", rec.UserID, "target", rec.Target(), "error", err)
		return nil, fmt.Errorf("failed to set reaction: %w", err)
	}

	// on conflict rec still carries the id generated for the insert
	stored, err := r.Get(ctx, rec.UserID, rec.Target())
	if err != nil {
		return nil, err
	}

	r.log.Info("Reaction set", "id", stored.ID, "target", stored.Target(), "reaction", stored.Reaction)
	return stored, nil
}

func (r *PostgresReactionRepository) Get(ctx context.Context, userID uuid.UUID, target reaction.Target) (*reaction.Reaction, error) {
	var rec reaction.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
		Take(&rec).Error
	if err != nil {
		return nil, translate(err, "reaction")
	}
	return &rec, nil
}

func (r *PostgresReactionRepository) Delete(ctx context.Context, userID uuid.UUID, target reaction.Target) error {
	r.log.Debug("Removing reaction", "user", userID, "target", target)

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
		Delete(&reaction.Reaction{})
	if result.Error != nil {
		r.log.Error("Failed to remove reaction", "user", userID, "target", target, "error", result.Error)
		return fmt.Errorf("failed to remove reaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "reaction")
	}

	r.log.Info("Reaction removed", "user", userID, "target", target)
	return nil
}

func (r *PostgresReactionRepository) Count(ctx context.Context, target reaction.Target, kind reaction.Kind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&reaction.Reaction{}).
		Where("target_type = ? AND target_id = ? AND reaction = ?", target.Type, target.ID, kind).
		Count(&count).Error
	if err != nil {
		r.log.Error("Failed to count reactions", "target", target, "reaction", kind, "error", err)
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return count, nil
}

// CountByKind returns the counts of every kind on the target in one query
func (r *PostgresReactionRepository) CountByKind(ctx context.Context, target reaction.Target) (map[reaction.Kind]int64, error) {
	var rows []struct {
		Reaction reaction.Kind
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&reaction.Reaction{}).
		Select("reaction, COUNT(*) AS total").
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Group("reaction").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("Failed to summarize reactions", "target", target, "error", err)
		return nil, fmt.Errorf("failed to summarize reactions: %w", err)
	}

	counts := map[reaction.Kind]int64{reaction.Like: 0, reaction.Dislike: 0}
	for _, row := range rows {
		counts[row.Reaction] = row.Total
	}
	return counts, nil
}
