package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
	"github.com/gravadigital/orbitview-api/internal/logger"
)

// PostgresUserRepository implements UserRepository using GORM
type PostgresUserRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:  db,
		log: logger.Repository("user"),
	}
}

// Ensure inserts the user unless a row with the same id already exists. When
// the username or email belongs to another identity the row is inserted with
// disambiguated values instead, so a claim collision never blocks sign-in.
func (r *PostgresUserRepository) Ensure(ctx context.Context, u *user.User) error {
	r.log.Debug("Ensuring user", "id", u.ID)

	created, err := r.insertIfAbsent(ctx, u)
	if err != nil || created {
		return err
	}

	exists, err := r.exists(ctx, u.ID)
	if err != nil || exists {
		return err
	}

	var holders []user.User
	err = r.db.WithContext(ctx).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Find(&holders).Error
	if err != nil {
		r.log.Error("Failed to look up conflicting users", "id", u.ID, "error", err)
		return fmt.Errorf("failed to look up conflicting users: %w", err)
	}

	var usernameTaken, emailTaken bool
	for _, h := range holders {
		usernameTaken = usernameTaken || h.Username == u.Username
		emailTaken = emailTaken || h.Email == u.Email
	}
	r.log.Warn("User claims collide with another identity",
		"id", u.ID, "username_taken", usernameTaken, "email_taken", emailTaken)
	u.Disambiguate(usernameTaken, emailTaken)

	created, err = r.insertIfAbsent(ctx, u)
	if err != nil {
		return err
	}
	if !created {
		return apperr.Duplicate("user already exists", nil)
	}
	return nil
}

// insertIfAbsent reports whether a row was written; any unique conflict skips the insert
func (r *PostgresUserRepository) insertIfAbsent(ctx context.Context, u *user.User) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(u)
	if result.Error != nil {
		r.log.Error("Failed to ensure user", "id", u.ID, "error", result.Error)
		return false, translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	r.log.Info("User provisioned", "id", u.ID, "username", u.Username)
	return true, nil
}

func (r *PostgresUserRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&user.User{}).Where(idEquals(id)).Count(&count).Error; err != nil {
		r.log.Error("Failed to check user", "id", id, "error", err)
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.log.Debug("Retrieving user by ID", "user_id", id)

	var u user.User
	if err := r.db.WithContext(ctx).Where(idEquals(id)).Take(&u).Error; err != nil {
		r.log.Debug("User not retrieved", "id", id, "error", err)
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *PostgresUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	users := make([]user.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		r.log.Error("Failed to get users by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u *user.User) error {
	r.log.Debug("Updating user", "id", u.ID)

	if err := u.Validate(); err != nil {
		r.log.Error("User validation failed", "error", err)
		return fmt.Errorf("user validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		r.log.Error("Failed to update user", "id", u.ID, "error", err)
		return translate(err, "user")
	}

	r.log.Info("User updated", "id", u.ID)
	return nil
}
