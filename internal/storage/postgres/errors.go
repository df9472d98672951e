package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/apperr"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a unique index. It accepts
// gorm's translated error as well as raw pgx and lib/pq errors.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	var state interface{ SQLState() string }
	if errors.As(err, &state) {
		return state.SQLState() == uniqueViolation
	}
	return false
}

// translate maps storage errors to application errors
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.New(apperr.KindNotFound, entity+" not found", err)
	case IsUniqueViolation(err):
		return apperr.Duplicate(entity+" already exists", err)
	}
	return err
}
