package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/common"
	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
	"github.com/gravadigital/orbitview-api/internal/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	logger.InitializeWithWriter(io.Discard, "error")

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), GormConfig(false))
	require.NoError(t, err)
	return db, mock
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"pgx", &pgconn.PgError{Code: "23505"}, true},
		{"pgx wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"lib/pq", &pq.Error{Code: "23505"}, true},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "project"))

	err := translate(gorm.ErrRecordNotFound, "project")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "project not found", apperr.MessageOf(err))

	err = translate(&pgconn.PgError{Code: "23505"}, "application")
	assert.True(t, apperr.Is(err, apperr.KindDuplicateConstraint))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translate(plain, "project"))
}

func TestReactionUpsert_OverwritesOnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReactionRepository(db)

	user := uuid.New()
	target := reaction.Target{Type: reaction.TargetProject, ID: uuid.New()}
	stored := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reactions" .* ON CONFLICT \("user_id","target_type","target_id"\) DO UPDATE SET "reaction"="excluded"."reaction","updated_at"="excluded"."updated_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "reactions" WHERE user_id = \$1 AND target_type = \$2 AND target_id = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "reaction", "created_at", "updated_at"}).
			AddRow(stored.String(), user.String(), "project", target.ID.String(), "DISLIKE", time.Now(), time.Now()))

	got, err := repo.Upsert(context.Background(), reaction.NewReaction(user, target, reaction.Dislike))
	require.NoError(t, err)
	assert.Equal(t, stored, got.ID)
	assert.Equal(t, reaction.Dislike, got.Reaction)
	assert.Equal(t, target, got.Target())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionDelete_MissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reactions" WHERE user_id = \$1 AND target_type = \$2 AND target_id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New(), reaction.Target{Type: reaction.TargetEvent, ID: uuid.New()})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionCountByKind_FillsMissingKinds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReactionRepository(db)

	mock.ExpectQuery(`SELECT reaction, COUNT\(\*\) AS total FROM "reactions" WHERE target_type = \$1 AND target_id = \$2 GROUP BY "reaction"`).
		WillReturnRows(sqlmock.NewRows([]string{"reaction", "total"}).AddRow("LIKE", 3))

	counts, err := repo.CountByKind(context.Background(), reaction.Target{Type: reaction.TargetProject, ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[reaction.Kind]int64{reaction.Like: 3, reaction.Dislike: 0}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkVerified_SecondVerifierLoses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresUserSkillRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "user_skills" SET .*"is_verified"=\$\d+.* WHERE id = \$\d+ AND is_verified = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.MarkVerified(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationUpdateStatus_MissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "applications" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), uuid.New(), opportunity.StatusAccepted)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunitySearch_FiltersInWhereClause(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresOpportunityRepository(db)
	remote := true

	where := `WHERE "opportunities"."is_active" = \$1 AND \(EXISTS \(SELECT 1 FROM opportunity_skills os JOIN skills s ON s.id = os.skill_id WHERE os.opportunity_id = opportunities.id AND s.slug = ANY\(\$2\)\)\) AND opportunity_type = \$3 AND is_remote = \$4`
	mock.ExpectQuery(`SELECT count\(\*\) FROM "opportunities" ` + where).
		WithArgs(true, pq.Array([]string{"go", "sql"}), opportunity.TypeJob, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "opportunities" ` + where + ` ORDER BY posted_date DESC LIMIT \$5`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	page, err := repo.Search(context.Background(), uuid.New(), OpportunityFilter{
		Skills: []string{"go", "sql"},
		Type:   opportunity.TypeJob,
		Remote: &remote,
	}, PaginationParams{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Results)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunitySearch_MineUsesPosterRule(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresOpportunityRepository(db)
	me := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "opportunities" WHERE "opportunities"."posted_by_id" = \$1`).
		WithArgs(me).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "opportunities" WHERE "opportunities"."posted_by_id" = \$1 ORDER BY posted_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Search(context.Background(), me, OpportunityFilter{Mine: true}, PaginationParams{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaginationParams_Normalize(t *testing.T) {
	p := PaginationParams{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = PaginationParams{Page: 3, PageSize: 500}.Normalize()
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}

func TestApplicationCreate_StoresPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresApplicationRepository(db)
	opp, applicant := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "applications" \("id","opportunity_id","applicant_id","status","applied_date","notes","updated_at"\) VALUES`).
		WithArgs(sqlmock.AnyArg(), opp, applicant, "PENDING", sqlmock.AnyArg(), "hello", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app := opportunity.NewApplication(opp, applicant, "hello")
	require.NoError(t, repo.Create(context.Background(), app))
	assert.Equal(t, opportunity.StatusPending, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationCreate_UniqueViolationIsDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "applications"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_applications_opportunity_applicant"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), opportunity.NewApplication(uuid.New(), uuid.New(), ""))
	assert.True(t, apperr.Is(err, apperr.KindDuplicateConstraint))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectCreate_StoresVisibility(t *testing.T) {
	for _, v := range []profile.Visibility{profile.VisibilityPublic, profile.VisibilityPrivate} {
		t.Run(v.String(), func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewPostgresProjectRepository(db)
			owner := uuid.New()

			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO "projects" \("id","user_id","title","description","start_date","end_date","is_ongoing","visibility","github_url","live_url","created_at","updated_at"\) VALUES`).
				WithArgs(sqlmock.AnyArg(), owner, "Telescope", "Optics", sqlmock.AnyArg(), nil, true, v.String(),
					sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			p := &profile.Project{
				UserID:      owner,
				Title:       "Telescope",
				Description: "Optics",
				StartDate:   common.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
				IsOngoing:   true,
				Visibility:  v,
			}
			require.NoError(t, repo.Create(context.Background(), p))
			assert.Equal(t, v, p.Visibility)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOpportunityCreate_KeepsInactive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresOpportunityRepository(db)
	poster := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "opportunities" \("id","title","organization","description","opportunity_type","location","is_remote","posted_by_id","posted_date","deadline","is_active","updated_at"\) VALUES`).
		WithArgs(sqlmock.AnyArg(), "Draft role", "Orbit", "Not yet", "JOB", "", false, poster,
			sqlmock.AnyArg(), nil, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o := &opportunity.Opportunity{
		Title:           "Draft role",
		Organization:    "Orbit",
		Description:     "Not yet",
		OpportunityType: opportunity.TypeJob,
		PostedByID:      poster,
		IsActive:        false,
	}
	require.NoError(t, repo.Create(context.Background(), o))
	assert.False(t, o.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserEnsure_ExistingIDIsKept(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresUserRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	u := user.NewUser(id, "ada", "ada@example.com")
	require.NoError(t, repo.Ensure(context.Background(), u))
	assert.Equal(t, "ada", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserEnsure_TakenUsernameIsDisambiguated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresUserRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 OR email = \$2`).
		WithArgs("alice", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(uuid.New().String(), "alice", "first-alice@example.com"))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := user.NewUser(id, "alice", "alice@example.com")
	require.NoError(t, repo.Ensure(context.Background(), u))
	assert.Equal(t, "alice-"+id.String()[:8], u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
