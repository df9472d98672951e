package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/common"
	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

type reactionFixture struct {
	svc       *ReactionService
	reactions *fakeReactions
	public    *profile.Project
	private   *profile.Project
	owner     uuid.UUID
}

func newReactionFixture() *reactionFixture {
	owner := uuid.New()
	projects := newFakeStore("project", policy.ProjectRead, func(p *profile.Project) *uuid.UUID { return &p.ID })
	start := common.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	public := projects.put(profile.Project{UserID: owner, Title: "public", StartDate: start, Visibility: profile.VisibilityPublic})
	private := projects.put(profile.Project{UserID: owner, Title: "private", StartDate: start, Visibility: profile.VisibilityPrivate})

	reactions := newFakeReactions()
	registry := TargetRegistry{reaction.TargetProject: lookup[profile.Project](projects)}
	return &reactionFixture{
		svc:       NewReactionService(reactions, registry),
		reactions: reactions,
		public:    public,
		private:   private,
		owner:     owner,
	}
}

func projectTarget(id uuid.UUID) TargetRequest {
	return TargetRequest{TargetType: "project", TargetID: id}
}

func TestSetReaction_OnePerUserAndTarget(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()
	viewer := uuid.New()
	target := projectTarget(f.public.ID)

	first, err := f.svc.SetReaction(ctx, viewer, SetReactionRequest{TargetRequest: target, Reaction: "LIKE"})
	require.NoError(t, err)
	assert.Equal(t, reaction.Like, first.Reaction)

	_, err = f.svc.SetReaction(ctx, viewer, SetReactionRequest{TargetRequest: target, Reaction: "LIKE"})
	require.NoError(t, err)
	likes, err := f.svc.Count(ctx, viewer, target, reaction.Like)
	require.NoError(t, err)
	assert.EqualValues(t, 1, likes, "repeating the same kind leaves one row")

	second, err := f.svc.SetReaction(ctx, viewer, SetReactionRequest{TargetRequest: target, Reaction: "DISLIKE"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a different kind overwrites in place")
	assert.Len(t, f.reactions.rows, 1)

	likes, _ = f.svc.Count(ctx, viewer, target, reaction.Like)
	dislikes, _ := f.svc.Count(ctx, viewer, target, reaction.Dislike)
	assert.EqualValues(t, 0, likes)
	assert.EqualValues(t, 1, dislikes)
}

func TestSetReaction_Targets(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()
	viewer := uuid.New()

	_, err := f.svc.SetReaction(ctx, viewer, SetReactionRequest{
		TargetRequest: TargetRequest{TargetType: "user", TargetID: uuid.New()},
		Reaction:      "LIKE",
	})
	assert.Equal(t, apperr.KindInvalidTarget, apperr.KindOf(err))

	_, err = f.svc.SetReaction(ctx, viewer, SetReactionRequest{TargetRequest: projectTarget(f.private.ID), Reaction: "LIKE"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "unreadable projects cannot be reacted to")

	_, err = f.svc.SetReaction(ctx, viewer, SetReactionRequest{TargetRequest: projectTarget(uuid.New()), Reaction: "LIKE"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.svc.SetReaction(ctx, viewer, SetReactionRequest{TargetRequest: projectTarget(f.public.ID), Reaction: "LOVE"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.SetReaction(ctx, f.owner, SetReactionRequest{TargetRequest: projectTarget(f.private.ID), Reaction: "LIKE"})
	assert.NoError(t, err, "the owner reads their private project")
	assert.Len(t, f.reactions.rows, 1)
}

func TestSummaryAndRemove(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()
	target := projectTarget(f.public.ID)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	for viewer, kind := range map[uuid.UUID]string{alice: "LIKE", bob: "LIKE", carol: "DISLIKE"} {
		_, err := f.svc.SetReaction(ctx, viewer, SetReactionRequest{TargetRequest: target, Reaction: kind})
		require.NoError(t, err)
	}

	summary, err := f.svc.Summary(ctx, carol, target)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Likes)
	assert.EqualValues(t, 1, summary.Dislikes)
	require.NotNil(t, summary.Mine)
	assert.Equal(t, reaction.Dislike, *summary.Mine)

	require.NoError(t, f.svc.RemoveReaction(ctx, carol, target))
	err = f.svc.RemoveReaction(ctx, carol, target)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	summary, err = f.svc.Summary(ctx, carol, target)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.Dislikes)
	assert.Nil(t, summary.Mine)
}

func TestNewTargetRegistry_CoversEveryTargetType(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	registry := NewTargetRegistry(postgres.NewContainerWithDB(db))
	assert.Len(t, registry, len(reaction.TargetTypes))
	for _, tt := range reaction.TargetTypes {
		assert.Contains(t, registry, tt)
	}
}
