//go:build integration
// +build integration

package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/config"
	"github.com/gravadigital/orbitview-api/internal/domain/common"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/services"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration ./cmd/api/

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	return cfg
}

func newServices(t *testing.T) *services.Services {
	t.Helper()

	container, err := postgres.NewContainer(testConfig())
	require.NoError(t, err, "Should be able to connect and migrate the test database")
	t.Cleanup(func() { container.Close() })

	return services.New(container)
}

func newUser(t *testing.T, svc *services.Services, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := svc.Users.Ensure(context.Background(), id, name+"-"+id.String()[:8], name+"-"+id.String()[:8]+"@example.com")
	require.NoError(t, err)
	return id
}

func TestDatabaseConnection(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close()

	assert.NoError(t, postgres.HealthCheck(db), "Should be able to ping the database")
}

func TestPrivateProjectIsInvisible(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	owner := newUser(t, svc, "owner")
	stranger := newUser(t, svc, "stranger")

	project, err := svc.Profiles.CreateProject(ctx, owner, services.ProjectRequest{
		Title:       "Private research",
		Description: "Only for me",
		StartDate:   common.NewDate(time.Now().AddDate(0, -1, 0)),
		IsOngoing:   true,
		Visibility:  "PRIVATE",
	})
	require.NoError(t, err)

	_, err = svc.Profiles.GetProject(ctx, stranger, project.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	page, err := svc.Profiles.ListProjects(ctx, stranger, postgres.PaginationParams{PageSize: 100})
	require.NoError(t, err)
	for _, p := range page.Results {
		assert.NotEqual(t, project.ID, p.ID)
	}

	got, err := svc.Profiles.GetProject(ctx, owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
}

func TestReactionUpsertKeepsOneRow(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	owner := newUser(t, svc, "author")
	fan := newUser(t, svc, "fan")

	project, err := svc.Profiles.CreateProject(ctx, owner, services.ProjectRequest{
		Title:       "Open source",
		Description: "Public work",
		StartDate:   common.NewDate(time.Now().AddDate(-1, 0, 0)),
		IsOngoing:   true,
		Visibility:  "PUBLIC",
	})
	require.NoError(t, err)

	target := services.TargetRequest{TargetType: string(reaction.TargetProject), TargetID: project.ID}
	first, err := svc.Reactions.SetReaction(ctx, fan, services.SetReactionRequest{TargetRequest: target, Reaction: "LIKE"})
	require.NoError(t, err)
	second, err := svc.Reactions.SetReaction(ctx, fan, services.SetReactionRequest{TargetRequest: target, Reaction: "DISLIKE"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	summary, err := svc.Reactions.Summary(ctx, owner, target)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Likes)
	assert.Equal(t, int64(1), summary.Dislikes)

	require.NoError(t, svc.Reactions.RemoveReaction(ctx, fan, target))
	err = svc.Reactions.RemoveReaction(ctx, fan, target)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestApplicationWorkflow(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	poster := newUser(t, svc, "poster")
	applicant := newUser(t, svc, "applicant")

	o, err := svc.Opportunities.CreateOpportunity(ctx, poster, services.OpportunityRequest{
		Title:           "Backend engineer",
		Organization:    "Orbit",
		Description:     "Build APIs",
		OpportunityType: "JOB",
		IsRemote:        true,
	})
	require.NoError(t, err)

	app, err := svc.Opportunities.Apply(ctx, applicant, o.ID, services.ApplyRequest{Notes: "Hi"})
	require.NoError(t, err)

	_, err = svc.Opportunities.Apply(ctx, applicant, o.ID, services.ApplyRequest{})
	assert.True(t, apperr.Is(err, apperr.KindAlreadyInState), "Second application should be AlreadyInState, got %v", err)

	_, err = svc.Opportunities.CreateApplication(ctx, applicant, services.CreateApplicationRequest{OpportunityID: o.ID})
	assert.True(t, apperr.Is(err, apperr.KindDuplicateConstraint), "Repeated create should be DuplicateConstraint, got %v", err)

	accepted := "ACCEPTED"
	_, err = svc.Opportunities.UpdateApplication(ctx, applicant, app.ID, services.UpdateApplicationRequest{Status: &accepted})
	assert.True(t, apperr.Is(err, apperr.KindPermissionDenied))

	updated, err := svc.Opportunities.UpdateApplication(ctx, poster, app.ID, services.UpdateApplicationRequest{Status: &accepted})
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", updated.Status.String())

	inactive := false
	draft, err := svc.Opportunities.CreateOpportunity(ctx, poster, services.OpportunityRequest{
		Title:           "Draft posting",
		Organization:    "Orbit",
		Description:     "Not open yet",
		OpportunityType: "INTERNSHIP",
		IsActive:        &inactive,
	})
	require.NoError(t, err)
	assert.False(t, draft.IsActive)

	_, err = svc.Opportunities.GetOpportunity(ctx, applicant, draft.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "Inactive postings are hidden from other users")
}
