package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
)

func newSkillFixture() (*SkillService, *fakeSkills, *fakeUserSkills) {
	skills := newFakeSkills("Go", "PostgreSQL")
	userSkills := newFakeUserSkills()
	return NewSkillService(skills, userSkills), skills, userSkills
}

func TestCreateSkill_DerivesSlug(t *testing.T) {
	svc, _, _ := newSkillFixture()

	s, err := svc.CreateSkill(context.Background(), CreateSkillRequest{Name: " Machine Learning ", Category: "Data"})
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", s.Name)
	assert.Equal(t, "machine-learning", s.Slug)

	_, err = svc.CreateSkill(context.Background(), CreateSkillRequest{Name: "Go", Category: "Programming"})
	assert.Equal(t, apperr.KindDuplicateConstraint, apperr.KindOf(err))

	_, err = svc.CreateSkill(context.Background(), CreateSkillRequest{Name: "+++", Category: "Programming"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUserSkills_OwnerOnly(t *testing.T) {
	svc, skills, _ := newSkillFixture()
	owner := uuid.New()
	ctx := context.Background()

	us, err := svc.CreateUserSkill(ctx, owner, CreateUserSkillRequest{SkillID: skills.rows[0].ID, Proficiency: 3, YearsExperience: 2.5})
	require.NoError(t, err)
	assert.Equal(t, "Go", us.Skill.Name)

	_, err = svc.GetUserSkill(ctx, uuid.New(), us.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.UpdateUserSkill(ctx, uuid.New(), us.ID, UpdateUserSkillRequest{Proficiency: ptr(4)})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	updated, err := svc.UpdateUserSkill(ctx, owner, us.ID, UpdateUserSkillRequest{Proficiency: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, skill.Expert, updated.Proficiency)

	_, err = svc.CreateUserSkill(ctx, owner, CreateUserSkillRequest{SkillID: skills.rows[0].ID, Proficiency: 1})
	assert.Equal(t, apperr.KindDuplicateConstraint, apperr.KindOf(err))

	_, err = svc.CreateUserSkill(ctx, owner, CreateUserSkillRequest{SkillID: uuid.New(), Proficiency: 1})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, svc.DeleteUserSkill(ctx, owner, us.ID))
}

func TestVerifyUserSkill(t *testing.T) {
	svc, skills, userSkills := newSkillFixture()
	owner, verifier := uuid.New(), uuid.New()
	ctx := context.Background()

	us, err := svc.CreateUserSkill(ctx, owner, CreateUserSkillRequest{SkillID: skills.rows[1].ID, Proficiency: 2})
	require.NoError(t, err)

	_, err = svc.VerifyUserSkill(ctx, owner, us.ID)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err), "owners cannot verify themselves")

	verified, err := svc.VerifyUserSkill(ctx, verifier, us.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	require.NotNil(t, verified.VerifiedByID)
	assert.Equal(t, verifier, *verified.VerifiedByID)

	// once verified, everyone gets AlreadyInState, the owner included
	for _, viewer := range []uuid.UUID{uuid.New(), owner} {
		_, err = svc.VerifyUserSkill(ctx, viewer, us.ID)
		assert.Equal(t, apperr.KindAlreadyInState, apperr.KindOf(err))
	}

	stored, err := userSkills.Find(ctx, us.ID)
	require.NoError(t, err)
	assert.Equal(t, verifier, *stored.VerifiedByID)
}

func TestVerifyUserSkill_LostRace(t *testing.T) {
	svc, skills, userSkills := newSkillFixture()
	ctx := context.Background()

	us, err := svc.CreateUserSkill(ctx, uuid.New(), CreateUserSkillRequest{SkillID: skills.rows[0].ID, Proficiency: 1})
	require.NoError(t, err)

	userSkills.lostRace = true
	_, err = svc.VerifyUserSkill(ctx, uuid.New(), us.ID)
	assert.Equal(t, apperr.KindAlreadyInState, apperr.KindOf(err))
}

func TestVerifyUserSkill_Missing(t *testing.T) {
	svc, _, _ := newSkillFixture()

	_, err := svc.VerifyUserSkill(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
