package services

import (
	"context"
	"io"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

func TestMain(m *testing.M) {
	logger.InitializeWithWriter(io.Discard, "error")
	os.Exit(m.Run())
}

// fakeStore is an in-memory ScopedStore that applies the same read rule as the
// postgres repositories, so invisible rows are NotFound and never listed.
type fakeStore[T any] struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]T
	order   []uuid.UUID
	idOf    func(*T) *uuid.UUID
	read    policy.Rule[*T]
	hydrate func(*T)
	unique  func(a, b *T) bool
	entity  string
}

func newFakeStore[T any](entity string, read policy.Rule[*T], idOf func(*T) *uuid.UUID) *fakeStore[T] {
	return &fakeStore[T]{rows: map[uuid.UUID]T{}, idOf: idOf, read: read, entity: entity}
}

func (f *fakeStore[T]) Create(_ context.Context, rec *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unique != nil {
		for _, row := range f.rows {
			if f.unique(&row, rec) {
				return apperr.Duplicate(f.entity+" already exists", nil)
			}
		}
	}
	id := f.idOf(rec)
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	f.rows[*id] = *rec
	f.order = append(f.order, *id)
	return nil
}

// put stores rec as is, bypassing uniqueness
func (f *fakeStore[T]) put(rec T) *T {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.idOf(&rec)
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	f.rows[*id] = rec
	f.order = append(f.order, *id)
	return &rec
}

func (f *fakeStore[T]) load(id uuid.UUID) (*T, bool) {
	row, ok := f.rows[id]
	if !ok {
		return nil, false
	}
	if f.hydrate != nil {
		f.hydrate(&row)
	}
	return &row, true
}

func (f *fakeStore[T]) Get(_ context.Context, viewer, id uuid.UUID) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.load(id)
	if !ok || !f.read.Allows(viewer, rec) {
		return nil, apperr.NotFound(f.entity + " not found")
	}
	return rec, nil
}

func (f *fakeStore[T]) Find(_ context.Context, id uuid.UUID) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.load(id)
	if !ok {
		return nil, apperr.NotFound(f.entity + " not found")
	}
	return rec, nil
}

func (f *fakeStore[T]) listWhere(viewer uuid.UUID, rule policy.Rule[*T], keep func(*T) bool, params postgres.PaginationParams) *postgres.PaginatedResult[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	params = params.Normalize()
	var matched []T
	for _, id := range f.order {
		rec, ok := f.load(id)
		if !ok || !rule.Allows(viewer, rec) || (keep != nil && !keep(rec)) {
			continue
		}
		matched = append(matched, *rec)
	}

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)
	return &postgres.PaginatedResult[T]{
		Results:    slices.Clone(matched[start:end]),
		Total:      int64(total),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: (total + params.PageSize - 1) / params.PageSize,
	}
}

func (f *fakeStore[T]) List(_ context.Context, viewer uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[T], error) {
	return f.listWhere(viewer, f.read, nil, params), nil
}

func (f *fakeStore[T]) Update(_ context.Context, rec *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := *f.idOf(rec)
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound(f.entity + " not found")
	}
	f.rows[id] = *rec
	return nil
}

func (f *fakeStore[T]) Delete(_ context.Context, rec *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := *f.idOf(rec)
	delete(f.rows, id)
	f.order = slices.DeleteFunc(f.order, func(x uuid.UUID) bool { return x == id })
	return nil
}

func (f *fakeStore[T]) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeUsers struct {
	rows map[uuid.UUID]user.User
}

func newFakeUsers(users ...user.User) *fakeUsers {
	f := &fakeUsers{rows: map[uuid.UUID]user.User{}}
	for _, u := range users {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Ensure(_ context.Context, u *user.User) error {
	if existing, ok := f.rows[u.ID]; ok {
		*u = existing
		return nil
	}
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []uuid.UUID) ([]user.User, error) {
	out := []user.User{}
	for _, id := range ids {
		if u, ok := f.rows[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, u *user.User) error {
	f.rows[u.ID] = *u
	return nil
}

type fakeSkills struct {
	rows []skill.Skill
}

func newFakeSkills(names ...string) *fakeSkills {
	f := &fakeSkills{}
	for _, n := range names {
		f.rows = append(f.rows, skill.Skill{ID: uuid.New(), Name: n, Category: "Programming", Slug: skill.Slugify(n)})
	}
	return f
}

func (f *fakeSkills) Create(_ context.Context, s *skill.Skill) error {
	for _, row := range f.rows {
		if row.Name == s.Name || row.Slug == s.Slug {
			return apperr.Duplicate("skill already exists", nil)
		}
	}
	s.ID = uuid.New()
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeSkills) GetBySlug(_ context.Context, slug string) (*skill.Skill, error) {
	for _, row := range f.rows {
		if row.Slug == slug {
			return &row, nil
		}
	}
	return nil, apperr.NotFound("skill not found")
}

func (f *fakeSkills) GetByIDs(_ context.Context, ids []uuid.UUID) ([]skill.Skill, error) {
	out := []skill.Skill{}
	for _, row := range f.rows {
		if slices.Contains(ids, row.ID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeSkills) List(_ context.Context, filter postgres.SkillFilter, params postgres.PaginationParams) (*postgres.PaginatedResult[skill.Skill], error) {
	params = params.Normalize()
	out := []skill.Skill{}
	for _, row := range f.rows {
		if filter.Category == "" || row.Category == filter.Category {
			out = append(out, row)
		}
	}
	return &postgres.PaginatedResult[skill.Skill]{Results: out, Total: int64(len(out)), Page: params.Page, PageSize: params.PageSize, TotalPages: 1}, nil
}

func (f *fakeSkills) ids() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row.ID)
	}
	return out
}

type fakeUserSkills struct {
	*fakeStore[skill.UserSkill]
	// lostRace makes MarkVerified report another verifier winning
	lostRace bool
}

func newFakeUserSkills() *fakeUserSkills {
	store := newFakeStore("user skill", policy.UserSkillRead, func(us *skill.UserSkill) *uuid.UUID { return &us.ID })
	store.unique = func(a, b *skill.UserSkill) bool { return a.UserID == b.UserID && a.SkillID == b.SkillID }
	return &fakeUserSkills{fakeStore: store}
}

func (f *fakeUserSkills) MarkVerified(_ context.Context, id, verifier uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[id]
	if !ok || row.IsVerified || f.lostRace {
		return false, nil
	}
	row.IsVerified = true
	row.VerifiedByID = &verifier
	f.rows[id] = row
	return true, nil
}

type fakeOpportunities struct {
	*fakeStore[opportunity.Opportunity]
}

func newFakeOpportunities() *fakeOpportunities {
	return &fakeOpportunities{newFakeStore("opportunity", policy.OpportunityRead, func(o *opportunity.Opportunity) *uuid.UUID { return &o.ID })}
}

func (f *fakeOpportunities) Search(_ context.Context, viewer uuid.UUID, filter postgres.OpportunityFilter, params postgres.PaginationParams) (*postgres.PaginatedResult[opportunity.Opportunity], error) {
	rule := policy.OpportunityList
	if filter.Mine {
		rule = policy.OpportunityPoster
	}
	return f.listWhere(viewer, rule, func(o *opportunity.Opportunity) bool {
		if filter.Type != "" && o.OpportunityType != filter.Type {
			return false
		}
		return filter.Remote == nil || o.IsRemote == *filter.Remote
	}, params), nil
}

type fakeApplications struct {
	*fakeStore[opportunity.Application]
	statusWrites int
}

func newFakeApplications(opportunities *fakeOpportunities) *fakeApplications {
	store := newFakeStore("application", policy.ApplicationRead, func(a *opportunity.Application) *uuid.UUID { return &a.ID })
	store.unique = func(a, b *opportunity.Application) bool {
		return a.OpportunityID == b.OpportunityID && a.ApplicantID == b.ApplicantID
	}
	store.hydrate = func(a *opportunity.Application) {
		if o, ok := opportunities.rows[a.OpportunityID]; ok {
			a.Opportunity = &o
		}
	}
	return &fakeApplications{fakeStore: store}
}

func (f *fakeApplications) Search(_ context.Context, viewer uuid.UUID, filter postgres.ApplicationFilter, params postgres.PaginationParams) (*postgres.PaginatedResult[opportunity.Application], error) {
	return f.listWhere(viewer, policy.ApplicationRead, func(a *opportunity.Application) bool {
		if filter.OpportunityID != nil && a.OpportunityID != *filter.OpportunityID {
			return false
		}
		return filter.Status == nil || a.Status == *filter.Status
	}, params), nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id uuid.UUID, status opportunity.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("application not found")
	}
	row.Status = status
	f.rows[id] = row
	f.statusWrites++
	return nil
}

type fakeReactions struct {
	rows map[string]reaction.Reaction
}

func newFakeReactions() *fakeReactions {
	return &fakeReactions{rows: map[string]reaction.Reaction{}}
}

func reactionKey(userID uuid.UUID, target reaction.Target) string {
	return userID.String() + "/" + target.String()
}

func (f *fakeReactions) Upsert(_ context.Context, r *reaction.Reaction) (*reaction.Reaction, error) {
	key := reactionKey(r.UserID, r.Target())
	if existing, ok := f.rows[key]; ok {
		existing.Reaction = r.Reaction
		f.rows[key] = existing
		return &existing, nil
	}
	f.rows[key] = *r
	return r, nil
}

func (f *fakeReactions) Get(_ context.Context, userID uuid.UUID, target reaction.Target) (*reaction.Reaction, error) {
	r, ok := f.rows[reactionKey(userID, target)]
	if !ok {
		return nil, apperr.NotFound("reaction not found")
	}
	return &r, nil
}

func (f *fakeReactions) Delete(_ context.Context, userID uuid.UUID, target reaction.Target) error {
	key := reactionKey(userID, target)
	if _, ok := f.rows[key]; !ok {
		return apperr.NotFound("reaction not found")
	}
	delete(f.rows, key)
	return nil
}

func (f *fakeReactions) Count(_ context.Context, target reaction.Target, kind reaction.Kind) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.Target() == target && r.Reaction == kind {
			n++
		}
	}
	return n, nil
}

func (f *fakeReactions) CountByKind(ctx context.Context, target reaction.Target) (map[reaction.Kind]int64, error) {
	likes, _ := f.Count(ctx, target, reaction.Like)
	dislikes, _ := f.Count(ctx, target, reaction.Dislike)
	return map[reaction.Kind]int64{reaction.Like: likes, reaction.Dislike: dislikes}, nil
}

type fakeCategories struct {
	categories []catalog.Category
	tags       []catalog.SkillTag
}

func (f *fakeCategories) CreateCategory(_ context.Context, c *catalog.Category) error {
	c.ID = uuid.New()
	f.categories = append(f.categories, *c)
	return nil
}

func (f *fakeCategories) ListCategories(_ context.Context, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.Category], error) {
	return &postgres.PaginatedResult[catalog.Category]{Results: f.categories, Total: int64(len(f.categories))}, nil
}

func (f *fakeCategories) GetCategories(_ context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	out := []catalog.Category{}
	for _, c := range f.categories {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) CreateTag(_ context.Context, t *catalog.SkillTag) error {
	t.ID = uuid.New()
	f.tags = append(f.tags, *t)
	return nil
}

func (f *fakeCategories) ListTags(_ context.Context, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.SkillTag], error) {
	return &postgres.PaginatedResult[catalog.SkillTag]{Results: f.tags, Total: int64(len(f.tags))}, nil
}

func (f *fakeCategories) GetTags(_ context.Context, ids []uuid.UUID) ([]catalog.SkillTag, error) {
	out := []catalog.SkillTag{}
	for _, t := range f.tags {
		if slices.Contains(ids, t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeSubmissions struct {
	*fakeStore[catalog.ChallengeSubmission]
}

func (f *fakeSubmissions) ListByCompetition(_ context.Context, viewer, competitionID uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[catalog.ChallengeSubmission], error) {
	return f.listWhere(viewer, f.read, func(s *catalog.ChallengeSubmission) bool {
		return s.CompetitionID == competitionID
	}, params), nil
}
