package policy

import (
	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/domain/common"
	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
)

// Owner passes for the user in the record's user_id column.
func Owner[T common.Owned]() Rule[T] {
	return New("owner",
		func(viewer uuid.UUID, rec T) bool {
			return rec.OwnerID() == viewer
		},
		func(viewer uuid.UUID) clause.Expression {
			return clause.Eq{Column: column("user_id"), Value: viewer}
		},
	)
}

// Owned resources: readable and writable by their owner only.
var (
	UserSkillRead    = Owner[*skill.UserSkill]()
	UserSkillWrite   = UserSkillRead
	AchievementRead  = Owner[*profile.Achievement]()
	AchievementWrite = AchievementRead
	TimelineRead     = Owner[*profile.CareerTimeline]()
	TimelineWrite    = TimelineRead
	SubmissionRead   = Owner[*catalog.ChallengeSubmission]()
	SubmissionWrite  = SubmissionRead
)

// Projects.
//
// Read: PUBLIC, or owner, or CONNECTIONS and the viewer is a collaborator.
// Write: owner.
var (
	projectOwner = Owner[*profile.Project]()

	projectPublic = visibilityIs(profile.VisibilityPublic)

	projectConnections = visibilityIs(profile.VisibilityConnections)

	projectCollaborator = New("collaborator",
		func(viewer uuid.UUID, p *profile.Project) bool {
			return p.IsCollaborator(viewer)
		},
		func(viewer uuid.UUID) clause.Expression {
			return clause.Expr{
				SQL:  "EXISTS (SELECT 1 FROM project_collaborators pc WHERE pc.project_id = projects.id AND pc.user_id = ?)",
				Vars: []any{viewer},
			}
		},
	)

	ProjectRead  = Or(projectPublic, projectOwner, And(projectConnections, projectCollaborator))
	ProjectWrite = projectOwner
)

func visibilityIs(v profile.Visibility) Rule[*profile.Project] {
	return New("visibility="+v.String(),
		func(_ uuid.UUID, p *profile.Project) bool {
			return p.Visibility == v
		},
		func(uuid.UUID) clause.Expression {
			return clause.Eq{Column: column("visibility"), Value: v.String()}
		},
	)
}

// Opportunities.
//
// Listing shows active postings; a single fetch also lets the poster see an
// inactive one. Write: poster.
var (
	OpportunityActive = New("active",
		func(_ uuid.UUID, o *opportunity.Opportunity) bool {
			return o.IsActive
		},
		func(uuid.UUID) clause.Expression {
			return clause.Eq{Column: column("is_active"), Value: true}
		},
	)

	OpportunityPoster = New("poster",
		func(viewer uuid.UUID, o *opportunity.Opportunity) bool {
			return o.IsPoster(viewer)
		},
		func(viewer uuid.UUID) clause.Expression {
			return clause.Eq{Column: column("posted_by_id"), Value: viewer}
		},
	)

	OpportunityList  = OpportunityActive
	OpportunityRead  = Or(OpportunityActive, OpportunityPoster)
	OpportunityWrite = OpportunityPoster
)

// Applications.
//
// Read: applicant or the poster of the opportunity. Creation belongs to the
// applicant; status changes belong to the poster only. The poster half needs
// Opportunity loaded on the record.
var (
	ApplicationApplicant = New("applicant",
		func(viewer uuid.UUID, a *opportunity.Application) bool {
			return a.ApplicantID == viewer
		},
		func(viewer uuid.UUID) clause.Expression {
			return clause.Eq{Column: column("applicant_id"), Value: viewer}
		},
	)

	ApplicationPoster = New("opportunity poster",
		func(viewer uuid.UUID, a *opportunity.Application) bool {
			return a.Opportunity != nil && a.Opportunity.IsPoster(viewer)
		},
		func(viewer uuid.UUID) clause.Expression {
			return clause.Expr{
				SQL:  "EXISTS (SELECT 1 FROM opportunities o WHERE o.id = applications.opportunity_id AND o.posted_by_id = ?)",
				Vars: []any{viewer},
			}
		},
	)

	ApplicationRead        = Or(ApplicationApplicant, ApplicationPoster)
	ApplicationCreate      = ApplicationApplicant
	ApplicationStatusWrite = ApplicationPoster
	ApplicationDelete      = ApplicationApplicant
)

// Catalog: readable by everyone. Hosts, and the events and programs they run,
// are written by host administrators; competitions by their creator.
var (
	HostRead = Everyone[*catalog.Host]()

	HostWrite = New("host administrator",
		func(viewer uuid.UUID, h *catalog.Host) bool {
			return h.IsAdministrator(viewer)
		},
		func(viewer uuid.UUID) clause.Expression {
			return clause.Expr{
				SQL:  "EXISTS (SELECT 1 FROM host_administrators ha WHERE ha.host_id = hosts.id AND ha.user_id = ?)",
				Vars: []any{viewer},
			}
		},
	)

	EventRead       = Everyone[*catalog.Event]()
	ProgramRead     = Everyone[*catalog.Program]()
	CompetitionRead = Everyone[*catalog.Competition]()

	CompetitionWrite = New("creator",
		func(viewer uuid.UUID, c *catalog.Competition) bool {
			return c.CreatedByID == viewer
		},
		func(viewer uuid.UUID) clause.Expression {
			return clause.Eq{Column: column("created_by_id"), Value: viewer}
		},
	)
)
