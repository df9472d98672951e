package migrations

import (
	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

// AllModels returns every model in dependency order. The many2many join
// tables are created by AutoMigrate from the association tags.
func AllModels() []any {
	return []any{
		&user.User{},
		&skill.Skill{},
		&skill.UserSkill{},
		&profile.Achievement{},
		&profile.Project{},
		&profile.CareerTimeline{},
		&opportunity.Opportunity{},
		&opportunity.Application{},
		&reaction.Reaction{},
		&catalog.Category{},
		&catalog.SkillTag{},
		&catalog.Host{},
		&catalog.Event{},
		&catalog.Competition{},
		&catalog.Program{},
		&catalog.ChallengeSubmission{},
	}
}

// joinTables lists the many2many tables declared on the models
var joinTables = []string{
	"achievement_skills",
	"project_skills",
	"project_collaborators",
	"timeline_skills",
	"opportunity_skills",
	"host_administrators",
	"event_categories",
	"competition_tags",
	"competition_categories",
}
