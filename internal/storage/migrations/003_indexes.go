package migrations

import "gorm.io/gorm"

// Unique pairs (user_skills, applications, reactions) come from the model
// tags in 002. These are lookup indexes for the visibility filters.
var performanceIndexes = []struct {
	name string
	sql  string
}{
	{"idx_projects_owner_visibility", "CREATE INDEX IF NOT EXISTS idx_projects_owner_visibility ON projects(user_id, visibility)"},
	{"idx_project_collaborators_user", "CREATE INDEX IF NOT EXISTS idx_project_collaborators_user ON project_collaborators(user_id, project_id)"},
	{"idx_opportunities_active_posted", "CREATE INDEX IF NOT EXISTS idx_opportunities_active_posted ON opportunities(is_active, posted_date DESC)"},
	{"idx_opportunity_skills_skill", "CREATE INDEX IF NOT EXISTS idx_opportunity_skills_skill ON opportunity_skills(skill_id)"},
	{"idx_applications_opportunity_status", "CREATE INDEX IF NOT EXISTS idx_applications_opportunity_status ON applications(opportunity_id, status)"},
	{"idx_reactions_target_kind", "CREATE INDEX IF NOT EXISTS idx_reactions_target_kind ON reactions(target_type, target_id, reaction)"},
	{"idx_host_administrators_user", "CREATE INDEX IF NOT EXISTS idx_host_administrators_user ON host_administrators(user_id)"},
	{"idx_submissions_competition", "CREATE INDEX IF NOT EXISTS idx_submissions_competition ON challenge_submissions(competition_id, user_id)"},
	{"idx_competitions_dates", "CREATE INDEX IF NOT EXISTS idx_competitions_dates ON competitions(start_date, end_date)"},
}

// migration003Up creates performance indexes
func migration003Up(db *gorm.DB) error {
	for _, index := range performanceIndexes {
		if err := db.Exec(index.sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration003Down drops performance indexes
func migration003Down(db *gorm.DB) error {
	for _, index := range performanceIndexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index.name).Error; err != nil {
			return err
		}
	}
	return nil
}
