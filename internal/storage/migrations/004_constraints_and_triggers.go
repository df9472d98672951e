package migrations

import "gorm.io/gorm"

var checkConstraints = []struct {
	table string
	name  string
	check string
}{
	{"user_skills", "chk_user_skills_proficiency", "proficiency BETWEEN 1 AND 4"},
	{"user_skills", "chk_user_skills_years", "years_experience >= 0"},
	{"user_skills", "chk_user_skills_verifier", "verified_by_id IS NULL OR verified_by_id <> user_id"},
	{"achievements", "chk_achievements_type", "achievement_type IN ('CERT', 'AWARD', 'PUBLICATION', 'PATENT', 'OTHER')"},
	{"projects", "chk_projects_visibility", "visibility IN ('PUBLIC', 'PRIVATE', 'CONNECTIONS')"},
	{"opportunities", "chk_opportunities_type", "opportunity_type IN ('JOB', 'INTERNSHIP', 'FREELANCE', 'CONTRACT', 'OTHER')"},
	{"applications", "chk_applications_status", "status IN ('PENDING', 'REVIEWING', 'SHORTLISTED', 'REJECTED', 'ACCEPTED')"},
	{"reactions", "chk_reactions_kind", "reaction IN ('LIKE', 'DISLIKE')"},
	{"reactions", "chk_reactions_target_type", "target_type IN ('project', 'achievement', 'career_timeline', 'opportunity', 'event', 'competition', 'program', 'challenge_submission')"},
	{"competitions", "chk_competitions_difficulty", "difficulty_level IN ('beginner', 'intermediate', 'advanced')"},
	{"challenge_submissions", "chk_submissions_description", "char_length(description) <= 5000"},
	{"users", "chk_users_bio", "char_length(bio) <= 250"},
}

// Database-side column defaults. The models carry no default tags, so zero
// values such as StatusPending or is_active=false are inserted as set.
var columnDefaults = []struct {
	table  string
	column string
	value  string
}{
	{"applications", "status", "'PENDING'"},
	{"projects", "visibility", "'PUBLIC'"},
	{"opportunities", "is_active", "TRUE"},
}

// migration004Up adds column defaults, check constraints and the application status guard
func migration004Up(db *gorm.DB) error {
	for _, d := range columnDefaults {
		sql := "ALTER TABLE " + d.table + " ALTER COLUMN " + d.column + " SET DEFAULT " + d.value
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}

	for _, c := range checkConstraints {
		sql := "ALTER TABLE " + c.table + " ADD CONSTRAINT " + c.name + " CHECK (" + c.check + ")"
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}

	statements := []string{
		`CREATE OR REPLACE FUNCTION guard_application_status()
        RETURNS TRIGGER AS $$
        BEGIN
            -- reviewed applications never go back to PENDING
            IF OLD.status <> 'PENDING' AND NEW.status = 'PENDING' THEN
                RAISE EXCEPTION 'application % cannot return to PENDING', OLD.id;
            END IF;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,

		`CREATE TRIGGER trg_guard_application_status
            BEFORE UPDATE OF status ON applications
            FOR EACH ROW EXECUTE FUNCTION guard_application_status()`,
	}
	for _, sql := range statements {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration004Down removes the trigger, the check constraints and the column defaults
func migration004Down(db *gorm.DB) error {
	if err := db.Exec("DROP TRIGGER IF EXISTS trg_guard_application_status ON applications").Error; err != nil {
		return err
	}
	if err := db.Exec("DROP FUNCTION IF EXISTS guard_application_status()").Error; err != nil {
		return err
	}
	for _, c := range checkConstraints {
		if err := db.Exec("ALTER TABLE " + c.table + " DROP CONSTRAINT IF EXISTS " + c.name).Error; err != nil {
			return err
		}
	}
	for _, d := range columnDefaults {
		if err := db.Exec("ALTER TABLE " + d.table + " ALTER COLUMN " + d.column + " DROP DEFAULT").Error; err != nil {
			return err
		}
	}
	return nil
}
