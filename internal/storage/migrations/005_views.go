package migrations

import "gorm.io/gorm"

// migration005Up creates reporting views
func migration005Up(db *gorm.DB) error {
	views := []string{
		`CREATE OR REPLACE VIEW reaction_counts AS
        SELECT
            target_type,
            target_id,
            COUNT(*) FILTER (WHERE reaction = 'LIKE')    AS likes,
            COUNT(*) FILTER (WHERE reaction = 'DISLIKE') AS dislikes
        FROM reactions
        GROUP BY target_type, target_id`,

		`CREATE OR REPLACE VIEW opportunity_application_stats AS
        SELECT
            o.id AS opportunity_id,
            o.posted_by_id,
            COUNT(a.id) AS applications,
            COUNT(a.id) FILTER (WHERE a.status = 'PENDING')     AS pending,
            COUNT(a.id) FILTER (WHERE a.status = 'SHORTLISTED') AS shortlisted,
            COUNT(a.id) FILTER (WHERE a.status = 'ACCEPTED')    AS accepted
        FROM opportunities o
        LEFT JOIN applications a ON a.opportunity_id = o.id
        GROUP BY o.id, o.posted_by_id`,
	}

	for _, sql := range views {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration005Down drops reporting views
func migration005Down(db *gorm.DB) error {
	for _, view := range []string{"opportunity_application_stats", "reaction_counts"} {
		if err := db.Exec("DROP VIEW IF EXISTS " + view).Error; err != nil {
			return err
		}
	}
	return nil
}
