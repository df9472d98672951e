package migrations

import "gorm.io/gorm"

// migration006Up seeds the skill catalog and the event categories
func migration006Up(db *gorm.DB) error {
	skillsSQL := `
        INSERT INTO skills (id, name, category, slug) VALUES
            (uuid_generate_v4(), 'Go', 'Programming', 'go'),
            (uuid_generate_v4(), 'Python', 'Programming', 'python'),
            (uuid_generate_v4(), 'TypeScript', 'Programming', 'typescript'),
            (uuid_generate_v4(), 'PostgreSQL', 'Databases', 'postgresql'),
            (uuid_generate_v4(), 'Redis', 'Databases', 'redis'),
            (uuid_generate_v4(), 'Kubernetes', 'Infrastructure', 'kubernetes'),
            (uuid_generate_v4(), 'Machine Learning', 'Data', 'machine-learning'),
            (uuid_generate_v4(), 'Product Design', 'Design', 'product-design'),
            (uuid_generate_v4(), 'Public Speaking', 'Communication', 'public-speaking')
        ON CONFLICT (name) DO NOTHING
    `
	if err := db.Exec(skillsSQL).Error; err != nil {
		return err
	}

	categoriesSQL := `
        INSERT INTO categories (id, title) VALUES
            (uuid_generate_v4(), 'Hackathon'),
            (uuid_generate_v4(), 'Conference'),
            (uuid_generate_v4(), 'Workshop'),
            (uuid_generate_v4(), 'Meetup')
        ON CONFLICT (title) DO NOTHING
    `
	if err := db.Exec(categoriesSQL).Error; err != nil {
		return err
	}

	tagsSQL := `
        INSERT INTO skill_tags (id, name) VALUES
            (uuid_generate_v4(), 'algorithms'),
            (uuid_generate_v4(), 'web'),
            (uuid_generate_v4(), 'data-science')
        ON CONFLICT (name) DO NOTHING
    `
	return db.Exec(tagsSQL).Error
}

// migration006Down removes the seeded catalog rows
func migration006Down(db *gorm.DB) error {
	statements := []string{
		"DELETE FROM skill_tags WHERE name IN ('algorithms', 'web', 'data-science')",
		"DELETE FROM categories WHERE title IN ('Hackathon', 'Conference', 'Workshop', 'Meetup')",
		`DELETE FROM skills WHERE slug IN ('go', 'python', 'typescript', 'postgresql', 'redis',
            'kubernetes', 'machine-learning', 'product-design', 'public-speaking')`,
	}
	for _, sql := range statements {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}
