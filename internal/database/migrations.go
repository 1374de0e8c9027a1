package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate builds.
// Only runs against PostgreSQL; MySQL deployments rely on the tag-declared
// indexes alone.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"students", "idx_students_org_team", "organization, team_id"},
		{"students", "idx_students_org_department", "organization, department_id"},
		{"teams", "idx_teams_org_domain", "organization, domain"},
		{"interview_scores", "idx_interviews_org_student", "organization, student_id"},
		{"interview_scores", "idx_interviews_org_team", "organization, team_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
