package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learnhub/curriculum/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// GetAll retrieves courses sorted by title.
// If courseID is not nil only that course is returned.
func (r *courseRepository) GetAll(ctx context.Context, courseID *int) ([]models.Course, error) {
	var whereClause string
	var args []any
	if courseID != nil {
		whereClause = "WHERE id = ?"
		args = append(args, *courseID)
	}
	query := fmt.Sprintf(`
		SELECT id, title
		FROM courses
		%s
		ORDER BY title, id
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Title); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// ExistsByID checks if a course with the given ID exists
func (r *courseRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}

	return exists, nil
}
