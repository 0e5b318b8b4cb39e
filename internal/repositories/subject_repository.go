package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learnhub/curriculum/internal/models"
)

type subjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *sql.DB) *subjectRepository {
	return &subjectRepository{
		db: db,
	}
}

// GetAll retrieves all subjects sorted by name
func (r *subjectRepository) GetAll(ctx context.Context) ([]models.Subject, error) {
	query := `
		SELECT id, name, code
		FROM subjects
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Code); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return subjects, nil
}

// ExistsByID checks if a subject with the given ID exists
func (r *subjectRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subjects WHERE id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check subject existence: %w", err)
	}

	return exists, nil
}

// Delete deletes a subject.
// Module and lesson links are removed and tests are detached before the subject row goes.
func (r *subjectRepository) Delete(ctx context.Context, id int) error {
	cleanup := []struct {
		query string
		what  string
	}{
		{`DELETE FROM module_subjects WHERE subject_id = ?`, "module subjects"},
		{`DELETE FROM subject_lessons WHERE subject_id = ?`, "subject lessons"},
		{`UPDATE tests SET subject_id = NULL WHERE subject_id = ?`, "subject tests"},
	}
	for _, c := range cleanup {
		if _, err := r.db.ExecContext(ctx, c.query, id); err != nil {
			return fmt.Errorf("failed to clean up %s: %w", c.what, err)
		}
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subject not found: %w", models.ErrNotFound)
	}

	return nil
}
