package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/learnhub/curriculum/internal/models"
)

type testRepository struct {
	db *sql.DB
}

// NewTestRepository creates a new test repository
func NewTestRepository(db *sql.DB) *testRepository {
	return &testRepository{
		db: db,
	}
}

// GetAll retrieves all tests sorted by title
func (r *testRepository) GetAll(ctx context.Context) ([]models.Test, error) {
	query := `
		SELECT id, title, subject_id
		FROM tests
		ORDER BY title, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	defer rows.Close()

	var tests []models.Test
	for rows.Next() {
		var test models.Test
		var subjectID sql.NullInt64
		if err := rows.Scan(&test.ID, &test.Title, &subjectID); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		if subjectID.Valid {
			id := int(subjectID.Int64)
			test.SubjectID = &id
		}
		tests = append(tests, test)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tests, nil
}

// AssignSubject points the given tests to a subject, detaching them from any previous one
func (r *testRepository) AssignSubject(ctx context.Context, subjectID int, testIDs []int) error {
	if len(testIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(testIDs))
	args := make([]any, 0, len(testIDs)+1)
	args = append(args, subjectID)
	for i, id := range testIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := fmt.Sprintf(`
		UPDATE tests
		SET subject_id = ?
		WHERE id IN (%s)
	`, strings.Join(placeholders, ","))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to assign tests to subject: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if int(rowsAffected) != len(testIDs) {
		return fmt.Errorf("some tests were not found: %w", models.ErrNotFound)
	}

	return nil
}

// ClearSubject detaches a test from the subject it currently belongs to
func (r *testRepository) ClearSubject(ctx context.Context, subjectID, testID int) error {
	query := `UPDATE tests SET subject_id = NULL WHERE id = ? AND subject_id = ?`

	result, err := r.db.ExecContext(ctx, query, testID, subjectID)
	if err != nil {
		return fmt.Errorf("failed to clear test subject: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("test not found in subject: %w", models.ErrNotFound)
	}

	return nil
}
