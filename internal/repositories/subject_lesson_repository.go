package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/learnhub/curriculum/internal/models"
)

type subjectLessonRepository struct {
	db *sql.DB
}

// NewSubjectLessonRepository creates a new subject lesson repository
func NewSubjectLessonRepository(db *sql.DB) *subjectLessonRepository {
	return &subjectLessonRepository{
		db: db,
	}
}

// GetAll retrieves all subject lesson links
func (r *subjectLessonRepository) GetAll(ctx context.Context) ([]models.SubjectLesson, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subject_id, lesson_id FROM subject_lessons`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subject lessons: %w", err)
	}
	defer rows.Close()

	var links []models.SubjectLesson
	for rows.Next() {
		var link models.SubjectLesson
		if err := rows.Scan(&link.SubjectID, &link.LessonID); err != nil {
			return nil, fmt.Errorf("failed to scan subject lesson: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return links, nil
}

// GetLessonIDs retrieves ids of the lessons linked to a subject
func (r *subjectLessonRepository) GetLessonIDs(ctx context.Context, subjectID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT lesson_id FROM subject_lessons WHERE subject_id = ?`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subject lesson ids: %w", err)
	}
	return scanIDs(rows)
}

// Create links lessons to a subject in a single statement
func (r *subjectLessonRepository) Create(ctx context.Context, subjectID int, lessonIDs []int) error {
	if len(lessonIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(lessonIDs))
	args := make([]any, 0, len(lessonIDs)*2)
	for i, lessonID := range lessonIDs {
		placeholders[i] = "(?, ?)"
		args = append(args, subjectID, lessonID)
	}
	query := fmt.Sprintf(`
		INSERT INTO subject_lessons (subject_id, lesson_id)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create subject lessons: %w", err)
	}

	return nil
}

// Delete unlinks a lesson from a subject
func (r *subjectLessonRepository) Delete(ctx context.Context, subjectID, lessonID int) error {
	query := `DELETE FROM subject_lessons WHERE subject_id = ? AND lesson_id = ?`

	result, err := r.db.ExecContext(ctx, query, subjectID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to delete subject lesson: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subject lesson not found: %w", models.ErrNotFound)
	}

	return nil
}
