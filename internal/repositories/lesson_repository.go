package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learnhub/curriculum/internal/models"
	"go.uber.org/zap"
)

type lessonRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLessonRepository creates a new lesson repository.
// Besides lesson access it is the ordered relation of lessons under a module.
func NewLessonRepository(db *sql.DB, logger *zap.Logger) *lessonRepository {
	return &lessonRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves all lessons sorted by module and position
func (r *lessonRepository) GetAll(ctx context.Context) ([]models.Lesson, error) {
	query := `
		SELECT id, module_id, title, description, position
		FROM lessons
		ORDER BY module_id, position, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.ModuleID,
			&lesson.Title,
			&lesson.Description,
			&lesson.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// GetByID retrieves a lesson by its ID
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	query := `
		SELECT id, module_id, title, description, position
		FROM lessons
		WHERE id = ?
		LIMIT 1
	`

	var lesson models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.ModuleID,
		&lesson.Title,
		&lesson.Description,
		&lesson.Position,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lesson not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

// Create creates a new lesson at the position set on the model
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (module_id, title, description, position)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		lesson.ModuleID,
		lesson.Title,
		lesson.Description,
		lesson.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lesson.ID = int(id)
	return nil
}

// Delete deletes a lesson together with its subject links
func (r *lessonRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subject_lessons WHERE lesson_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete subject lessons: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("lesson not found: %w", models.ErrNotFound)
	}

	return nil
}

// Kind returns the relation ordered by this repository
func (r *lessonRepository) Kind() models.RelationKind {
	return models.RelationModuleLessons
}

// ListOrdered retrieves the lessons of a module with their positions
func (r *lessonRepository) ListOrdered(ctx context.Context, moduleID int) ([]models.OrderedMember, error) {
	query := `
		SELECT id, position, title
		FROM lessons
		WHERE module_id = ?
		ORDER BY position, id
	`

	rows, err := r.db.QueryContext(ctx, query, moduleID)
	if err != nil {
		r.logger.Error("failed to query ordered lessons", zap.Error(err), zap.Int("module_id", moduleID))
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}

	return scanOrdered(rows)
}

// SetPositions writes lesson positions within a module, one row at a time
func (r *lessonRepository) SetPositions(ctx context.Context, moduleID int, positions []models.PositionAssignment) error {
	query := `UPDATE lessons SET position = ? WHERE id = ? AND module_id = ?`
	return writePositions(ctx, r.db, r.logger, query, moduleID, directWrites(positions))
}

// NextPosition returns the position a new lesson of the module takes
func (r *lessonRepository) NextPosition(ctx context.Context, moduleID int) (int, error) {
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM lessons WHERE module_id = ? AND position < ?`
	return nextPosition(ctx, r.db, query, moduleID)
}
