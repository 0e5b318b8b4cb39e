package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learnhub/curriculum/internal/models"
	"go.uber.org/zap"
)

type moduleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewModuleRepository creates a new module repository.
// Besides module access it is the ordered relation of modules under a course.
func NewModuleRepository(db *sql.DB, logger *zap.Logger) *moduleRepository {
	return &moduleRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves modules sorted by course and position, optionally limited to one course
func (r *moduleRepository) GetAll(ctx context.Context, courseID *int) ([]models.Module, error) {
	var whereClause string
	var args []any
	if courseID != nil {
		whereClause = "WHERE course_id = ?"
		args = append(args, *courseID)
	}
	query := fmt.Sprintf(`
		SELECT id, course_id, title, description, position, required
		FROM modules
		%s
		ORDER BY course_id, position, id
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query modules", zap.Error(err))
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		var module models.Module
		err := rows.Scan(
			&module.ID,
			&module.CourseID,
			&module.Title,
			&module.Description,
			&module.Position,
			&module.Required,
		)
		if err != nil {
			r.logger.Error("failed to scan module", zap.Error(err))
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, module)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return modules, nil
}

// GetByID retrieves a module by its ID
func (r *moduleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	query := `
		SELECT id, course_id, title, description, position, required
		FROM modules
		WHERE id = ?
		LIMIT 1
	`

	var module models.Module
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Description,
		&module.Position,
		&module.Required,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("module not found: %w", models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to query module by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get module by id: %w", err)
	}

	return &module, nil
}

// Create creates a new module at the position set on the model
func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	query := `
		INSERT INTO modules (course_id, title, description, position, required)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		module.CourseID,
		module.Title,
		module.Description,
		module.Position,
		module.Required,
	)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	module.ID = int(id)
	return nil
}

// Delete deletes a module together with its subject associations.
// Associations are removed first so that none can point to a deleted module.
func (r *moduleRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM module_subjects WHERE module_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete module subjects: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("module not found: %w", models.ErrNotFound)
	}

	return nil
}

// Kind returns the relation ordered by this repository
func (r *moduleRepository) Kind() models.RelationKind {
	return models.RelationCourseModules
}

// ListOrdered retrieves the modules of a course with their positions
func (r *moduleRepository) ListOrdered(ctx context.Context, courseID int) ([]models.OrderedMember, error) {
	query := `
		SELECT id, position, title
		FROM modules
		WHERE course_id = ?
		ORDER BY position, id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		r.logger.Error("failed to query ordered modules", zap.Error(err), zap.Int("course_id", courseID))
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}

	return scanOrdered(rows)
}

// SetPositions writes module positions within a course, one row at a time
func (r *moduleRepository) SetPositions(ctx context.Context, courseID int, positions []models.PositionAssignment) error {
	query := `UPDATE modules SET position = ? WHERE id = ? AND course_id = ?`
	return writePositions(ctx, r.db, r.logger, query, courseID, directWrites(positions))
}

// NextPosition returns the position a new module of the course takes
func (r *moduleRepository) NextPosition(ctx context.Context, courseID int) (int, error) {
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM modules WHERE course_id = ? AND position < ?`
	return nextPosition(ctx, r.db, query, courseID)
}
