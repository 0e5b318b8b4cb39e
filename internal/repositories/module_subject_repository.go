package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/learnhub/curriculum/internal/models"
	"go.uber.org/zap"
)

type moduleSubjectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewModuleSubjectRepository creates a new module subject repository.
// It is the ordered relation of subjects under a module; members are subject ids.
func NewModuleSubjectRepository(db *sql.DB, logger *zap.Logger) *moduleSubjectRepository {
	return &moduleSubjectRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves module subject associations sorted by module and position.
// If courseID is not nil only associations of that course's modules are returned.
func (r *moduleSubjectRepository) GetAll(ctx context.Context, courseID *int) ([]models.ModuleSubject, error) {
	var whereClause string
	var args []any
	if courseID != nil {
		whereClause = "WHERE module_id IN (SELECT id FROM modules WHERE course_id = ?)"
		args = append(args, *courseID)
	}
	query := fmt.Sprintf(`
		SELECT id, module_id, subject_id, position
		FROM module_subjects
		%s
		ORDER BY module_id, position, id
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query module subjects: %w", err)
	}
	defer rows.Close()

	var associations []models.ModuleSubject
	for rows.Next() {
		var ms models.ModuleSubject
		if err := rows.Scan(&ms.ID, &ms.ModuleID, &ms.SubjectID, &ms.Position); err != nil {
			return nil, fmt.Errorf("failed to scan module subject: %w", err)
		}
		associations = append(associations, ms)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return associations, nil
}

// GetSubjectIDs retrieves ids of the subjects attached to a module
func (r *moduleSubjectRepository) GetSubjectIDs(ctx context.Context, moduleID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subject_id FROM module_subjects WHERE module_id = ?`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query module subject ids: %w", err)
	}
	return scanIDs(rows)
}

// Create inserts associations in a single statement
func (r *moduleSubjectRepository) Create(ctx context.Context, associations []models.ModuleSubject) error {
	if len(associations) == 0 {
		return nil
	}

	placeholders := make([]string, len(associations))
	args := make([]any, 0, len(associations)*3)
	for i, ms := range associations {
		placeholders[i] = "(?, ?, ?)"
		args = append(args, ms.ModuleID, ms.SubjectID, ms.Position)
	}
	query := fmt.Sprintf(`
		INSERT INTO module_subjects (module_id, subject_id, position)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create module subjects: %w", err)
	}

	return nil
}

// Delete removes a subject from a module without deleting the subject
func (r *moduleSubjectRepository) Delete(ctx context.Context, moduleID, subjectID int) error {
	query := `DELETE FROM module_subjects WHERE module_id = ? AND subject_id = ?`

	result, err := r.db.ExecContext(ctx, query, moduleID, subjectID)
	if err != nil {
		return fmt.Errorf("failed to delete module subject: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("module subject not found: %w", models.ErrNotFound)
	}

	return nil
}

// Kind returns the relation ordered by this repository
func (r *moduleSubjectRepository) Kind() models.RelationKind {
	return models.RelationModuleSubjects
}

// ListOrdered retrieves the subjects of a module with their association positions
func (r *moduleSubjectRepository) ListOrdered(ctx context.Context, moduleID int) ([]models.OrderedMember, error) {
	query := `
		SELECT ms.subject_id, ms.position, s.name
		FROM module_subjects ms
		JOIN subjects s ON s.id = ms.subject_id
		WHERE ms.module_id = ?
		ORDER BY ms.position, ms.id
	`

	rows, err := r.db.QueryContext(ctx, query, moduleID)
	if err != nil {
		r.logger.Error("failed to query ordered module subjects", zap.Error(err), zap.Int("module_id", moduleID))
		return nil, fmt.Errorf("failed to query module subjects: %w", err)
	}

	return scanOrdered(rows)
}

// SetPositions writes subject positions within a module.
//
// The same subject can be attached to several modules, so subject ids are resolved
// to association row ids of this module before anything is written.
func (r *moduleSubjectRepository) SetPositions(ctx context.Context, moduleID int, positions []models.PositionAssignment) error {
	rowIDs, err := r.associationIDs(ctx, moduleID)
	if err != nil {
		return err
	}

	writes := make([]positionWrite, len(positions))
	for i, p := range positions {
		rowID, ok := rowIDs[p.MemberID]
		if !ok {
			return fmt.Errorf("subject %d is not part of module %d: %w", p.MemberID, moduleID, models.ErrNotFound)
		}
		writes[i] = positionWrite{rowID: rowID, memberID: p.MemberID, position: p.Position}
	}

	query := `UPDATE module_subjects SET position = ? WHERE id = ? AND module_id = ?`
	return writePositions(ctx, r.db, r.logger, query, moduleID, writes)
}

// NextPosition returns the position a newly attached subject of the module takes
func (r *moduleSubjectRepository) NextPosition(ctx context.Context, moduleID int) (int, error) {
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM module_subjects WHERE module_id = ? AND position < ?`
	return nextPosition(ctx, r.db, query, moduleID)
}

// associationIDs maps subject id to association row id for a module
func (r *moduleSubjectRepository) associationIDs(ctx context.Context, moduleID int) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, subject_id FROM module_subjects WHERE module_id = ?`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query module subject rows: %w", err)
	}
	defer rows.Close()

	ids := make(map[int]int)
	for rows.Next() {
		var rowID, subjectID int
		if err := rows.Scan(&rowID, &subjectID); err != nil {
			return nil, fmt.Errorf("failed to scan module subject row: %w", err)
		}
		ids[subjectID] = rowID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}
