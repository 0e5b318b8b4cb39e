package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learnhub/curriculum/internal/models"
	"github.com/learnhub/curriculum/internal/ordering"
	"go.uber.org/zap"
)

// positionWrite is a single position update addressed by table row id
type positionWrite struct {
	rowID    int
	memberID int
	position int
}

// writePositions applies position updates one statement at a time.
//
// The query must take the position, the row id and the scope id, in that order.
// Writing stops at the first failing statement; rows written before it keep their new values.
// A statement matching no row is a failure, as the row left the scope meanwhile.
func writePositions(ctx context.Context, db *sql.DB, logger *zap.Logger, query string, scopeID int, writes []positionWrite) error {
	for _, w := range writes {
		result, err := db.ExecContext(ctx, query, w.position, w.rowID, scopeID)
		if err != nil {
			logger.Error("failed to write position",
				zap.Error(err),
				zap.Int("scope_id", scopeID),
				zap.Int("member_id", w.memberID),
				zap.Int("position", w.position),
			)
			return fmt.Errorf("failed to set position %d for member %d: %w", w.position, w.memberID, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("member %d is not part of scope %d: %w", w.memberID, scopeID, models.ErrNotFound)
		}
	}

	return nil
}

// directWrites maps assignments for tables where the member id is the row id
func directWrites(positions []models.PositionAssignment) []positionWrite {
	writes := make([]positionWrite, len(positions))
	for i, p := range positions {
		writes[i] = positionWrite{rowID: p.MemberID, memberID: p.MemberID, position: p.Position}
	}
	return writes
}

// nextPosition returns max(live position)+1 in a scope, or 0 for an empty scope.
// Values left in the quarantine range by an interrupted reorder are ignored.
func nextPosition(ctx context.Context, db *sql.DB, query string, scopeID int) (int, error) {
	var next int
	err := db.QueryRowContext(ctx, query, scopeID, ordering.QuarantineFloor).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next position: %w", err)
	}
	return next, nil
}

// scanOrdered reads (member id, position, title) rows
func scanOrdered(rows *sql.Rows) ([]models.OrderedMember, error) {
	defer rows.Close()

	var members []models.OrderedMember
	for rows.Next() {
		var member models.OrderedMember
		if err := rows.Scan(&member.MemberID, &member.Position, &member.Title); err != nil {
			return nil, fmt.Errorf("failed to scan ordered member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return members, nil
}

// scanIDs reads single-column id rows
func scanIDs(rows *sql.Rows) ([]int, error) {
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}
