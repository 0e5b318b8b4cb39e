// Package ordering implements dense, per-scope sibling ordering.
//
// Every function in this package is a pure in-memory computation.
// Writing the computed positions to storage is the caller's job.
package ordering

import (
	"errors"
	"slices"

	"github.com/learnhub/curriculum/internal/models"
)

// QuarantineFloor is the lowest position used for temporary values during a reorder.
// Live positions are always dense (0..n-1), so they stay far below it.
const QuarantineFloor = 100000

// ErrMemberNotInScope is returned when a moved or target id is not a member of the scope
var ErrMemberNotInScope = errors.New("member is not part of the scope")

// Move moves movedID to the index currently held by overID and returns the new order.
//
// Members between the two indexes shift by one towards the vacated index.
// Moving a member onto itself returns a copy of the input order.
// The input slice is never modified.
func Move(ids []int, movedID, overID int) ([]int, error) {
	from := slices.Index(ids, movedID)
	to := slices.Index(ids, overID)
	if from < 0 || to < 0 {
		return nil, ErrMemberNotInScope
	}
	return moveIndex(ids, from, to), nil
}

// MoveBefore places movedID directly before targetID
func MoveBefore(ids []int, movedID, targetID int) ([]int, error) {
	if slices.Index(ids, movedID) < 0 || slices.Index(ids, targetID) < 0 {
		return nil, ErrMemberNotInScope
	}
	if movedID == targetID {
		return slices.Clone(ids), nil
	}
	rest := slices.DeleteFunc(slices.Clone(ids), func(id int) bool { return id == movedID })
	at := slices.Index(rest, targetID)
	return slices.Insert(rest, at, movedID), nil
}

// MoveAfter places movedID directly after targetID
func MoveAfter(ids []int, movedID, targetID int) ([]int, error) {
	if slices.Index(ids, movedID) < 0 || slices.Index(ids, targetID) < 0 {
		return nil, ErrMemberNotInScope
	}
	if movedID == targetID {
		return slices.Clone(ids), nil
	}
	rest := slices.DeleteFunc(slices.Clone(ids), func(id int) bool { return id == movedID })
	at := slices.Index(rest, targetID)
	return slices.Insert(rest, at+1, movedID), nil
}

func moveIndex(ids []int, from, to int) []int {
	out := slices.Clone(ids)
	if from == to || len(out) < 2 {
		return out
	}
	id := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, id)
}

// Renumber assigns dense positions 0..n-1 following the given order
func Renumber(ids []int) []models.PositionAssignment {
	out := make([]models.PositionAssignment, len(ids))
	for i, id := range ids {
		out[i] = models.PositionAssignment{MemberID: id, Position: i}
	}
	return out
}

// Quarantine assigns positions base..base+n-1 following the given order
func Quarantine(ids []int, base int) []models.PositionAssignment {
	out := make([]models.PositionAssignment, len(ids))
	for i, id := range ids {
		out[i] = models.PositionAssignment{MemberID: id, Position: base + i}
	}
	return out
}

// QuarantineBase returns the first quarantine position that cannot collide with any
// position currently held in the scope, including values left behind by an interrupted reorder.
func QuarantineBase(current []models.OrderedMember) int {
	base := QuarantineFloor
	for _, m := range current {
		if m.Position >= base {
			base = m.Position + 1
		}
	}
	return base
}

// IDs returns the member ids of an ordered scope, in order
func IDs(members []models.OrderedMember) []int {
	out := make([]int, len(members))
	for i, m := range members {
		out[i] = m.MemberID
	}
	return out
}

// Sort orders members by position, breaking ties by member id
func Sort(members []models.OrderedMember) {
	slices.SortStableFunc(members, func(a, b models.OrderedMember) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return a.MemberID - b.MemberID
	})
}

// IsDense reports whether the assignments hold exactly the positions 0..n-1, each once
func IsDense(assignments []models.PositionAssignment) bool {
	seen := make([]bool, len(assignments))
	for _, a := range assignments {
		if a.Position < 0 || a.Position >= len(assignments) || seen[a.Position] {
			return false
		}
		seen[a.Position] = true
	}
	return true
}

// Changed reports whether the new order differs from the current one
func Changed(current, next []int) bool {
	return !slices.Equal(current, next)
}
