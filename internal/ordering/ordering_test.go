package ordering

import (
	"math/rand"
	"testing"

	"github.com/learnhub/curriculum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name          string
		ids           []int
		movedID       int
		overID        int
		expected      []int
		expectedError error
	}{
		{
			name:     "last member onto first",
			ids:      []int{1, 2, 3},
			movedID:  3,
			overID:   1,
			expected: []int{3, 1, 2},
		},
		{
			name:     "first member onto last",
			ids:      []int{1, 2, 3},
			movedID:  1,
			overID:   3,
			expected: []int{2, 3, 1},
		},
		{
			name:     "middle member down by one",
			ids:      []int{1, 2, 3, 4},
			movedID:  2,
			overID:   3,
			expected: []int{1, 3, 2, 4},
		},
		{
			name:     "onto itself",
			ids:      []int{1, 2, 3},
			movedID:  2,
			overID:   2,
			expected: []int{1, 2, 3},
		},
		{
			name:     "single member scope",
			ids:      []int{7},
			movedID:  7,
			overID:   7,
			expected: []int{7},
		},
		{
			name:          "moved member missing",
			ids:           []int{1, 2, 3},
			movedID:       9,
			overID:        1,
			expectedError: ErrMemberNotInScope,
		},
		{
			name:          "target member missing",
			ids:           []int{1, 2, 3},
			movedID:       1,
			overID:        9,
			expectedError: ErrMemberNotInScope,
		},
		{
			name:          "empty scope",
			ids:           nil,
			movedID:       1,
			overID:        2,
			expectedError: ErrMemberNotInScope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]int(nil), tt.ids...)

			result, err := Move(tt.ids, tt.movedID, tt.overID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
			assert.Equal(t, original, tt.ids, "input must not be modified")
		})
	}
}

func TestMoveBeforeAndAfter(t *testing.T) {
	ids := []int{10, 20, 30, 40}

	before, err := MoveBefore(ids, 40, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 40, 20, 30}, before)

	after, err := MoveAfter(ids, 10, 30)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 30, 10, 40}, after)

	after, err = MoveAfter(ids, 10, 40)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 30, 40, 10}, after)

	same, err := MoveBefore(ids, 30, 30)
	require.NoError(t, err)
	assert.Equal(t, ids, same)

	_, err = MoveAfter(ids, 10, 99)
	assert.ErrorIs(t, err, ErrMemberNotInScope)
}

func TestMove_RoundTrip(t *testing.T) {
	ids := []int{5, 6, 7, 8}

	moved, err := Move(ids, 5, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7, 8, 5}, moved)

	back, err := Move(moved, 5, 6)
	require.NoError(t, err)
	assert.Equal(t, ids, back)
}

func TestMove_RandomSequencesStayDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n <= 12; n++ {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = 100 + i
		}

		for step := 0; step < 200 && n > 0; step++ {
			moved := ids[rng.Intn(n)]
			over := ids[rng.Intn(n)]

			next, err := Move(ids, moved, over)
			require.NoError(t, err)
			require.Len(t, next, n)
			assert.ElementsMatch(t, ids, next)

			assignments := Renumber(next)
			assert.True(t, IsDense(assignments), "positions must be 0..n-1 after every move")
			ids = next
		}
	}
}

func TestRenumberAndQuarantine(t *testing.T) {
	ids := []int{3, 1, 2}

	assert.Equal(t, []models.PositionAssignment{
		{MemberID: 3, Position: 0},
		{MemberID: 1, Position: 1},
		{MemberID: 2, Position: 2},
	}, Renumber(ids))

	assert.Equal(t, []models.PositionAssignment{
		{MemberID: 3, Position: QuarantineFloor},
		{MemberID: 1, Position: QuarantineFloor + 1},
		{MemberID: 2, Position: QuarantineFloor + 2},
	}, Quarantine(ids, QuarantineFloor))

	assert.Empty(t, Renumber(nil))
}

func TestQuarantineBase(t *testing.T) {
	tests := []struct {
		name     string
		current  []models.OrderedMember
		expected int
	}{
		{
			name:     "empty scope",
			current:  nil,
			expected: QuarantineFloor,
		},
		{
			name: "dense scope",
			current: []models.OrderedMember{
				{MemberID: 1, Position: 0},
				{MemberID: 2, Position: 1},
			},
			expected: QuarantineFloor,
		},
		{
			name: "leaked quarantine values",
			current: []models.OrderedMember{
				{MemberID: 1, Position: 0},
				{MemberID: 2, Position: QuarantineFloor + 1},
				{MemberID: 3, Position: QuarantineFloor + 4},
			},
			expected: QuarantineFloor + 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuarantineBase(tt.current))
		})
	}
}

func TestIsDense(t *testing.T) {
	assert.True(t, IsDense(nil))
	assert.True(t, IsDense([]models.PositionAssignment{{MemberID: 1, Position: 1}, {MemberID: 2, Position: 0}}))
	assert.False(t, IsDense([]models.PositionAssignment{{MemberID: 1, Position: 0}, {MemberID: 2, Position: 0}}))
	assert.False(t, IsDense([]models.PositionAssignment{{MemberID: 1, Position: 0}, {MemberID: 2, Position: 2}}))
	assert.False(t, IsDense([]models.PositionAssignment{{MemberID: 1, Position: -1}}))
}

func TestSortAndIDs(t *testing.T) {
	members := []models.OrderedMember{
		{MemberID: 9, Position: 2},
		{MemberID: 4, Position: 0},
		{MemberID: 3, Position: 2},
	}

	Sort(members)

	assert.Equal(t, []int{4, 3, 9}, IDs(members))
}

func TestChanged(t *testing.T) {
	assert.False(t, Changed([]int{1, 2}, []int{1, 2}))
	assert.True(t, Changed([]int{1, 2}, []int{2, 1}))
}
