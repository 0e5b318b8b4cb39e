package treeview

import (
	"testing"

	"github.com/learnhub/curriculum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() []models.TreeNode {
	return []models.TreeNode{
		{
			ID: 1, Type: models.NodeTypeCourse, Title: "Mathematics",
			Children: []models.TreeNode{
				{
					ID: 1, Type: models.NodeTypeModule, Title: "Algebra",
					Children: []models.TreeNode{
						{
							ID: 1, Type: models.NodeTypeSubject, Title: "Equations",
							Children: []models.TreeNode{
								{ID: 1, Type: models.NodeTypeLesson, Title: "Linear equations", Children: []models.TreeNode{}},
								{ID: 1, Type: models.NodeTypeTest, Title: "Final exam", Children: []models.TreeNode{}},
							},
						},
					},
				},
				{ID: 2, Type: models.NodeTypeModule, Title: "Geometry", Children: []models.TreeNode{}},
			},
		},
		{ID: 2, Type: models.NodeTypeCourse, Title: "Physics", Children: []models.TreeNode{}},
	}
}

func keys(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key
	}
	return out
}

func TestState_ToggleExpandCollapse(t *testing.T) {
	s := NewState()

	assert.False(t, s.IsExpanded("course:1"))
	s.Toggle("course:1")
	assert.True(t, s.IsExpanded("course:1"))
	s.Toggle("course:1")
	assert.False(t, s.IsExpanded("course:1"))

	s.Expand("module:1")
	s.Expand("module:1")
	assert.True(t, s.IsExpanded("module:1"))
	s.Collapse("module:1")
	assert.False(t, s.IsExpanded("module:1"))
}

func TestState_KeysAreTypeQualified(t *testing.T) {
	s := NewState()
	s.Expand("course:1")

	assert.True(t, s.IsExpanded("course:1"))
	assert.False(t, s.IsExpanded("module:1"))
}

func TestState_Visible(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*State, []models.TreeNode)
		expected []string
	}{
		{
			name:     "collapsed shows roots only",
			setup:    func(*State, []models.TreeNode) {},
			expected: []string{"course:1", "course:2"},
		},
		{
			name: "one level expanded",
			setup: func(s *State, _ []models.TreeNode) {
				s.Expand("course:1")
			},
			expected: []string{"course:1", "module:1", "module:2", "course:2"},
		},
		{
			name: "collapsed ancestor hides expanded descendant",
			setup: func(s *State, _ []models.TreeNode) {
				s.Expand("module:1")
			},
			expected: []string{"course:1", "course:2"},
		},
		{
			name: "expand all",
			setup: func(s *State, nodes []models.TreeNode) {
				s.ExpandAll(nodes)
			},
			expected: []string{"course:1", "module:1", "subject:1", "lesson:1", "test:1", "module:2", "course:2"},
		},
		{
			name: "collapse all",
			setup: func(s *State, nodes []models.TreeNode) {
				s.ExpandAll(nodes)
				s.CollapseAll()
			},
			expected: []string{"course:1", "course:2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			nodes := sampleTree()
			tt.setup(s, nodes)

			assert.Equal(t, tt.expected, keys(s.Visible(nodes)))
		})
	}
}

func TestState_VisibleRowFlags(t *testing.T) {
	s := NewState()
	nodes := sampleTree()
	s.ExpandAll(nodes)
	s.Select("lesson:1")

	rows := s.Visible(nodes)

	require.Len(t, rows, 7)
	assert.Equal(t, 3, rows[3].Depth)
	assert.True(t, rows[3].Selected)
	assert.False(t, rows[3].HasChildren)
	assert.True(t, rows[0].Expanded)
	assert.True(t, rows[0].HasChildren)
	assert.False(t, rows[5].Expanded)
	assert.Equal(t, "lesson:1", s.Selected())
}

func TestState_Filter(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectedRows []string
	}{
		{
			name:         "match keeps and expands ancestors",
			query:        "linear",
			expectedRows: []string{"course:1", "module:1", "subject:1", "lesson:1"},
		},
		{
			name:         "case insensitive",
			query:        "GEOMETRY",
			expectedRows: []string{"course:1", "module:2"},
		},
		{
			name:         "root match without matching children",
			query:        "physics",
			expectedRows: []string{"course:2"},
		},
		{
			name:         "no match",
			query:        "chemistry",
			expectedRows: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()

			filtered := s.Filter(sampleTree(), tt.query)

			assert.Equal(t, tt.expectedRows, keys(s.Visible(filtered)))
		})
	}
}

func TestState_Filter_EmptyQuery(t *testing.T) {
	s := NewState()
	nodes := sampleTree()

	filtered := s.Filter(nodes, "  ")

	assert.Equal(t, nodes, filtered)
	assert.Empty(t, s.Query())
	assert.False(t, s.IsExpanded("course:1"))
}

func TestState_Filter_DoesNotModifyInput(t *testing.T) {
	s := NewState()
	nodes := sampleTree()

	s.Filter(nodes, "linear")

	assert.Equal(t, sampleTree(), nodes)
}
