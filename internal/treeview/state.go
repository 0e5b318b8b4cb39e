// Package treeview holds the presentation state of a curriculum tree:
// which nodes are expanded, which one is selected and the active search.
//
// Nodes are addressed by their type-qualified key (see models.TreeNode.Key),
// since ids are only unique within one node type.
package treeview

import (
	"strings"

	"github.com/learnhub/curriculum/internal/models"
)

// Row is one line of a flattened tree ready to be rendered
type Row struct {
	Key         string          `json:"key"`
	Depth       int             `json:"depth"`
	Node        models.TreeNode `json:"node"`
	Expanded    bool            `json:"expanded"`
	HasChildren bool            `json:"hasChildren"`
	Selected    bool            `json:"selected"`
}

// State is the view state of one tree. The zero value is not usable, use NewState.
type State struct {
	expanded map[string]bool
	selected string
	query    string
}

// NewState creates a state with every node collapsed and nothing selected
func NewState() *State {
	return &State{expanded: make(map[string]bool)}
}

// IsExpanded reports whether the node with the given key is expanded
func (s *State) IsExpanded(key string) bool {
	return s.expanded[key]
}

// Toggle flips a node between expanded and collapsed
func (s *State) Toggle(key string) {
	if s.expanded[key] {
		delete(s.expanded, key)
		return
	}
	s.expanded[key] = true
}

// Expand opens a node
func (s *State) Expand(key string) {
	s.expanded[key] = true
}

// Collapse closes a node
func (s *State) Collapse(key string) {
	delete(s.expanded, key)
}

// ExpandAll expands every node that has children
func (s *State) ExpandAll(nodes []models.TreeNode) {
	for _, n := range nodes {
		if len(n.Children) > 0 {
			s.expanded[n.Key()] = true
			s.ExpandAll(n.Children)
		}
	}
}

// CollapseAll closes every node
func (s *State) CollapseAll() {
	clear(s.expanded)
}

// Select marks a node as selected; an empty key clears the selection
func (s *State) Select(key string) {
	s.selected = key
}

// Selected returns the key of the selected node, empty when none is
func (s *State) Selected() string {
	return s.selected
}

// Query returns the query of the last Filter call
func (s *State) Query() string {
	return s.query
}

// Filter returns the part of the tree matching query.
//
// A node is kept when its title contains the query, ignoring case, or when one of its
// descendants does. Kept nodes are expanded so every match is visible.
// An empty query returns the tree unchanged.
func (s *State) Filter(nodes []models.TreeNode, query string) []models.TreeNode {
	s.query = strings.TrimSpace(query)
	if s.query == "" {
		return nodes
	}
	return s.filter(nodes, strings.ToLower(s.query))
}

func (s *State) filter(nodes []models.TreeNode, query string) []models.TreeNode {
	out := []models.TreeNode{}
	for _, n := range nodes {
		children := s.filter(n.Children, query)
		if !strings.Contains(strings.ToLower(n.Title), query) && len(children) == 0 {
			continue
		}
		n.Children = children
		s.expanded[n.Key()] = true
		out = append(out, n)
	}
	return out
}

// Visible flattens the tree into rows, descending only into expanded nodes
func (s *State) Visible(nodes []models.TreeNode) []Row {
	var rows []Row
	s.visit(nodes, 0, &rows)
	return rows
}

func (s *State) visit(nodes []models.TreeNode, depth int, rows *[]Row) {
	for _, n := range nodes {
		key := n.Key()
		row := Row{
			Key:         key,
			Depth:       depth,
			Node:        n,
			Expanded:    s.expanded[key],
			HasChildren: len(n.Children) > 0,
			Selected:    key == s.selected,
		}
		*rows = append(*rows, row)
		if row.Expanded && row.HasChildren {
			s.visit(n.Children, depth+1, rows)
		}
	}
}
