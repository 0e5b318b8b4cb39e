package models

import "strconv"

// NodeType represents the kind of entity a tree node stands for
type NodeType string

const (
	NodeTypeCourse  NodeType = "course"
	NodeTypeModule  NodeType = "module"
	NodeTypeSubject NodeType = "subject"
	NodeTypeLesson  NodeType = "lesson"
	NodeTypeTest    NodeType = "test"
)

// IsValid reports whether the node type is one of the known types
func (t NodeType) IsValid() bool {
	switch t {
	case NodeTypeCourse, NodeTypeModule, NodeTypeSubject, NodeTypeLesson, NodeTypeTest:
		return true
	}
	return false
}

// TreeNode represents a node of the assembled curriculum tree.
//
// Position and ScopeID are set only for nodes that belong to an ordered scope
// (modules, subjects within a module and lessons). ScopeID is the course or module
// the position is counted in. For a lesson it is the lesson's own module, which can
// differ from the module its parent subject is shown under.
type TreeNode struct {
	ID       int        `json:"id"`
	Type     NodeType   `json:"type"`
	Title    string     `json:"title"`
	ParentID *int       `json:"parentId,omitempty"`
	ScopeID  *int       `json:"scopeId,omitempty"`
	Position *int       `json:"position,omitempty"`
	Children []TreeNode `json:"children"`
}

// Key returns an identifier that is unique across all node types.
// Ids are only unique per table, so the type is part of the key.
func (n TreeNode) Key() string {
	return NodeKey(n.Type, n.ID)
}

// NodeKey builds the key of a node from its type and id
func NodeKey(t NodeType, id int) string {
	return string(t) + ":" + strconv.Itoa(id)
}
