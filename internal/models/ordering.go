package models

// RelationKind identifies an ordered parent/child relation
type RelationKind string

const (
	// RelationCourseModules orders modules under a course (modules.position by course_id)
	RelationCourseModules RelationKind = "course-modules"
	// RelationModuleSubjects orders subjects under a module (module_subjects.position by module_id)
	RelationModuleSubjects RelationKind = "module-subjects"
	// RelationModuleLessons orders lessons under a module (lessons.position by module_id)
	RelationModuleLessons RelationKind = "module-lessons"
)

// MemberType returns the node type of the members ordered by the relation
func (k RelationKind) MemberType() NodeType {
	switch k {
	case RelationCourseModules:
		return NodeTypeModule
	case RelationModuleSubjects:
		return NodeTypeSubject
	case RelationModuleLessons:
		return NodeTypeLesson
	}
	return ""
}

// ScopeType returns the node type of the parent that defines the scope
func (k RelationKind) ScopeType() NodeType {
	switch k {
	case RelationCourseModules:
		return NodeTypeCourse
	case RelationModuleSubjects, RelationModuleLessons:
		return NodeTypeModule
	}
	return ""
}

// IsValid reports whether the relation kind is known
func (k RelationKind) IsValid() bool {
	return k.MemberType() != ""
}

// OrderedMember is a member of an ordered scope together with its current position
type OrderedMember struct {
	MemberID int    `json:"memberId"`
	Position int    `json:"position"`
	Title    string `json:"title,omitempty"`
}

// PositionAssignment is a position to be written for a member of a scope
type PositionAssignment struct {
	MemberID int `json:"memberId"`
	Position int `json:"position"`
}

// DragEvent is produced by the drag-and-drop input when an item is dropped onto another one
type DragEvent struct {
	ActiveID   int      `json:"activeId"`
	ActiveType NodeType `json:"activeType"`
	OverID     int      `json:"overId"`
	OverType   NodeType `json:"overType"`
}

// ReorderStatus is the display state of an ordered scope
type ReorderStatus struct {
	Saving bool    `json:"saving"`
	Error  *string `json:"error"`
	Order  []int   `json:"order"`
}

// ReorderResult describes the outcome of a completed reorder
type ReorderResult struct {
	Kind    RelationKind         `json:"kind"`
	ScopeID int                  `json:"scopeId"`
	Changed bool                 `json:"changed"`
	Order   []PositionAssignment `json:"order"`
}
