package models

// ModuleSubject links a subject to a module at a given position
type ModuleSubject struct {
	ID        int `json:"id"`
	ModuleID  int `json:"moduleId"`
	SubjectID int `json:"subjectId"`
	Position  int `json:"position"`
}

// SubjectLesson is an unordered link between a subject and a lesson
type SubjectLesson struct {
	SubjectID int `json:"subjectId"`
	LessonID  int `json:"lessonId"`
}

// AssociateRequest represents a request to attach members to a scope
type AssociateRequest struct {
	IDs []int `json:"ids" example:"1,2,3"`
}

// AvailableItem represents an entity that can be attached to a scope
type AvailableItem struct {
	ID    int      `json:"id"`
	Type  NodeType `json:"type"`
	Title string   `json:"title"`
}
