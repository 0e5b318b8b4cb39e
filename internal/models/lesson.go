package models

// Lesson represents a lesson owned by a module and ordered by position within it
type Lesson struct {
	ID          int    `json:"id"`
	ModuleID    int    `json:"moduleId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// CreateLessonRequest represents a request to create a lesson
type CreateLessonRequest struct {
	ModuleID    int    `json:"moduleId" example:"1"`
	Title       string `json:"title" example:"Introduction"`
	Description string `json:"description" example:"Welcome lesson"`
}
