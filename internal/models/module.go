package models

// Module represents a section of a course, ordered by position within its course
type Module struct {
	ID          int    `json:"id"`
	CourseID    int    `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	Required    bool   `json:"required"`
}

// CreateModuleRequest represents a request to create a module.
// Position is assigned by the service and is never taken from the request.
type CreateModuleRequest struct {
	CourseID    int    `json:"courseId" example:"1"`
	Title       string `json:"title" example:"Fundamentals"`
	Description string `json:"description" example:"First steps"`
	Required    bool   `json:"required" example:"true"`
}
