package models

// Test represents an assessment optionally linked to a single subject
type Test struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	SubjectID *int   `json:"subjectId,omitempty"`
}
