package models

// Course represents a top-level container of the curriculum
type Course struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
