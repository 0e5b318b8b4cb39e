package models

// Subject represents a shared entity that may be linked to many modules
type Subject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
