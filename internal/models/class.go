package models

// ClassGroup represents a class (turma). Deleting one cascades to its
// students and their attendance entries.
type ClassGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
