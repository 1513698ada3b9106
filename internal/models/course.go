package models

import "time"

// Course represents a course record for a term.
type Course struct {
	ID          string    `db:"id" json:"id"`
	TermID      string    `db:"term_id" json:"term_id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Credits     int       `db:"credits" json:"credits"`
	Split       string    `db:"session_split" json:"session_split"`
	Department  string    `db:"department" json:"department"`
	TeacherID   *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	MaxStudents int       `db:"max_students" json:"max_students"`
	Semester    int       `db:"semester" json:"semester"`
	Year        int       `db:"year" json:"year"`
	Category    string    `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
