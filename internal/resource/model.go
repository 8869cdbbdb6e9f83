package resource

import "time"

// Resource is a study material link shared by a teacher.
type Resource struct {
	ID          int       `db:"id" json:"id"`
	TeacherID   int       `db:"teacher_id" json:"teacher_id"`
	Title       string    `db:"title" json:"title"`
	Subject     string    `db:"subject" json:"subject"`
	URL         string    `db:"url" json:"url"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type ResourceWithTeacher struct {
	Resource
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

type CreateResourceRequest struct {
	Title       string `json:"title" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description"`
}

// Filter narrows the listing. Zero values mean "any".
type Filter struct {
	Subject   string
	TeacherID int
}
