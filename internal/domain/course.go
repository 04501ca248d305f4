// internal/domain/course.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseStatus type for course lifecycle
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
)

// Course represents a single course authored by an instructor.
type Course struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstructorID primitive.ObjectID `bson:"instructorId" json:"instructorId"` // Link to the Instructor who owns this course
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`

	Category string `bson:"category,omitempty" json:"category,omitempty"` // e.g., "Programming", "Design"
	Level    string `bson:"level,omitempty" json:"level,omitempty"`       // e.g., "Beginner", "Intermediate", "Advanced"
	CoverURL string `bson:"coverUrl,omitempty" json:"coverUrl,omitempty"` // Optional cover image in object storage

	Status    CourseStatus `bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time    `bson:"updatedAt" json:"updatedAt"`
}
