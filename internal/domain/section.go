// internal/domain/section.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section is a top-level grouping of lessons within a course.
// During bulk import it is inferred from the first path segment of uploaded files.
type Section struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID   primitive.ObjectID `bson:"courseId" json:"courseId"` // Link back to the course
	Title      string             `bson:"title" json:"title"`
	OrderIndex int                `bson:"orderIndex" json:"orderIndex"` // Position within the course
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
