package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment connects a Learner to a Course and tracks progress through it.
type Enrollment struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CourseID         primitive.ObjectID   `bson:"courseId" json:"courseId"`
	LearnerID        primitive.ObjectID   `bson:"learnerId" json:"learnerId"`
	EnrolledAt       time.Time            `bson:"enrolledAt" json:"enrolledAt"`
	CompletedLessons []primitive.ObjectID `bson:"completedLessons,omitempty" json:"completedLessons,omitempty"`
	LastAccessedAt   *time.Time           `bson:"lastAccessedAt,omitempty" json:"lastAccessedAt,omitempty"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}
