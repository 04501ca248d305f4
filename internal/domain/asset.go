package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset stores metadata about a file uploaded for a lesson,
// typically via the presigned-upload flow. The actual file resides in S3.
type Asset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LessonID     primitive.ObjectID `bson:"lessonId" json:"lessonId"`         // Link back to the lesson
	CourseID     primitive.ObjectID `bson:"courseId" json:"courseId"`         // Denormalized for easier queries
	InstructorID primitive.ObjectID `bson:"instructorId" json:"instructorId"` // Who uploaded it
	S3ObjectKey  string             `bson:"s3ObjectKey" json:"-"`             // The unique key (path/filename) in the S3 bucket - internal use
	FileName     string             `bson:"fileName" json:"fileName"`         // Original filename provided by the instructor
	ContentType  string             `bson:"contentType" json:"contentType"`   // MIME type (e.g., "video/mp4")
	Size         int64              `bson:"size" json:"size"`                 // File size in bytes
	UploadedAt   time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
