// internal/domain/lesson.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonType distinguishes video lessons from text-only ones.
type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypeText  LessonType = "text"
)

// LessonStatus type for lesson lifecycle
type LessonStatus string

const (
	LessonStatusDraft     LessonStatus = "draft"
	LessonStatusPublished LessonStatus = "published"
)

// LessonResource is a supplementary file attached to a lesson (anything that is
// not the lesson's video, transcript, subtitle or instruction file).
type LessonResource struct {
	Name string `bson:"name" json:"name"`
	Type string `bson:"type" json:"type"` // File category, e.g. "image", "document"
	URL  string `bson:"url" json:"url"`
	Size int64  `bson:"size" json:"size"` // File size in bytes
}

// Lesson represents a unit of course content within a section.
// During bulk import it is inferred from the second path segment of uploaded files.
type Lesson struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID  primitive.ObjectID `bson:"courseId" json:"courseId"`   // Denormalized for easier queries
	SectionID primitive.ObjectID `bson:"sectionId" json:"sectionId"` // Link back to the section
	Title     string             `bson:"title" json:"title"`
	Type      LessonType         `bson:"type" json:"type"` // "video" if the lesson carries a video file, else "text"

	Duration       int              `bson:"duration" json:"duration"` // Video duration in seconds, 0 until known
	VideoURL       string           `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	TranscriptURL  string           `bson:"transcriptUrl,omitempty" json:"transcriptUrl,omitempty"`
	SubtitleURL    string           `bson:"subtitleUrl,omitempty" json:"subtitleUrl,omitempty"`
	InstructionURL string           `bson:"instructionUrl,omitempty" json:"instructionUrl,omitempty"`
	Resources      []LessonResource `bson:"resources,omitempty" json:"resources,omitempty"`

	Status     LessonStatus `bson:"status" json:"status"`
	OrderIndex int          `bson:"orderIndex" json:"orderIndex"` // Position within the section
	CreatedAt  time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time    `bson:"updatedAt" json:"updatedAt"`
}
