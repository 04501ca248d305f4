package repository

import (
	"context"

	"skilllink/course-platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer (optional but good practice)
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// CourseRepository defines the interface for interacting with course data.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	GetByInstructorID(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
}

// SectionRepository defines the interface for interacting with section data.
type SectionRepository interface {
	Create(ctx context.Context, section *domain.Section) (primitive.ObjectID, error)
	GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Section, error)
	CountByCourseID(ctx context.Context, courseID primitive.ObjectID) (int64, error)
}

// LessonRepository defines the interface for interacting with lesson data.
type LessonRepository interface {
	// CreateMany inserts all lessons of one section as a single batched write.
	CreateMany(ctx context.Context, lessons []domain.Lesson) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error)
	GetBySectionID(ctx context.Context, sectionID primitive.ObjectID) ([]domain.Lesson, error)
	GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Lesson, error)
	SetVideoURL(ctx context.Context, id primitive.ObjectID, videoURL string) error
}

// AssetRepository defines the interface for interacting with asset metadata.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Asset, error)
	GetByLessonID(ctx context.Context, lessonID primitive.ObjectID) (*domain.Asset, error)
}

// EnrollmentRepository defines the interface for interacting with enrollment data.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) (primitive.ObjectID, error)
	GetByCourseAndLearner(ctx context.Context, courseID, learnerID primitive.ObjectID) (*domain.Enrollment, error)
	GetByLearnerID(ctx context.Context, learnerID primitive.ObjectID) ([]domain.Enrollment, error)
	AddCompletedLesson(ctx context.Context, enrollmentID, lessonID primitive.ObjectID) error
}
