package service

import (
	"context"
	"errors"
	"log"
	"path"
	"strings"

	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/repository"
	"skilllink/course-platform/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseAccessDenied = errors.New("access denied to modify this course")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrValidationFailed   = errors.New("course validation failed")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrUploadConfirmError = errors.New("failed to confirm upload")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// SectionContent combines a section with its lessons for content views.
type SectionContent struct {
	domain.Section
	Lessons []domain.Lesson `json:"lessons"`
}

// --- Service Interface ---
type CourseService interface {
	CreateCourse(ctx context.Context, instructorID primitive.ObjectID, title, description, category, level string) (*domain.Course, error)
	GetCourseByID(ctx context.Context, courseID primitive.ObjectID) (*domain.Course, error)
	GetCoursesByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error)
	PublishCourse(ctx context.Context, instructorID, courseID primitive.ObjectID) (*domain.Course, error)
	GetCourseContent(ctx context.Context, courseID primitive.ObjectID) ([]SectionContent, error)

	// Presigned single-asset upload flow for lesson videos.
	RequestVideoUploadURL(ctx context.Context, instructorID, lessonID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmVideoUpload(ctx context.Context, instructorID, lessonID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.Lesson, error)
}

// --- Service Implementation ---

// courseService implements the CourseService interface.
type courseService struct {
	courseRepo  repository.CourseRepository
	sectionRepo repository.SectionRepository
	lessonRepo  repository.LessonRepository
	assetRepo   repository.AssetRepository
	fileStorage storage.FileStorage
}

// NewCourseService creates a new instance of courseService.
func NewCourseService(
	courseRepo repository.CourseRepository,
	sectionRepo repository.SectionRepository,
	lessonRepo repository.LessonRepository,
	assetRepo repository.AssetRepository,
	fileStorage storage.FileStorage,
) CourseService {
	return &courseService{
		courseRepo:  courseRepo,
		sectionRepo: sectionRepo,
		lessonRepo:  lessonRepo,
		assetRepo:   assetRepo,
		fileStorage: fileStorage,
	}
}

// CreateCourse handles the creation of a new course by an instructor.
func (s *courseService) CreateCourse(ctx context.Context, instructorID primitive.ObjectID, title, description, category, level string) (*domain.Course, error) {
	if title == "" {
		return nil, ErrValidationFailed
	}
	if instructorID == primitive.NilObjectID {
		return nil, errors.New("instructor ID is required to create a course")
	}

	course := &domain.Course{
		InstructorID: instructorID,
		Title:        title,
		Description:  description,
		Category:     category,
		Level:        level,
		Status:       domain.CourseStatusDraft,
	}

	courseID, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	// Fetch again to get timestamps populated by the repository layer.
	return s.courseRepo.GetByID(ctx, courseID)
}

// GetCourseByID retrieves a single course.
func (s *courseService) GetCourseByID(ctx context.Context, courseID primitive.ObjectID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// GetCoursesByInstructor retrieves all courses owned by an instructor.
func (s *courseService) GetCoursesByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	if instructorID == primitive.NilObjectID {
		return nil, errors.New("instructor ID cannot be nil")
	}
	return s.courseRepo.GetByInstructorID(ctx, instructorID)
}

// PublishCourse flips a draft course to published, enforcing ownership.
func (s *courseService) PublishCourse(ctx context.Context, instructorID, courseID primitive.ObjectID) (*domain.Course, error) {
	course, err := s.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrCourseAccessDenied
	}

	course.Status = domain.CourseStatusPublished
	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// GetCourseContent returns the sections of a course with their lessons,
// both in order_index order.
func (s *courseService) GetCourseContent(ctx context.Context, courseID primitive.ObjectID) ([]SectionContent, error) {
	if _, err := s.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	sections, err := s.sectionRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	content := make([]SectionContent, 0, len(sections))
	for _, section := range sections {
		lessons, err := s.lessonRepo.GetBySectionID(ctx, section.ID)
		if err != nil {
			return nil, err
		}
		content = append(content, SectionContent{Section: section, Lessons: lessons})
	}
	return content, nil
}

// === Presigned upload flow ===

// RequestVideoUploadURL generates a pre-signed URL for an instructor to upload
// a video for a lesson directly to object storage.
func (s *courseService) RequestVideoUploadURL(ctx context.Context, instructorID, lessonID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if instructorID == primitive.NilObjectID || lessonID == primitive.NilObjectID {
		return nil, errors.New("instructor ID and lesson ID are required")
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return nil, errors.New("invalid or missing video content type")
	}

	lesson, err := s.getOwnedLesson(ctx, instructorID, lessonID)
	if err != nil {
		return nil, err
	}

	// Unique key per upload attempt; confirm links it to the lesson.
	objectKey := path.Join("videos", lesson.ID.Hex(), uuid.NewString())

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmVideoUpload records asset metadata after the client finished the
// presigned PUT, and marks the lesson as a video lesson pointing at the key.
func (s *courseService) ConfirmVideoUpload(ctx context.Context, instructorID, lessonID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.Lesson, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required to confirm upload")
	}

	lesson, err := s.getOwnedLesson(ctx, instructorID, lessonID)
	if err != nil {
		return nil, err
	}

	// A re-upload supersedes the previous video; clean the old object up.
	// Best effort, the confirm must not fail over a stale object.
	if previous, err := s.assetRepo.GetByLessonID(ctx, lesson.ID); err == nil && previous.S3ObjectKey != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, previous.S3ObjectKey); err != nil {
			log.Printf("WARN: Could not delete superseded video object %s: %v", previous.S3ObjectKey, err)
		}
	}

	asset := &domain.Asset{
		LessonID:     lesson.ID,
		CourseID:     lesson.CourseID,
		InstructorID: instructorID,
		S3ObjectKey:  objectKey,
		FileName:     fileName,
		ContentType:  contentType,
		Size:         fileSize,
	}
	if _, err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, ErrUploadConfirmError
	}

	// The lesson stores the object key; playback resolves it to a
	// time-limited presigned URL on demand.
	if err := s.lessonRepo.SetVideoURL(ctx, lesson.ID, objectKey); err != nil {
		return nil, ErrUploadConfirmError
	}

	return s.lessonRepo.GetByID(ctx, lesson.ID)
}

// getOwnedLesson fetches a lesson and verifies the instructor owns its course.
func (s *courseService) getOwnedLesson(ctx context.Context, instructorID, lessonID primitive.ObjectID) (*domain.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrCourseAccessDenied
	}

	return lesson, nil
}
