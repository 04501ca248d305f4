package service

import (
	"context"
	"errors"
	"log"

	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/repository"
	"skilllink/course-platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAlreadyEnrolled    = errors.New("learner is already enrolled in this course")
	ErrNotEnrolled        = errors.New("learner is not enrolled in this course")
	ErrCourseNotPublished = errors.New("course is not published")
)

// EnrollmentDetails combines an enrollment with its course for dashboards.
type EnrollmentDetails struct {
	domain.Enrollment
	Course   *domain.Course `json:"course"`
	Progress float64        `json:"progress"` // 0..1 share of completed lessons
}

// --- Service Interface ---
type LearnerService interface {
	Enroll(ctx context.Context, learnerID, courseID primitive.ObjectID) (*domain.Enrollment, error)
	GetMyEnrollments(ctx context.Context, learnerID primitive.ObjectID) ([]EnrollmentDetails, error)
	GetCourseContent(ctx context.Context, learnerID, courseID primitive.ObjectID) ([]SectionContent, error)
	CompleteLesson(ctx context.Context, learnerID, lessonID primitive.ObjectID) error
}

// --- Service Implementation ---

// learnerService implements the LearnerService interface.
type learnerService struct {
	courseRepo     repository.CourseRepository
	sectionRepo    repository.SectionRepository
	lessonRepo     repository.LessonRepository
	assetRepo      repository.AssetRepository
	enrollmentRepo repository.EnrollmentRepository
	fileStorage    storage.FileStorage
}

// NewLearnerService creates a new instance of learnerService.
func NewLearnerService(
	courseRepo repository.CourseRepository,
	sectionRepo repository.SectionRepository,
	lessonRepo repository.LessonRepository,
	assetRepo repository.AssetRepository,
	enrollmentRepo repository.EnrollmentRepository,
	fileStorage storage.FileStorage,
) LearnerService {
	return &learnerService{
		courseRepo:     courseRepo,
		sectionRepo:    sectionRepo,
		lessonRepo:     lessonRepo,
		assetRepo:      assetRepo,
		enrollmentRepo: enrollmentRepo,
		fileStorage:    fileStorage,
	}
}

// Enroll registers a learner in a published course.
func (s *learnerService) Enroll(ctx context.Context, learnerID, courseID primitive.ObjectID) (*domain.Enrollment, error) {
	if learnerID == primitive.NilObjectID || courseID == primitive.NilObjectID {
		return nil, errors.New("learner ID and course ID are required")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.Status != domain.CourseStatusPublished {
		return nil, ErrCourseNotPublished
	}

	if _, err := s.enrollmentRepo.GetByCourseAndLearner(ctx, courseID, learnerID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	enrollment := &domain.Enrollment{CourseID: courseID, LearnerID: learnerID}
	enrollmentID, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	enrollment.ID = enrollmentID
	return enrollment, nil
}

// GetMyEnrollments retrieves the learner's enrollments enriched with course
// details and a completion ratio for the dashboard.
func (s *learnerService) GetMyEnrollments(ctx context.Context, learnerID primitive.ObjectID) ([]EnrollmentDetails, error) {
	if learnerID == primitive.NilObjectID {
		return nil, errors.New("learner ID cannot be nil")
	}

	enrollments, err := s.enrollmentRepo.GetByLearnerID(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	details := make([]EnrollmentDetails, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID)
		if err != nil {
			// A deleted course should not break the whole dashboard.
			log.Printf("WARN: Could not load course %s for enrollment %s: %v", enrollment.CourseID.Hex(), enrollment.ID.Hex(), err)
			continue
		}

		progress := 0.0
		lessons, err := s.lessonRepo.GetByCourseID(ctx, enrollment.CourseID)
		if err == nil && len(lessons) > 0 {
			progress = float64(len(enrollment.CompletedLessons)) / float64(len(lessons))
		}

		details = append(details, EnrollmentDetails{
			Enrollment: enrollment,
			Course:     course,
			Progress:   progress,
		})
	}
	return details, nil
}

// GetCourseContent returns the course structure for an enrolled learner.
// Video lessons uploaded via the presigned flow resolve their object key to a
// time-limited presigned download URL for the player.
func (s *learnerService) GetCourseContent(ctx context.Context, learnerID, courseID primitive.ObjectID) ([]SectionContent, error) {
	if _, err := s.enrollmentRepo.GetByCourseAndLearner(ctx, courseID, learnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotEnrolled
		}
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
		for i := range lessons {
			s.resolveVideoURL(ctx, &lessons[i])
		}
		content = append(content, SectionContent{Section: section, Lessons: lessons})
	}
	return content, nil
}

// resolveVideoURL swaps a lesson's stored object key for a presigned GET URL
// when the lesson's video came through the presigned upload flow. Lessons
// whose video was bulk-imported already carry a direct URL and are left alone.
func (s *learnerService) resolveVideoURL(ctx context.Context, lesson *domain.Lesson) {
	if lesson.Type != domain.LessonTypeVideo {
		return
	}

	asset, err := s.assetRepo.GetByLessonID(ctx, lesson.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: Could not load asset for lesson %s: %v", lesson.ID.Hex(), err)
		}
		return
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, asset.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Printf("WARN: Could not presign video for lesson %s: %v", lesson.ID.Hex(), err)
		return
	}
	lesson.VideoURL = url
}

// CompleteLesson records that the learner finished a lesson.
func (s *learnerService) CompleteLesson(ctx context.Context, learnerID, lessonID primitive.ObjectID) error {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	enrollment, err := s.enrollmentRepo.GetByCourseAndLearner(ctx, lesson.CourseID, learnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	return s.enrollmentRepo.AddCompletedLesson(ctx, enrollment.ID, lesson.ID)
}
