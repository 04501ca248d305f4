package service

import (
	"context"
	"time"

	"skilllink/course-platform/internal/domain"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *UserRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type CourseRepoMock struct {
	mock.Mock
}

func (m *CourseRepoMock) Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error) {
	args := m.Called(ctx, course)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *CourseRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepoMock) GetByInstructorID(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	args := m.Called(ctx, instructorID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepoMock) Update(ctx context.Context, course *domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

type SectionRepoMock struct {
	mock.Mock
}

func (m *SectionRepoMock) Create(ctx context.Context, section *domain.Section) (primitive.ObjectID, error) {
	args := m.Called(ctx, section)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *SectionRepoMock) GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Section, error) {
	args := m.Called(ctx, courseID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Section), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SectionRepoMock) CountByCourseID(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

type LessonRepoMock struct {
	mock.Mock
}

func (m *LessonRepoMock) CreateMany(ctx context.Context, lessons []domain.Lesson) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, lessons)
	if v := args.Get(0); v != nil {
		return v.([]primitive.ObjectID), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LessonRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Lesson), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LessonRepoMock) GetBySectionID(ctx context.Context, sectionID primitive.ObjectID) ([]domain.Lesson, error) {
	args := m.Called(ctx, sectionID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Lesson), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LessonRepoMock) GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Lesson, error) {
	args := m.Called(ctx, courseID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Lesson), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LessonRepoMock) SetVideoURL(ctx context.Context, id primitive.ObjectID, videoURL string) error {
	args := m.Called(ctx, id, videoURL)
	return args.Error(0)
}

type AssetRepoMock struct {
	mock.Mock
}

func (m *AssetRepoMock) Create(ctx context.Context, asset *domain.Asset) (primitive.ObjectID, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *AssetRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssetRepoMock) GetByLessonID(ctx context.Context, lessonID primitive.ObjectID) (*domain.Asset, error) {
	args := m.Called(ctx, lessonID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

type EnrollmentRepoMock struct {
	mock.Mock
}

func (m *EnrollmentRepoMock) Create(ctx context.Context, enrollment *domain.Enrollment) (primitive.ObjectID, error) {
	args := m.Called(ctx, enrollment)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *EnrollmentRepoMock) GetByCourseAndLearner(ctx context.Context, courseID, learnerID primitive.ObjectID) (*domain.Enrollment, error) {
	args := m.Called(ctx, courseID, learnerID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EnrollmentRepoMock) GetByLearnerID(ctx context.Context, learnerID primitive.ObjectID) ([]domain.Enrollment, error) {
	args := m.Called(ctx, learnerID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EnrollmentRepoMock) AddCompletedLesson(ctx context.Context, enrollmentID, lessonID primitive.ObjectID) error {
	args := m.Called(ctx, enrollmentID, lessonID)
	return args.Error(0)
}

// FileStorageMock records uploads so tests can assert on the exact keys.
type FileStorageMock struct {
	mock.Mock
}

func (m *FileStorageMock) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, objectKey, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *FileStorageMock) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, contentType, expires)
	return args.String(0), args.Error(1)
}

func (m *FileStorageMock) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *FileStorageMock) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}
