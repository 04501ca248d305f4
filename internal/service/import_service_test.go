package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"testing"

	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/ingest"
	"skilllink/course-platform/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectKeyFor mirrors the importer's content-addressed key derivation.
func objectKeyFor(t *testing.T, folder, name string, raw []byte) string {
	t.Helper()
	sum := sha256.Sum256(raw)
	return folder + "/" + hex.EncodeToString(sum[:]) + strings.ToLower(path.Ext(name))
}

func importDesc(rel, content string) ingest.Descriptor {
	return ingest.Descriptor{
		Name:         path.Base(rel),
		RelativePath: rel,
		SizeBytes:    int64(len(content)),
		RawBytes:     []byte(content),
	}
}

type importFixture struct {
	courseRepo  *CourseRepoMock
	sectionRepo *SectionRepoMock
	lessonRepo  *LessonRepoMock
	fileStorage *FileStorageMock
	svc         ImportService

	courseID     primitive.ObjectID
	instructorID primitive.ObjectID
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	f := &importFixture{
		courseRepo:   new(CourseRepoMock),
		sectionRepo:  new(SectionRepoMock),
		lessonRepo:   new(LessonRepoMock),
		fileStorage:  new(FileStorageMock),
		courseID:     primitive.NewObjectID(),
		instructorID: primitive.NewObjectID(),
	}
	f.svc = NewImportService(f.courseRepo, f.sectionRepo, f.lessonRepo, f.fileStorage)
	return f
}

// expectCourse makes the target course resolvable and owned by the instructor.
func (f *importFixture) expectCourse() {
	f.courseRepo.On("GetByID", mock.Anything, f.courseID).Return(&domain.Course{
		ID:           f.courseID,
		InstructorID: f.instructorID,
		Title:        "Test Course",
		Status:       domain.CourseStatusDraft,
	}, nil)
}

func TestImport_CourseNotFound_NoStorageWrites(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	f.courseRepo.On("GetByID", mock.Anything, f.courseID).Return(nil, repository.ErrNotFound)

	report, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("intro/welcome/video.mp4", "bytes"),
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
	require.Nil(t, report)

	// Validation happens before any upload, so a 404 leaves no orphaned objects.
	f.fileStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.sectionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImport_AccessDenied(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	f.courseRepo.On("GetByID", mock.Anything, f.courseID).Return(&domain.Course{
		ID:           f.courseID,
		InstructorID: primitive.NewObjectID(), // someone else's course
	}, nil)

	_, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("intro/welcome/video.mp4", "bytes"),
	})
	require.ErrorIs(t, err, ErrCourseAccessDenied)
	f.fileStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImport_EmptyDescriptors(t *testing.T) {
	f := newImportFixture(t)
	_, err := f.svc.Import(context.Background(), f.courseID, f.instructorID, nil)
	require.ErrorIs(t, err, ingest.ErrEmptyUpload)
}

func TestImport_OnlyShallowPaths(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	// A path with fewer than two segments cannot be placed into a
	// section/lesson and must never reach storage or the database.
	_, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("loose-file.pdf", "pdf bytes"),
	})
	require.ErrorIs(t, err, ErrImportNothingToDo)
	f.fileStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.sectionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImport_OversizedFileRejectedNotUploaded(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	oversized := importDesc("intro/welcome/huge.mp4", "x")
	oversized.SizeBytes = 501 << 20 // over the video ceiling

	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(0), nil)
	f.sectionRepo.On("Create", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	f.lessonRepo.On("CreateMany", mock.Anything, mock.Anything).Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	report, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{oversized})
	require.NoError(t, err)

	f.fileStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	require.Equal(t, 1, report.Stats.FilesRejected)
	require.Zero(t, report.Stats.FilesUploaded)
	require.Len(t, report.Files, 1)
	require.Equal(t, FileStatusRejected, report.Files[0].Status)

	// A rejected file never receives a storage URL.
	require.Empty(t, report.Structure.Sections[0].Lessons[0].Files[0].StorageURL)
}

func TestImport_ContentAddressedKeys(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	var keys []string
	f.fileStorage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			keys = append(keys, args.String(1))
		}).
		Return("https://cdn.test/object", nil)
	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(0), nil)
	f.sectionRepo.On("Create", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	f.lessonRepo.On("CreateMany", mock.Anything, mock.Anything).Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	// Identical bytes under different names must map to the same object key.
	_, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("intro/welcome/first.mp4", "same bytes"),
		importDesc("intro/welcome/second.mp4", "same bytes"),
		importDesc("intro/welcome/third.mp4", "different bytes"),
	})
	require.NoError(t, err)

	require.Len(t, keys, 3)
	require.Equal(t, keys[0], keys[1])
	require.NotEqual(t, keys[0], keys[2])
	require.Contains(t, keys[0], "videos/")
	require.Contains(t, keys[0], ".mp4")
}

func TestImport_RepeatedPathUploadsEachOccurrence(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	var uploaded [][]byte
	f.fileStorage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			uploaded = append(uploaded, args.Get(2).([]byte))
		}).
		Return("https://cdn.test/object", nil)
	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(0), nil)
	f.sectionRepo.On("Create", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	f.lessonRepo.On("CreateMany", mock.Anything, mock.Anything).Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	// A ZIP can legally carry the same path twice with different bytes; each
	// occurrence must upload its own content, not a repeat of the first.
	report, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("intro/welcome/clip.mp4", "first revision"),
		importDesc("intro/welcome/clip.mp4", "second revision"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Stats.FilesUploaded)
	require.Len(t, uploaded, 2)
	require.Equal(t, []byte("first revision"), uploaded[0])
	require.Equal(t, []byte("second revision"), uploaded[1])
}

func TestImport_UploadFailureDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	bad := importDesc("intro/welcome/bad.mp4", "bad bytes")
	good := importDesc("intro/welcome/good.mp4", "good bytes")

	f.fileStorage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return key == objectKeyFor(t, "videos", "bad.mp4", bad.RawBytes)
	}), mock.Anything, mock.Anything).Return("", assert.AnError)
	f.fileStorage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.test/good", nil)
	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(0), nil)
	f.sectionRepo.On("Create", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	f.lessonRepo.On("CreateMany", mock.Anything, mock.Anything).Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	report, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{bad, good})
	require.NoError(t, err)
	require.Equal(t, 1, report.Stats.FilesFailed)
	require.Equal(t, 1, report.Stats.FilesUploaded)
}

func TestImport_LessonInsertFailureDoesNotShortCircuit(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	f.fileStorage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.test/o", nil)
	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(0), nil)

	firstSectionID := primitive.NewObjectID()
	secondSectionID := primitive.NewObjectID()
	f.sectionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Section) bool { return s.Title == "intro" })).
		Return(firstSectionID, nil)
	f.sectionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Section) bool { return s.Title == "advanced" })).
		Return(secondSectionID, nil)

	// The first section's lesson batch fails; the second must still be attempted.
	f.lessonRepo.On("CreateMany", mock.Anything, mock.MatchedBy(func(lessons []domain.Lesson) bool {
		return len(lessons) > 0 && lessons[0].SectionID == firstSectionID
	})).Return(nil, assert.AnError)
	f.lessonRepo.On("CreateMany", mock.Anything, mock.MatchedBy(func(lessons []domain.Lesson) bool {
		return len(lessons) > 0 && lessons[0].SectionID == secondSectionID
	})).Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	report, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("intro/welcome/a.mp4", "a"),
		importDesc("advanced/patterns/b.mp4", "b"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Stats.SectionsCreated)
	require.Equal(t, 1, report.Stats.LessonsCreated)
	f.lessonRepo.AssertNumberOfCalls(t, "CreateMany", 2)
}

func TestImport_SectionInsertFailureSkipsItsLessons(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	f.fileStorage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.test/o", nil)
	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(0), nil)

	f.sectionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Section) bool { return s.Title == "intro" })).
		Return(primitive.NilObjectID, assert.AnError)
	okSectionID := primitive.NewObjectID()
	f.sectionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Section) bool { return s.Title == "advanced" })).
		Return(okSectionID, nil)
	f.lessonRepo.On("CreateMany", mock.Anything, mock.Anything).Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	report, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("intro/welcome/a.mp4", "a"),
		importDesc("advanced/patterns/b.mp4", "b"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Stats.SectionsCreated)
	// Only the surviving section's lessons are attempted.
	f.lessonRepo.AssertNumberOfCalls(t, "CreateMany", 1)
	require.Equal(t, 1, report.Stats.LessonsCreated)
}

func TestImport_ScenarioVideoWithTranscript(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	f.fileStorage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.test/o", nil)
	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(0), nil)
	sectionID := primitive.NewObjectID()
	f.sectionRepo.On("Create", mock.Anything, mock.Anything).Return(sectionID, nil)

	var inserted []domain.Lesson
	f.lessonRepo.On("CreateMany", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]domain.Lesson)
		}).
		Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	report, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("intro/welcome/video.mp4", "video bytes"),
		importDesc("intro/welcome/notes.txt", "hello"),
	})
	require.NoError(t, err)

	require.Equal(t, 1, report.Stats.Sections)
	require.Equal(t, 1, report.Stats.Lessons)
	require.Equal(t, 2, report.Stats.Files)
	require.Equal(t, 2, report.Stats.FilesUploaded)

	require.Len(t, inserted, 1)
	lesson := inserted[0]
	require.Equal(t, "welcome", lesson.Title)
	require.Equal(t, domain.LessonTypeVideo, lesson.Type)
	require.Equal(t, domain.LessonStatusDraft, lesson.Status)
	require.Equal(t, sectionID, lesson.SectionID)
	require.NotEmpty(t, lesson.VideoURL)
	// The transcript lands in its own URL field, not in resources.
	require.NotEmpty(t, lesson.TranscriptURL)
	require.Empty(t, lesson.Resources)
}

func TestImport_OrderIndexContinuesAfterExistingSections(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.expectCourse()

	f.fileStorage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.test/o", nil)
	f.sectionRepo.On("CountByCourseID", mock.Anything, f.courseID).Return(int64(3), nil)

	var created []*domain.Section
	f.sectionRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*domain.Section))
		}).
		Return(primitive.NewObjectID(), nil)
	f.lessonRepo.On("CreateMany", mock.Anything, mock.Anything).Return([]primitive.ObjectID{primitive.NewObjectID()}, nil)

	_, err := f.svc.Import(ctx, f.courseID, f.instructorID, []ingest.Descriptor{
		importDesc("one/l/a.mp4", "a"),
		importDesc("two/l/b.mp4", "b"),
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.Equal(t, 3, created[0].OrderIndex)
	require.Equal(t, 4, created[1].OrderIndex)
}
