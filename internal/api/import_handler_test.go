package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/ingest"
	"skilllink/course-platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportServiceMock struct {
	mock.Mock
}

func (m *ImportServiceMock) Import(ctx context.Context, courseID, instructorID primitive.ObjectID, descriptors []ingest.Descriptor) (*service.ImportReport, error) {
	args := m.Called(ctx, courseID, instructorID, descriptors)
	if report, ok := args.Get(0).(*service.ImportReport); ok {
		return report, args.Error(1)
	}
	return nil, args.Error(1)
}

// newImportRouter wires the bulk-upload route with auth faked by injecting the
// instructor directly into the request context.
func newImportRouter(t *testing.T, svc service.ImportService, instructorID primitive.ObjectID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewImportHandler(svc, 0)
	router.POST("/api/v1/courses/bulk-upload", func(c *gin.Context) {
		c.Set(ContextUserIDKey, instructorID.Hex())
		c.Set(ContextUserRoleKey, domain.RoleInstructor)
	}, handler.BulkUpload)
	return router
}

type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody(t *testing.T) *multipartBody {
	t.Helper()
	b := &multipartBody{}
	b.writer = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBody) field(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, b.writer.WriteField(name, value))
}

func (b *multipartBody) file(t *testing.T, key, filename string, content []byte) {
	t.Helper()
	part, err := b.writer.CreateFormFile(key, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
}

func (b *multipartBody) request(t *testing.T) *http.Request {
	t.Helper()
	require.NoError(t, b.writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses/bulk-upload", &b.buf)
	req.Header.Set("Content-Type", b.writer.FormDataContentType())
	return req
}

func zipOf(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestBulkUpload_MissingCourseID(t *testing.T) {
	svc := new(ImportServiceMock)
	router := newImportRouter(t, svc, primitive.NewObjectID())

	body := newMultipartBody(t)
	body.field(t, "uploadType", "zip")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "courseId is required")
	svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpload_NoFiles(t *testing.T) {
	svc := new(ImportServiceMock)
	router := newImportRouter(t, svc, primitive.NewObjectID())

	// uploadType omitted and no file parts at all.
	body := newMultipartBody(t)
	body.field(t, "courseId", primitive.NewObjectID().Hex())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "No files found in upload")
	svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpload_ZipModeWithoutArchive(t *testing.T) {
	svc := new(ImportServiceMock)
	router := newImportRouter(t, svc, primitive.NewObjectID())

	body := newMultipartBody(t)
	body.field(t, "courseId", primitive.NewObjectID().Hex())
	body.field(t, "uploadType", "zip")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "No ZIP file provided")
}

func TestBulkUpload_MalformedArchive(t *testing.T) {
	svc := new(ImportServiceMock)
	router := newImportRouter(t, svc, primitive.NewObjectID())

	body := newMultipartBody(t)
	body.field(t, "courseId", primitive.NewObjectID().Hex())
	body.field(t, "uploadType", "zip")
	body.file(t, "file", "course.zip", []byte("definitely not a zip"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "not a valid ZIP")
}

func TestBulkUpload_CourseNotFound(t *testing.T) {
	instructorID := primitive.NewObjectID()
	svc := new(ImportServiceMock)
	svc.On("Import", mock.Anything, mock.Anything, instructorID, mock.Anything).
		Return(nil, service.ErrCourseNotFound)
	router := newImportRouter(t, svc, instructorID)

	body := newMultipartBody(t)
	body.field(t, "courseId", primitive.NewObjectID().Hex())
	body.field(t, "uploadType", "zip")
	body.file(t, "file", "course.zip", zipOf(t, map[string][]byte{
		"Section 1/Lesson 1/video.mp4": []byte("frames"),
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Course not found")
}

func TestBulkUpload_ZipHappyPath(t *testing.T) {
	instructorID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	svc := new(ImportServiceMock)
	var received []ingest.Descriptor
	svc.On("Import", mock.Anything, courseID, instructorID, mock.Anything).
		Run(func(args mock.Arguments) {
			received = args.Get(3).([]ingest.Descriptor)
		}).
		Return(&service.ImportReport{
			Stats: service.ImportStats{Sections: 1, Lessons: 1, Files: 2, SectionsCreated: 1, LessonsCreated: 1, FilesUploaded: 2},
		}, nil)
	router := newImportRouter(t, svc, instructorID)

	body := newMultipartBody(t)
	body.field(t, "courseId", courseID.Hex())
	body.field(t, "uploadType", "zip")
	body.file(t, "file", "course.zip", zipOf(t, map[string][]byte{
		"Section 1/Lesson 1/video.mp4":      []byte("frames"),
		"Section 1/Lesson 1/transcript.txt": []byte("words"),
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, received, 2)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 2, resp.Stats.FilesUploaded)
}

func TestBulkUpload_FolderModeUsesFormKeysAsPaths(t *testing.T) {
	instructorID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	svc := new(ImportServiceMock)
	var received []ingest.Descriptor
	svc.On("Import", mock.Anything, courseID, instructorID, mock.Anything).
		Run(func(args mock.Arguments) {
			received = args.Get(3).([]ingest.Descriptor)
		}).
		Return(&service.ImportReport{}, nil)
	router := newImportRouter(t, svc, instructorID)

	body := newMultipartBody(t)
	body.field(t, "courseId", courseID.Hex())
	body.field(t, "uploadType", "folder")
	body.file(t, "Basics/Welcome/intro.mp4", "intro.mp4", []byte("frames"))
	body.file(t, "Basics/Welcome/notes.md", "notes.md", []byte("# notes"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, received, 2)
	paths := []string{received[0].RelativePath, received[1].RelativePath}
	require.ElementsMatch(t, []string{"Basics/Welcome/intro.mp4", "Basics/Welcome/notes.md"}, paths)
}

func TestBulkUpload_FolderModeKeepsArrivalOrder(t *testing.T) {
	instructorID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	svc := new(ImportServiceMock)
	var received []ingest.Descriptor
	svc.On("Import", mock.Anything, courseID, instructorID, mock.Anything).
		Run(func(args mock.Arguments) {
			received = args.Get(3).([]ingest.Descriptor)
		}).
		Return(&service.ImportReport{}, nil)
	router := newImportRouter(t, svc, instructorID)

	// "week 10" sorts before "week 2"; section order must still follow the
	// order the parts were sent in, not the alphabet.
	body := newMultipartBody(t)
	body.field(t, "courseId", courseID.Hex())
	body.field(t, "uploadType", "folder")
	body.file(t, "week 2/intro/a.mp4", "a.mp4", []byte("frames a"))
	body.file(t, "week 10/intro/b.mp4", "b.mp4", []byte("frames b"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(t))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, received, 2)
	require.Equal(t, "week 2/intro/a.mp4", received[0].RelativePath)
	require.Equal(t, "week 10/intro/b.mp4", received[1].RelativePath)

	structure := ingest.Infer(received)
	require.Len(t, structure.Sections, 2)
	require.Equal(t, "week 2", structure.Sections[0].Name)
	require.Equal(t, "week 10", structure.Sections[1].Name)
}
