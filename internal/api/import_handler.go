// internal/api/import_handler.go
package api

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"skilllink/course-platform/internal/ingest"
	"skilllink/course-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportHandler serves the bulk course-content upload endpoint.
type ImportHandler struct {
	importService   service.ImportService
	maxArchiveBytes int64
}

func NewImportHandler(importService service.ImportService, maxArchiveBytes int64) *ImportHandler {
	return &ImportHandler{
		importService:   importService,
		maxArchiveBytes: maxArchiveBytes,
	}
}

// ImportResponse is the success payload of a bulk upload.
type ImportResponse struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Structure ingest.CourseStructure `json:"structure"`
	Stats     service.ImportStats    `json:"stats"`
	Files     []service.FileResult   `json:"files"`
	Records   []service.RecordResult `json:"records"`
}

// BulkUpload godoc
// @Summary Bulk-upload course content from a ZIP archive or a folder selection
// @Description Accepts multipart form data. With uploadType=zip a single "file"
// @Description field holds the archive; with uploadType=folder each part carries
// @Description one file whose form key or filename is its relative path.
// @Tags Courses
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param courseId formData string true "Target course ID"
// @Param uploadType formData string false "zip or folder (default folder)"
// @Success 200 {object} ImportResponse "Import finished (see stats for per-file outcomes)"
// @Failure 400 {object} gin.H "Invalid input or empty upload"
// @Failure 403 {object} gin.H "Not the course owner"
// @Failure 404 {object} gin.H "Course not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /courses/bulk-upload [post]
func (h *ImportHandler) BulkUpload(c *gin.Context) {
	if h.maxArchiveBytes > 0 && c.Request.ContentLength > h.maxArchiveBytes {
		abortWithError(c, http.StatusRequestEntityTooLarge, "Upload exceeds the maximum allowed size")
		return
	}

	instructorID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify instructor from token.")
		return
	}

	// The multipart body is consumed part by part instead of through
	// ParseMultipartForm: multipart.Form buckets file parts into a map and
	// loses the order the client sent them in, and that arrival order is
	// what section ordering is inferred from.
	reader, err := c.Request.MultipartReader()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	fields, parts, err := readMultipart(reader)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	courseIDStr := fields["courseId"]
	if courseIDStr == "" {
		abortWithError(c, http.StatusBadRequest, "courseId is required")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(courseIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format.")
		return
	}

	uploadType := fields["uploadType"]
	if uploadType == "" {
		uploadType = "folder"
	}

	var descriptors []ingest.Descriptor
	switch uploadType {
	case "zip":
		descriptors, err = h.descriptorsFromZip(parts)
	case "folder":
		descriptors, err = h.descriptorsFromFolder(parts)
	default:
		abortWithError(c, http.StatusBadRequest, "uploadType must be 'zip' or 'folder'")
		return
	}
	if err != nil {
		h.mapImportError(c, err)
		return
	}

	report, err := h.importService.Import(c.Request.Context(), courseID, instructorID, descriptors)
	if err != nil {
		h.mapImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Success:   true,
		Message:   "Course content imported",
		Structure: report.Structure,
		Stats:     report.Stats,
		Files:     report.Files,
		Records:   report.Records,
	})
}

// uploadPart is one file part of the multipart body, in wire order.
type uploadPart struct {
	key         string
	filename    string
	contentType string
	data        []byte
}

// readMultipart drains the request body into value fields and file parts,
// keeping the file parts in the order they arrived.
func readMultipart(reader *multipart.Reader) (map[string]string, []uploadPart, error) {
	fields := make(map[string]string)
	var parts []uploadPart
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return fields, parts, nil
		}
		if err != nil {
			return nil, nil, err
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, nil, err
		}

		if part.FileName() == "" {
			fields[part.FormName()] = string(data)
			continue
		}
		parts = append(parts, uploadPart{
			key:         part.FormName(),
			filename:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        data,
		})
	}
}

// descriptorsFromZip reads the single "file" part and expands the archive.
func (h *ImportHandler) descriptorsFromZip(parts []uploadPart) ([]ingest.Descriptor, error) {
	for _, part := range parts {
		if part.key == "file" {
			return ingest.FromZip(part.data)
		}
	}
	return nil, errNoZipFile
}

// descriptorsFromFolder treats every file part as one course file. Browsers
// sending a directory picker put the relative path either in the form key or
// in the part's filename; a path-bearing key wins.
func (h *ImportHandler) descriptorsFromFolder(parts []uploadPart) ([]ingest.Descriptor, error) {
	entries := make([]ingest.FileEntry, 0, len(parts))
	for _, part := range parts {
		relPath := part.filename
		if containsSlash(part.key) {
			relPath = part.key
		}
		entries = append(entries, ingest.FileEntry{
			Path:        relPath,
			Name:        part.filename,
			Size:        int64(len(part.data)),
			Data:        part.data,
			ContentType: part.contentType,
		})
	}
	return ingest.FromFiles(entries)
}

var errNoZipFile = errors.New("no zip file provided")

func containsSlash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' || s[i] == '\\' {
			return true
		}
	}
	return false
}

// mapImportError maps ingest and import service errors to HTTP status codes.
func (h *ImportHandler) mapImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNoZipFile):
		abortWithError(c, http.StatusBadRequest, "No ZIP file provided")
	case errors.Is(err, ingest.ErrMalformedArchive):
		abortWithError(c, http.StatusBadRequest, "Uploaded archive is not a valid ZIP file")
	case errors.Is(err, ingest.ErrEmptyUpload), errors.Is(err, service.ErrImportNothingToDo):
		abortWithError(c, http.StatusBadRequest, "No files found in upload")
	case errors.Is(err, service.ErrCourseNotFound):
		abortWithError(c, http.StatusNotFound, "Course not found")
	case errors.Is(err, service.ErrCourseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		log.Printf("ERROR: Bulk upload failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
