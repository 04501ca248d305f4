package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/ingest"
	"skilllink/course-platform/internal/repository"
	"skilllink/course-platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrImportNothingToDo = errors.New("upload contained no importable files")
)

// FileStatus is the terminal state of one file in an import batch.
type FileStatus string

const (
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusRejected FileStatus = "rejected" // size limit exceeded, never uploaded
	FileStatusFailed   FileStatus = "failed"   // storage write failed
)

// FileResult reports the outcome of one file of the batch.
type FileResult struct {
	RelativePath string     `json:"relativePath"`
	Status       FileStatus `json:"status"`
	Reason       string     `json:"reason,omitempty"`
	StorageURL   string     `json:"storageUrl,omitempty"`
}

// RecordResult reports the outcome of one section or lesson insert.
type RecordResult struct {
	Kind    string `json:"kind"` // "section" or "lesson"
	Title   string `json:"title"`
	Created bool   `json:"created"`
	Reason  string `json:"reason,omitempty"`
}

// ImportStats carries both the input counts (what the parsed structure held)
// and the persisted counts (what actually landed in storage and the database),
// so callers can tell a clean import from a partial one.
type ImportStats struct {
	Sections        int `json:"sections"`
	Lessons         int `json:"lessons"`
	Files           int `json:"files"`
	SectionsCreated int `json:"sectionsCreated"`
	LessonsCreated  int `json:"lessonsCreated"`
	FilesUploaded   int `json:"filesUploaded"`
	FilesRejected   int `json:"filesRejected"`
	FilesFailed     int `json:"filesFailed"`
}

// ImportReport is the full outcome of one bulk import.
type ImportReport struct {
	Structure ingest.CourseStructure `json:"structure"`
	Stats     ImportStats            `json:"stats"`
	Files     []FileResult           `json:"files"`
	Records   []RecordResult         `json:"records"`
}

// --- Service Interface ---

// ImportService turns an ingested file batch into uploaded objects plus
// section and lesson records. It owns the whole write path: no other
// component uploads to storage or inserts course content.
type ImportService interface {
	Import(ctx context.Context, courseID, instructorID primitive.ObjectID, descriptors []ingest.Descriptor) (*ImportReport, error)
}

// --- Service Implementation ---

type importService struct {
	courseRepo  repository.CourseRepository
	sectionRepo repository.SectionRepository
	lessonRepo  repository.LessonRepository
	fileStorage storage.FileStorage
}

// NewImportService creates a new instance of importService.
func NewImportService(
	courseRepo repository.CourseRepository,
	sectionRepo repository.SectionRepository,
	lessonRepo repository.LessonRepository,
	fileStorage storage.FileStorage,
) ImportService {
	return &importService{
		courseRepo:  courseRepo,
		sectionRepo: sectionRepo,
		lessonRepo:  lessonRepo,
		fileStorage: fileStorage,
	}
}

// Import runs the four-phase pipeline: course validation, per-file uploads,
// section inserts, lesson inserts. The course is validated BEFORE any upload
// so a request destined to 404 never leaves orphaned objects in the bucket.
// After validation the batch is best-effort: a failed file or record is
// logged, reported, and skipped; siblings still proceed.
func (s *importService) Import(ctx context.Context, courseID, instructorID primitive.ObjectID, descriptors []ingest.Descriptor) (*ImportReport, error) {
	if courseID == primitive.NilObjectID || instructorID == primitive.NilObjectID {
		return nil, errors.New("course ID and instructor ID are required")
	}
	if len(descriptors) == 0 {
		return nil, ingest.ErrEmptyUpload
	}

	// Phase 0: validate the target course and its ownership.
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrCourseAccessDenied
	}

	structure := ingest.Infer(descriptors)
	if len(structure.Sections) == 0 {
		// Every path was too shallow to place into section/lesson.
		return nil, ErrImportNothingToDo
	}

	// Raw bytes are recovered by relative path. A path can legally repeat
	// with different content (a ZIP allows it), so every occurrence is kept;
	// the structure lists repeats in the same input order, and uploadFiles
	// consumes the occurrences positionally.
	byPath := make(map[string][]ingest.Descriptor, len(descriptors))
	for _, d := range descriptors {
		byPath[d.RelativePath] = append(byPath[d.RelativePath], d)
	}

	report := &ImportReport{}
	report.Stats.Sections = len(structure.Sections)
	report.Stats.Lessons = structure.LessonCount()
	report.Stats.Files = structure.FileCount()

	// Phase 1: sequential per-file uploads.
	s.uploadFiles(ctx, &structure, byPath, report)

	// Phases 2 and 3: section inserts, then one batched lesson insert per section.
	s.persistStructure(ctx, courseID, &structure, report)

	report.Structure = structure
	return report, nil
}

// uploadFiles validates, hashes and uploads every classified file, filling
// StorageURL on success. Files are uploaded one at a time; a failure is
// recorded and the batch continues.
func (s *importService) uploadFiles(ctx context.Context, structure *ingest.CourseStructure, byPath map[string][]ingest.Descriptor, report *ImportReport) {
	taken := make(map[string]int)
	for si := range structure.Sections {
		for li := range structure.Sections[si].Lessons {
			for fi := range structure.Sections[si].Lessons[li].Files {
				file := &structure.Sections[si].Lessons[li].Files[fi]
				limits := ingest.LimitsFor(file.Category)

				// Consume the occurrence up front so a rejected repeat does
				// not shift the bytes of the repeats after it.
				occurrence := taken[file.RelativePath]
				taken[file.RelativePath] = occurrence + 1

				if file.SizeBytes > limits.MaxSizeBytes {
					report.Stats.FilesRejected++
					report.Files = append(report.Files, FileResult{
						RelativePath: file.RelativePath,
						Status:       FileStatusRejected,
						Reason:       "file exceeds size limit for category " + string(file.Category),
					})
					continue
				}

				candidates := byPath[file.RelativePath]
				if occurrence >= len(candidates) {
					// Should not happen: the structure was inferred from the
					// same descriptor sequence.
					report.Stats.FilesFailed++
					report.Files = append(report.Files, FileResult{
						RelativePath: file.RelativePath,
						Status:       FileStatusFailed,
						Reason:       "raw content missing for path",
					})
					continue
				}
				descriptor := candidates[occurrence]

				objectKey := contentAddressedKey(limits.StorageFolder, file.Name, descriptor.RawBytes)
				url, err := s.fileStorage.Upload(ctx, objectKey, descriptor.RawBytes, descriptor.DeclaredMimeType)
				if err != nil {
					log.Printf("WARN: Bulk import upload failed for '%s' (key %s): %v", file.RelativePath, objectKey, err)
					report.Stats.FilesFailed++
					report.Files = append(report.Files, FileResult{
						RelativePath: file.RelativePath,
						Status:       FileStatusFailed,
						Reason:       "storage upload failed",
					})
					continue
				}

				file.StorageURL = url
				report.Stats.FilesUploaded++
				report.Files = append(report.Files, FileResult{
					RelativePath: file.RelativePath,
					Status:       FileStatusUploaded,
					StorageURL:   url,
				})
			}
		}
	}
}

// persistStructure inserts one section record per inferred section, then the
// lessons of each surviving section as a single batched write.
func (s *importService) persistStructure(ctx context.Context, courseID primitive.ObjectID, structure *ingest.CourseStructure, report *ImportReport) {
	// Continue order_index numbering after any sections a previous import
	// already created for this course.
	baseIndex64, err := s.sectionRepo.CountByCourseID(ctx, courseID)
	if err != nil {
		log.Printf("WARN: Could not count existing sections for course %s, starting at 0: %v", courseID.Hex(), err)
		baseIndex64 = 0
	}
	baseIndex := int(baseIndex64)

	for si, section := range structure.Sections {
		sectionRecord := &domain.Section{
			CourseID:   courseID,
			Title:      section.Name,
			OrderIndex: baseIndex + si,
		}

		sectionID, err := s.sectionRepo.Create(ctx, sectionRecord)
		if err != nil {
			log.Printf("WARN: Failed to create section '%s' for course %s: %v", section.Name, courseID.Hex(), err)
			report.Records = append(report.Records, RecordResult{
				Kind:   "section",
				Title:  section.Name,
				Reason: "section insert failed",
			})
			// Sections are independent; siblings still attempt insertion.
			continue
		}
		report.Stats.SectionsCreated++
		report.Records = append(report.Records, RecordResult{Kind: "section", Title: section.Name, Created: true})

		lessons := make([]domain.Lesson, 0, len(section.Lessons))
		for li, lesson := range section.Lessons {
			lessons = append(lessons, buildLessonRecord(courseID, sectionID, lesson, li))
		}

		_, err = s.lessonRepo.CreateMany(ctx, lessons)
		if err != nil {
			log.Printf("WARN: Failed to create lessons for section '%s': %v", section.Name, err)
			for _, lesson := range section.Lessons {
				report.Records = append(report.Records, RecordResult{
					Kind:   "lesson",
					Title:  lesson.Name,
					Reason: "lesson insert failed",
				})
			}
			continue
		}
		report.Stats.LessonsCreated += len(lessons)
		for _, lesson := range section.Lessons {
			report.Records = append(report.Records, RecordResult{Kind: "lesson", Title: lesson.Name, Created: true})
		}
	}
}

// buildLessonRecord applies the classification rules to one inferred lesson:
// the lesson is a video lesson when any of its files classified as video; the
// video/transcript/subtitle/instruction URL fields take the first successfully
// uploaded file of that category; every other uploaded file becomes a resource.
// Files whose upload failed carry no StorageURL and are excluded from every
// database field.
func buildLessonRecord(courseID, sectionID primitive.ObjectID, lesson ingest.Lesson, orderIndex int) domain.Lesson {
	record := domain.Lesson{
		CourseID:   courseID,
		SectionID:  sectionID,
		Title:      lesson.Name,
		Type:       domain.LessonTypeText,
		Status:     domain.LessonStatusDraft,
		OrderIndex: orderIndex,
	}

	for _, file := range lesson.Files {
		if file.Category == ingest.CategoryVideo {
			record.Type = domain.LessonTypeVideo
		}
		if file.StorageURL == "" {
			continue
		}
		switch file.Category {
		case ingest.CategoryVideo:
			if record.VideoURL == "" {
				record.VideoURL = file.StorageURL
			}
		case ingest.CategoryTranscript:
			if record.TranscriptURL == "" {
				record.TranscriptURL = file.StorageURL
			}
		case ingest.CategorySubtitle:
			if record.SubtitleURL == "" {
				record.SubtitleURL = file.StorageURL
			}
		case ingest.CategoryInstruction:
			if record.InstructionURL == "" {
				record.InstructionURL = file.StorageURL
			}
		default:
			record.Resources = append(record.Resources, domain.LessonResource{
				Name: file.Name,
				Type: string(file.Category),
				URL:  file.StorageURL,
				Size: file.SizeBytes,
			})
		}
	}

	return record
}

// contentAddressedKey derives the storage key as {folder}/{sha256-hex}{.ext}.
// The hash anonymizes the stored name and gives content-based deduplication:
// identical bytes always map to the same key.
func contentAddressedKey(folder, originalName string, raw []byte) string {
	sum := sha256.Sum256(raw)
	key := folder + "/" + hex.EncodeToString(sum[:])

	lower := strings.ToLower(originalName)
	if dot := strings.LastIndex(lower, "."); dot >= 0 && dot < len(lower)-1 {
		key += lower[dot:]
	}
	return key
}
