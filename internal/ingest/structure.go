package ingest

import "strings"

// ClassifiedFile is one file placed into the inferred hierarchy.
// StorageURL stays empty until the file's upload succeeds.
type ClassifiedFile struct {
	Name         string       `json:"name"`
	Category     FileCategory `json:"category"`
	RelativePath string       `json:"relativePath"`
	SizeBytes    int64        `json:"sizeBytes"`
	StorageURL   string       `json:"storageUrl,omitempty"`
}

// Lesson groups the files sharing the same (section, lesson) path prefix.
type Lesson struct {
	Name  string           `json:"name"`
	Files []ClassifiedFile `json:"files"`
}

// Section groups the lessons sharing the same first path segment.
type Section struct {
	Name    string   `json:"name"`
	Lessons []Lesson `json:"lessons"`
}

// CourseStructure is the two-level hierarchy inferred from a flat upload.
// It is built once per batch, mutated in place as uploads complete, and
// never persisted as its own entity.
type CourseStructure struct {
	Sections []Section `json:"sections"`
}

// FileCount returns the number of classified files across all lessons.
func (s *CourseStructure) FileCount() int {
	count := 0
	for _, section := range s.Sections {
		for _, lesson := range section.Lessons {
			count += len(lesson.Files)
		}
	}
	return count
}

// LessonCount returns the number of lessons across all sections.
func (s *CourseStructure) LessonCount() int {
	count := 0
	for _, section := range s.Sections {
		count += len(section.Lessons)
	}
	return count
}

// Infer groups a flat descriptor list into sections and lessons using the
// first two path segments of each relative path. Descriptors with fewer than
// two segments cannot be placed and are dropped, not errored. Sections and
// lessons keep first-appearance order; a section is keyed purely by name, so
// two descriptors with the same first segment always join the same section
// even if discovered far apart in the input. Files with identical
// (section, lesson, filename) are all kept; content-level deduplication
// happens later via hashing in the import service.
func Infer(descriptors []Descriptor) CourseStructure {
	var structure CourseStructure
	sectionIndex := make(map[string]int)
	lessonIndex := make(map[string]int) // keyed by "section/lesson"

	for _, d := range descriptors {
		segments := strings.Split(d.RelativePath, "/")
		if len(segments) < 2 {
			continue
		}
		sectionName, lessonName := segments[0], segments[1]

		si, ok := sectionIndex[sectionName]
		if !ok {
			si = len(structure.Sections)
			sectionIndex[sectionName] = si
			structure.Sections = append(structure.Sections, Section{Name: sectionName})
		}

		lessonKey := sectionName + "/" + lessonName
		li, ok := lessonIndex[lessonKey]
		if !ok {
			li = len(structure.Sections[si].Lessons)
			lessonIndex[lessonKey] = li
			structure.Sections[si].Lessons = append(structure.Sections[si].Lessons, Lesson{Name: lessonName})
		}

		lesson := &structure.Sections[si].Lessons[li]
		lesson.Files = append(lesson.Files, ClassifiedFile{
			Name:         d.Name,
			Category:     Classify(d.Name),
			RelativePath: d.RelativePath,
			SizeBytes:    d.SizeBytes,
		})
	}

	return structure
}
