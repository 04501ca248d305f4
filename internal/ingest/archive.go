package ingest

import (
	"archive/zip"
	"bytes"
	"io"
	"mime"
	"path"
	"strings"
)

// FromZip decompresses a ZIP archive entirely in memory and produces one
// Descriptor per regular entry, in archive order. Directory entries are
// skipped. Extraction is all-or-nothing: any unreadable entry fails the
// whole archive with ErrMalformedArchive.
func FromZip(data []byte) ([]Descriptor, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrMalformedArchive
	}

	var descriptors []Descriptor
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, ErrMalformedArchive
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, ErrMalformedArchive
		}

		rel := normalizePath(entry.Name)
		if rel == "" {
			continue
		}
		descriptors = append(descriptors, Descriptor{
			Name:             path.Base(rel),
			RelativePath:     rel,
			SizeBytes:        int64(len(content)),
			RawBytes:         content,
			DeclaredMimeType: mime.TypeByExtension(path.Ext(rel)),
		})
	}

	if len(descriptors) == 0 {
		return nil, ErrEmptyUpload
	}
	return descriptors, nil
}

// FromFiles converts browser folder/drag-drop entries into Descriptors,
// preserving input order. Each entry's path key becomes RelativePath directly.
func FromFiles(entries []FileEntry) ([]Descriptor, error) {
	var descriptors []Descriptor
	for _, entry := range entries {
		rel := normalizePath(entry.Path)
		if rel == "" {
			continue
		}

		name := entry.Name
		if name == "" {
			name = path.Base(rel)
		}
		contentType := entry.ContentType
		if contentType == "" {
			contentType = mime.TypeByExtension(path.Ext(rel))
		}

		size := entry.Size
		if size == 0 {
			size = int64(len(entry.Data))
		}

		descriptors = append(descriptors, Descriptor{
			Name:             name,
			RelativePath:     rel,
			SizeBytes:        size,
			RawBytes:         entry.Data,
			DeclaredMimeType: contentType,
		})
	}

	if len(descriptors) == 0 {
		return nil, ErrEmptyUpload
	}
	return descriptors, nil
}

// normalizePath forces forward slashes and strips leading "./" or "/" noise
// that some archivers and browsers emit. Paths that still climb out of the
// root after cleaning ("../evil/x.mp4") are dropped rather than imported
// under a ".." section.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." || p == "" {
		return ""
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return ""
	}
	return p
}
