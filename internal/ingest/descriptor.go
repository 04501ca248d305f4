// Package ingest normalizes bulk course uploads (ZIP archives or browser
// folder selections) into a flat list of file descriptors, classifies each
// file by extension and infers the section/lesson hierarchy from relative
// paths. Everything in this package is a pure transformation; uploads and
// database writes happen in the service layer.
package ingest

import "errors"

// --- Error Definitions ---
var (
	ErrMalformedArchive = errors.New("archive is corrupt or unreadable")
	ErrEmptyUpload      = errors.New("no files found in upload")
)

// Descriptor represents one file discovered during ingestion.
// RelativePath is always non-empty and uses forward-slash separators
// regardless of the source platform. Descriptors are immutable once created.
type Descriptor struct {
	Name             string // Original filename
	RelativePath     string // Slash-delimited path as supplied by the archive/folder
	SizeBytes        int64
	RawBytes         []byte
	DeclaredMimeType string // Best-effort, may be empty
}

// FileEntry is a single browser-supplied file from a folder or drag-and-drop
// selection. Path carries the relative path as reported by the browser's
// directory-upload API.
type FileEntry struct {
	Path        string
	Name        string
	Size        int64
	Data        []byte
	ContentType string
}
