package ingest

import "strings"

// FileCategory is the closed set of semantic file kinds driving size limits
// and storage location.
type FileCategory string

const (
	CategoryVideo       FileCategory = "video"
	CategoryTranscript  FileCategory = "transcript"
	CategorySubtitle    FileCategory = "subtitle"
	CategoryInstruction FileCategory = "instruction"
	CategoryImage       FileCategory = "image"
	CategoryDocument    FileCategory = "document"
	CategoryOther       FileCategory = "other"
)

// CategoryLimits carries the per-category validation and storage rules.
type CategoryLimits struct {
	MaxSizeBytes  int64
	StorageFolder string
}

// classificationRule binds a category to its extension set. The slice order is
// part of the contract: Classify walks it top to bottom and the first category
// whose set contains the extension wins, so a future extension collision
// resolves to the earlier entry.
type classificationRule struct {
	category   FileCategory
	extensions map[string]struct{}
}

var classificationRules = []classificationRule{
	{CategoryVideo, extensionSet("mp4", "mov", "avi", "mkv", "webm")},
	{CategoryTranscript, extensionSet("txt")},
	{CategorySubtitle, extensionSet("srt", "vtt")},
	{CategoryInstruction, extensionSet("md", "html")},
	{CategoryImage, extensionSet("jpg", "jpeg", "png", "gif", "webp", "svg")},
	{CategoryDocument, extensionSet("pdf", "doc", "docx", "ppt", "pptx", "xls", "xlsx")},
}

func extensionSet(exts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return set
}

// Classify maps a filename to its FileCategory purely from the extension.
// Matching is case-insensitive; filenames without an extension, or with an
// unknown one, classify as CategoryOther. Pure function, total over all inputs.
func Classify(filename string) FileCategory {
	lower := strings.ToLower(filename)
	dot := strings.LastIndex(lower, ".")
	if dot < 0 || dot == len(lower)-1 {
		return CategoryOther
	}
	ext := lower[dot+1:]

	for _, rule := range classificationRules {
		if _, ok := rule.extensions[ext]; ok {
			return rule.category
		}
	}
	return CategoryOther
}

// LimitsFor returns the size ceiling and destination folder for a category.
// The switch is exhaustive over the FileCategory constants; adding a category
// is a single-point change here plus a classificationRules entry.
func LimitsFor(category FileCategory) CategoryLimits {
	switch category {
	case CategoryVideo:
		return CategoryLimits{MaxSizeBytes: 500 << 20, StorageFolder: "videos"}
	case CategoryTranscript:
		return CategoryLimits{MaxSizeBytes: 10 << 20, StorageFolder: "transcripts"}
	case CategorySubtitle:
		return CategoryLimits{MaxSizeBytes: 10 << 20, StorageFolder: "subtitles"}
	case CategoryInstruction:
		return CategoryLimits{MaxSizeBytes: 10 << 20, StorageFolder: "instructions"}
	case CategoryImage:
		return CategoryLimits{MaxSizeBytes: 20 << 20, StorageFolder: "images"}
	case CategoryDocument:
		return CategoryLimits{MaxSizeBytes: 100 << 20, StorageFolder: "documents"}
	case CategoryOther:
		fallthrough
	default:
		// Generic/document-sized ceiling for anything unrecognized.
		return CategoryLimits{MaxSizeBytes: 100 << 20, StorageFolder: "resources"}
	}
}
