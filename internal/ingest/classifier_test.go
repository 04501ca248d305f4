package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		filename string
		want     FileCategory
	}{
		{"lecture.mp4", CategoryVideo},
		{"lecture.mov", CategoryVideo},
		{"clip.webm", CategoryVideo},
		{"notes.txt", CategoryTranscript},
		{"captions.srt", CategorySubtitle},
		{"captions.vtt", CategorySubtitle},
		{"setup.md", CategoryInstruction},
		{"diagram.png", CategoryImage},
		{"slides.pdf", CategoryDocument},
		{"workbook.xlsx", CategoryDocument},
		{"archive.tar", CategoryOther},
		{"Makefile", CategoryOther},
		{"trailing-dot.", CategoryOther},
		{"", CategoryOther},
	}

	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.filename))
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	require.Equal(t, CategoryVideo, Classify("A.MP4"))
	require.Equal(t, Classify("A.MP4"), Classify("a.mp4"))
	require.Equal(t, CategoryDocument, Classify("Slides.PDF"))
}

func TestClassify_Idempotent(t *testing.T) {
	// Pure function: repeated calls with the same input must agree.
	for i := 0; i < 3; i++ {
		require.Equal(t, CategoryVideo, Classify("intro.mkv"))
	}
}

func TestLimitsFor_CoversEveryCategory(t *testing.T) {
	categories := []FileCategory{
		CategoryVideo, CategoryTranscript, CategorySubtitle,
		CategoryInstruction, CategoryImage, CategoryDocument, CategoryOther,
	}
	for _, c := range categories {
		limits := LimitsFor(c)
		require.Positive(t, limits.MaxSizeBytes, "category %s", c)
		require.NotEmpty(t, limits.StorageFolder, "category %s", c)
	}
}

func TestLimitsFor_UnknownFallsBackToOther(t *testing.T) {
	require.Equal(t, LimitsFor(CategoryOther), LimitsFor(FileCategory("bogus")))
}
