package export

import (
	"fmt"
	"os"
	"strings"
)

// originalSuffix marks the highest-resolution rendition in the export;
// only originals are indexed, thumbnails and other renditions are not.
const originalSuffix = "_o.jpg"

// PhotoIndex maps photo IDs to original-image filenames. It is built by
// scanning extracted image filenames of the form <...>_<id>_o.jpg where
// the ID is the second-to-last underscore-delimited segment.
//
// A well-formed export never maps one ID to two filenames; if it does,
// the last filename in directory scan order wins. os.ReadDir returns
// entries sorted by name, which pins that order to lexical.
type PhotoIndex struct {
	byID map[string]string
}

// NewPhotoIndex scans imagesDir once and builds the index.
func NewPhotoIndex(imagesDir string) (*PhotoIndex, error) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("reading images directory: %w", err)
	}

	byID := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, originalSuffix) {
			continue
		}
		parts := strings.Split(name, "_")
		if len(parts) < 2 {
			continue
		}
		byID[parts[len(parts)-2]] = name
	}

	return &PhotoIndex{byID: byID}, nil
}

// Filename returns the original-image filename for a photo ID, or ""
// when the ID is unmapped. Unmapped IDs are not an error.
func (ix *PhotoIndex) Filename(id string) string {
	return ix.byID[id]
}

// ImgSrc returns the image reference used by pages one directory below
// the site root, or "" for unmapped IDs.
func (ix *PhotoIndex) ImgSrc(id string) string {
	f := ix.byID[id]
	if f == "" {
		return ""
	}
	return "../images/" + f
}

// Len returns the number of indexed photos.
func (ix *PhotoIndex) Len() int {
	return len(ix.byID)
}
