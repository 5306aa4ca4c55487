package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// exifFields maps EXIF tags to the labels used on photo detail pages.
var exifFields = []struct {
	tag   exif.FieldName
	label string
}{
	{exif.Make, "Camera Make"},
	{exif.Model, "Camera Model"},
	{exif.ExposureTime, "Exposure"},
	{exif.FNumber, "Aperture"},
	{exif.ISOSpeedRatings, "ISO"},
	{exif.FocalLength, "Focal Length"},
	{exif.DateTimeOriginal, "Date Taken"},
}

// fillExif backfills the EXIF mapping for records that carry none, by
// reading a small tag set from the original image file. Old exports
// frequently omit exif_data even when the JPEG itself has it. Failures
// here never fail the record; the page just stays bare.
func (l *Loader) fillExif(p *PhotoRecord, index *PhotoIndex) {
	if len(p.Exif) > 0 {
		return
	}
	filename := index.Filename(p.ID)
	if filename == "" {
		return
	}

	tags, err := readExif(filepath.Join(l.imagesDir, filename))
	if err != nil {
		l.logger.Debug("no exif data in image", "photo", p.ID, "error", err)
		return
	}
	if len(tags) > 0 {
		p.Exif = tags
	}
}

func readExif(imagePath string) (map[string]string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, err
	}

	tags := make(map[string]string)
	for _, field := range exifFields {
		tag, err := x.Get(field.tag)
		if err != nil || tag == nil {
			continue
		}
		// string tags come back quoted and may carry trailing NULs
		v := strings.Trim(tag.String(), `"`)
		v = strings.TrimRight(v, "\x00")
		if v != "" {
			tags[field.label] = v
		}
	}
	return tags, nil
}
