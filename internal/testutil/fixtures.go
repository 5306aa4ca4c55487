// Package testutil provides fixtures shared by the package tests: a
// stub clock, export file builders, ZIP builders, a minimal template
// set, and image generation for the avatar pipeline.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteJSON marshals v and writes it to dir/name.
func WriteJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling %s: %v", name, err)
	}
	WriteFile(t, dir, name, data)
}

// WriteFile writes data to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// WritePhotoJSON writes a photo_<id>.json record with the given fields
// merged over the id.
func WritePhotoJSON(t *testing.T, dir, id string, fields map[string]any) {
	t.Helper()
	record := map[string]any{"id": id}
	for k, v := range fields {
		record[k] = v
	}
	WriteJSON(t, dir, "photo_"+id+".json", record)
}

// CreateZip writes a ZIP archive at path containing the given entries.
func CreateZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing zip %s: %v", path, err)
	}
}

// WriteTemplates writes a minimal but complete template set into dir.
// Each template exercises the fields its page's view model exposes.
func WriteTemplates(t *testing.T, dir string) {
	t.Helper()
	templates := map[string]string{
		"index.html": `<html><body><h1>Archive</h1></body></html>`,
		"photo.html": `<html><body><h1>{{.Title}}</h1><img src="{{.ImgSrc}}">` +
			`{{with .Prev}}<a href="{{.ID}}.html">prev</a>{{end}}` +
			`{{with .Next}}<a href="{{.ID}}.html">next</a>{{end}}</body></html>`,
		"photos.html": `<html><body>{{range .Photos}}<a href="{{.ID}}.html">{{.Title}}</a>{{end}}` +
			`<p>Page {{.Page}} of {{.TotalPages}}</p></body></html>`,
		"albums.html": `<html><body>{{range .Albums}}<a href="{{.ID}}.html">{{.DisplayTitle}}</a>` +
			`<img src="../images/{{.CoverPhotoFilename}}">{{end}}</body></html>`,
		"album.html": `<html><body><h1>{{.Title}}</h1>` +
			`{{range .Photos}}<img src="{{.ImgSrc}}" alt="{{.Title}}">{{end}}</body></html>`,
		"contacts.html": `<html><body>{{range .Contacts}}` +
			`<a href="{{.ProfileURL}}"><img src="{{.Avatar}}">{{.Name}}</a>{{end}}</body></html>`,
	}
	for name, content := range templates {
		WriteFile(t, dir, name, []byte(content))
	}
}

// JPEGBytes returns a small valid JPEG image.
func JPEGBytes(t *testing.T) []byte {
	t.Helper()
	return encodeImage(t, "jpeg")
}

// PNGBytes returns a small valid PNG image.
func PNGBytes(t *testing.T) []byte {
	t.Helper()
	return encodeImage(t, "png")
}

func encodeImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encoding %s fixture: %v", format, err)
	}
	return buf.Bytes()
}
