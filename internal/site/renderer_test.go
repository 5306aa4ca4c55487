package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"statickr-go/internal/testutil"
)

func TestNewRenderer(t *testing.T) {
	t.Run("complete template set loads", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTemplates(t, dir)

		if _, err := NewRenderer(dir); err != nil {
			t.Fatalf("NewRenderer() error = %v", err)
		}
	})

	t.Run("missing templates are all named", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTemplates(t, dir)

		// remove two and expect both in the error
		testutilRemove(t, dir, "photo.html")
		testutilRemove(t, dir, "contacts.html")

		_, err := NewRenderer(dir)
		if err == nil {
			t.Fatal("NewRenderer() error = nil, want missing-template error")
		}
		for _, name := range []string{"photo.html", "contacts.html"} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q does not name %s", err, name)
			}
		}
	})

	t.Run("empty directory names every template", func(t *testing.T) {
		_, err := NewRenderer(t.TempDir())
		if err == nil {
			t.Fatal("NewRenderer() error = nil, want missing-template error")
		}
		for _, name := range RequiredTemplates {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q does not name %s", err, name)
			}
		}
	})

	t.Run("unparsable template is an error", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTemplates(t, dir)
		testutil.WriteFile(t, dir, "index.html", []byte(`{{range}}`))

		if _, err := NewRenderer(dir); err == nil {
			t.Fatal("NewRenderer() error = nil, want parse error")
		}
	})
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTemplates(t, dir)
	testutil.WriteFile(t, dir, "index.html", []byte(`<h1>{{upper "archive"}}</h1>`))

	r, err := NewRenderer(dir)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	t.Run("sprig functions are available", func(t *testing.T) {
		out, err := r.Render("index.html", nil)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if string(out) != "<h1>ARCHIVE</h1>" {
			t.Errorf("Render() = %q", out)
		}
	})

	t.Run("unknown template name is an error", func(t *testing.T) {
		if _, err := r.Render("nope.html", nil); err == nil {
			t.Fatal("Render() error = nil, want unknown-template error")
		}
	})
}

func testutilRemove(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.Remove(filepath.Join(dir, name)); err != nil {
		t.Fatalf("removing %s: %v", name, err)
	}
}
