package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Extractor unpacks export archives into a working directory.
// Any unreadable or corrupt archive aborts the whole run: downstream
// loaders cross-reference records across files and cannot trust a
// partially extracted set.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract unpacks every *.zip file found directly inside sourceDir into
// destDir, preserving entry paths as stored. A later entry with the same
// path silently overwrites an earlier one.
func (e *Extractor) Extract(sourceDir, destDir string) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("reading source directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}
		e.logger.Debug("extracting archive", "file", entry.Name())
		if err := e.extractOne(filepath.Join(sourceDir, entry.Name()), destDir); err != nil {
			return fmt.Errorf("extracting %s: %w", entry.Name(), err)
		}
		count++
	}

	e.logger.Info("archives extracted", "count", count, "dest", destDir)
	return nil
}

func (e *Extractor) extractOne(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(destDir)
	for _, f := range r.File {
		target := filepath.Join(root, f.Name)
		// entries must stay inside the destination directory
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("entry %q escapes destination directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.Name, err)
		}
		if err := writeEntry(f, target); err != nil {
			return fmt.Errorf("writing entry %s: %w", f.Name, err)
		}
	}

	return nil
}

func writeEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// RelocateImages moves every .jpg and .png file from dataDir into
// imagesDir. This is a move, not a copy: metadata and media end up in
// disjoint directories. Returns the number of files moved.
func (e *Extractor) RelocateImages(dataDir, imagesDir string) (int, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return 0, fmt.Errorf("reading data directory: %w", err)
	}

	moved := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".jpg" && ext != ".png" {
			continue
		}
		src := filepath.Join(dataDir, entry.Name())
		dst := filepath.Join(imagesDir, entry.Name())
		if err := moveFile(src, dst); err != nil {
			return moved, fmt.Errorf("moving %s: %w", entry.Name(), err)
		}
		moved++
	}

	e.logger.Info("media files relocated", "count", moved, "dest", imagesDir)
	return moved, nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
