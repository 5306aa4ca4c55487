package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	albumsFile   = "albums.json"
	profileFile  = "account_profile.json"
	contactsFile = "contacts_part001.json"
)

// Loader reads export records out of the extracted metadata directory.
// Missing optional fields default; a missing required file is fatal.
type Loader struct {
	dataDir   string
	imagesDir string
	logger    *slog.Logger
}

func NewLoader(dataDir, imagesDir string, logger *slog.Logger) *Loader {
	return &Loader{dataDir: dataDir, imagesDir: imagesDir, logger: logger}
}

// Photos loads every photo_<id>.json record in the metadata directory.
// A malformed record aborts the run: downstream cross-references assume
// a complete record set. ImgSrc is resolved through the given index.
func (l *Loader) Photos(index *PhotoIndex) ([]*PhotoRecord, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var photos []*PhotoRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "photo_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		p, err := l.loadPhotoFile(filepath.Join(l.dataDir, name), index)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}

	l.logger.Debug("photo records loaded", "count", len(photos))
	return photos, nil
}

// Photo loads a single photo record by ID. A missing record file is not
// an error and returns nil: album manifests may reference photos whose
// records were never exported.
func (l *Loader) Photo(id string, index *PhotoIndex) (*PhotoRecord, error) {
	path := filepath.Join(l.dataDir, "photo_"+id+".json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return l.loadPhotoFile(path, index)
}

func (l *Loader) loadPhotoFile(path string, index *PhotoIndex) (*PhotoRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	var p PhotoRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	p.ImgSrc = index.ImgSrc(p.ID)
	l.fillExif(&p, index)
	return &p, nil
}

// Albums loads the album manifest. The document must be an object with
// an "albums" array; anything else is a FormatError.
func (l *Loader) Albums() ([]*Album, error) {
	data, err := os.ReadFile(filepath.Join(l.dataDir, albumsFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", albumsFile, err)
	}

	var doc struct {
		Albums *[]*Album `json:"albums"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{File: albumsFile, Reason: err.Error()}
	}
	if doc.Albums == nil {
		return nil, &FormatError{File: albumsFile, Reason: `missing "albums" key`}
	}

	l.logger.Debug("albums loaded", "count", len(*doc.Albums))
	return *doc.Albums, nil
}

// AccountProfile loads the account profile. The file is required;
// absent fields default individually.
func (l *Loader) AccountProfile() (*AccountProfile, error) {
	data, err := os.ReadFile(filepath.Join(l.dataDir, profileFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", profileFile, err)
	}

	var p AccountProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", profileFile, err)
	}
	if p.Avatar == "" {
		p.Avatar = DefaultAvatarURL
	}
	return &p, nil
}

// Contacts loads the contacts mapping of display name to profile URL.
// A wrong-shape document is a FormatError, raised before any avatar
// fetching begins. Names are assumed unique within one export.
func (l *Loader) Contacts() (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(l.dataDir, contactsFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", contactsFile, err)
	}

	var doc struct {
		Contacts *map[string]string `json:"contacts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{File: contactsFile, Reason: err.Error()}
	}
	if doc.Contacts == nil {
		return nil, &FormatError{File: contactsFile, Reason: `missing "contacts" key`}
	}

	l.logger.Debug("contacts loaded", "count", len(*doc.Contacts))
	return *doc.Contacts, nil
}
