// Package app wires every component from config into a per-run context
// object and drives the export-to-site pipeline end to end.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"statickr-go/internal/archive"
	"statickr-go/internal/avatar"
	"statickr-go/internal/config"
	"statickr-go/internal/export"
	"statickr-go/internal/fetch"
	"statickr-go/internal/site"
)

// App holds everything a single run needs. Construction performs the
// template precondition check, so a missing template fails before any
// data is touched.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer *site.Renderer
	clock    avatar.Clock
}

// New creates a fully wired App from the given config.
func New(cfg *config.Config) (*App, error) {
	runID := uuid.New().String()[:8]
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stderr, runID, level)

	renderer, err := site.NewRenderer(cfg.TemplatesDir)
	if err != nil {
		logger.Error("template check failed", "error", err)
		return nil, err
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		renderer: renderer,
		clock:    avatar.RealClock{},
	}, nil
}

// Run processes the export in source and writes the static site to
// dest. Execution is strictly sequential; every fatal error is logged
// before it is returned.
func (a *App) Run(ctx context.Context, source, dest string) error {
	a.logger.Info("processing export", "source", source, "dest", dest)

	if err := a.run(ctx, source, dest); err != nil {
		a.logger.Error("an error occurred during processing", "error", err)
		return err
	}

	a.logger.Info("export processing complete")
	return nil
}

func (a *App) run(ctx context.Context, source, dest string) error {
	dataDir := filepath.Join(dest, "data")
	imagesDir := filepath.Join(dest, "images")
	avatarsDir := filepath.Join(dest, "avatars")
	for _, dir := range []string{dataDir, imagesDir, avatarsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	extractor := archive.NewExtractor(a.logger)
	if err := extractor.Extract(source, dataDir); err != nil {
		return err
	}
	if _, err := extractor.RelocateImages(dataDir, imagesDir); err != nil {
		return err
	}

	index, err := export.NewPhotoIndex(imagesDir)
	if err != nil {
		return err
	}
	a.logger.Debug("photo filename mapping created", "count", index.Len())

	loader := export.NewLoader(dataDir, imagesDir, a.logger)

	// Required files load before any page is written, so structural
	// errors abort with no partial output for the affected sections.
	profile, err := loader.AccountProfile()
	if err != nil {
		return err
	}
	contacts, err := loader.Contacts()
	if err != nil {
		return err
	}

	builder := site.NewBuilder(a.renderer, loader, index, a.logger, site.Options{
		OldestFirst:   a.cfg.OldestFirst,
		Paging:        !a.cfg.DisablePaging,
		PhotosPerPage: a.cfg.PhotosPerPage,
	})

	if err := builder.BuildHome(dest); err != nil {
		return err
	}
	if err := builder.BuildPhotos(dest); err != nil {
		return err
	}
	if err := builder.BuildAlbums(dest); err != nil {
		return err
	}

	resolved, err := a.resolveAvatars(ctx, contacts, profile, avatarsDir)
	if err != nil {
		return err
	}
	return builder.BuildContacts(dest, resolved)
}

// resolveAvatars runs the avatar pipeline over all contacts in sorted
// name order and flushes the timestamp cache once at the end.
func (a *App) resolveAvatars(ctx context.Context, contacts map[string]string, profile *export.AccountProfile, avatarsDir string) ([]site.Contact, error) {
	store, err := avatar.NewStoreFromConfig(a.cfg.Avatars.Cache, avatarsDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	client := fetch.NewClient(
		a.cfg.Avatars.UserAgent,
		time.Duration(a.cfg.Avatars.TimeoutSeconds)*time.Second,
	)
	fetcher := avatar.NewFetcher(avatar.Options{
		Client:       client,
		Store:        store,
		Clock:        a.clock,
		Logger:       a.logger,
		Dir:          avatarsDir,
		Fallback:     profile.Avatar,
		Fetch:        a.cfg.Avatars.Fetch,
		SkipExisting: a.cfg.Avatars.SkipExisting,
		Delay:        time.Duration(a.cfg.Avatars.DelayMillis) * time.Millisecond,
	})

	names := make([]string, 0, len(contacts))
	for name := range contacts {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make([]site.Contact, 0, len(names))
	for _, name := range names {
		resolved = append(resolved, site.Contact{
			Name:       name,
			ProfileURL: contacts[name],
			Avatar:     fetcher.Resolve(ctx, name, contacts[name]),
		})
	}

	if err := store.Flush(); err != nil {
		return nil, err
	}
	return resolved, nil
}
