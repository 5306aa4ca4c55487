package avatar

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"statickr-go/internal/fetch"
)

// Fetcher resolves one avatar reference per contact: a cached local
// image, a freshly fetched one, or the fallback URL. Two caching
// layers stack: the local-file short circuit avoids all network access
// for contacts not expected to change, and the conditional request
// minimizes payload for contacts that are checked but rarely change.
type Fetcher struct {
	client       *fetch.Client
	store        Store
	clock        Clock
	logger       *slog.Logger
	dir          string
	fallback     string
	fetch        bool
	skipExisting bool
	delay        time.Duration
}

// Options configures a Fetcher.
type Options struct {
	Client       *fetch.Client
	Store        Store
	Clock        Clock
	Logger       *slog.Logger
	Dir          string // on-disk avatar directory
	Fallback     string // avatar reference used when resolution fails
	Fetch        bool   // false disables all network access
	SkipExisting bool   // reuse an existing local avatar without fetching
	Delay        time.Duration
}

func NewFetcher(opts Options) *Fetcher {
	return &Fetcher{
		client:       opts.Client,
		store:        opts.Store,
		clock:        opts.Clock,
		logger:       opts.Logger,
		dir:          opts.Dir,
		fallback:     opts.Fallback,
		fetch:        opts.Fetch,
		skipExisting: opts.SkipExisting,
		delay:        opts.Delay,
	}
}

// Resolve returns the avatar reference for one contact: a relative
// local path when an avatar image is (or becomes) available on disk,
// the fallback URL otherwise. Failures are per-contact and never fatal.
func (f *Fetcher) Resolve(ctx context.Context, name, profileURL string) string {
	safe := SafeFileName(name)
	localPath := filepath.Join(f.dir, safe+".jpg")
	ref := "../avatars/" + safe + ".jpg"

	if f.skipExisting && fileExists(localPath) {
		f.logger.Debug("avatar reused", "contact", name)
		return ref
	}

	if !f.fetch {
		return f.fallback
	}

	body, notModified, err := f.fetchProfile(ctx, profileURL)
	if err != nil {
		f.logger.Warn("profile fetch failed", "contact", name, "url", profileURL, "error", err)
		return f.fallback
	}
	if notModified {
		// unchanged since the cached timestamp: no write, no cache update
		f.logger.Debug("avatar unchanged", "contact", name)
		if fileExists(localPath) {
			return ref
		}
		return f.fallback
	}

	avatarURL, ok := DiscoverAvatarURL(bytes.NewReader(body))
	if !ok {
		f.logger.Debug("no avatar on profile page", "contact", name)
		return f.fallback
	}
	absURL, err := ResolveAvatarURL(avatarURL, profileURL)
	if err != nil {
		f.logger.Warn("bad avatar url", "contact", name, "url", avatarURL, "error", err)
		return f.fallback
	}

	if err := f.downloadAvatar(ctx, absURL, localPath); err != nil {
		f.logger.Warn("avatar download failed", "contact", name, "url", absURL, "error", err)
		return f.fallback
	}

	f.store.Put(profileURL, f.clock.Now().UTC().Format(http.TimeFormat))
	f.logger.Info("avatar fetched", "contact", name)
	return ref
}

// fetchProfile issues the conditional profile-page request. The fixed
// inter-request delay follows every attempt regardless of outcome; it
// bounds the request rate against the single external host.
func (f *Fetcher) fetchProfile(ctx context.Context, profileURL string) (body []byte, notModified bool, err error) {
	defer f.clock.Sleep(f.delay)

	since, _ := f.store.Get(profileURL)
	return f.client.GetConditional(ctx, profileURL, since)
}

// downloadAvatar fetches the avatar image and writes it to path as
// JPEG, whatever format the server returned.
func (f *Fetcher) downloadAvatar(ctx context.Context, url, path string) error {
	data, err := f.client.Get(ctx, url)
	if err != nil {
		return err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return imaging.Save(img, path, imaging.JPEGQuality(90))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
