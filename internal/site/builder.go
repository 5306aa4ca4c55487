package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"statickr-go/internal/export"
)

// Options controls ordering and pagination of the generated listings.
type Options struct {
	OldestFirst   bool
	Paging        bool
	PhotosPerPage int
}

// Builder joins loaded export records into per-page view models and
// renders them through the template set. All writes land under the
// destination directory layout: photos/, albums/, contacts/.
type Builder struct {
	renderer *Renderer
	loader   *export.Loader
	index    *export.PhotoIndex
	logger   *slog.Logger
	opts     Options
}

func NewBuilder(renderer *Renderer, loader *export.Loader, index *export.PhotoIndex, logger *slog.Logger, opts Options) *Builder {
	return &Builder{
		renderer: renderer,
		loader:   loader,
		index:    index,
		logger:   logger,
		opts:     opts,
	}
}

// PhotoPage is the view model for one photo detail page. Prev and Next
// are the photo's neighbors within the fully sorted listing, nil at
// either end.
type PhotoPage struct {
	Photo  *export.PhotoRecord
	Title  string
	ImgSrc string
	Prev   *export.PhotoRecord
	Next   *export.PhotoRecord
}

// ListingPage is the view model for one photo listing page.
type ListingPage struct {
	Photos     []*export.PhotoRecord
	Page       int
	TotalPages int
	Paging     bool
}

// AlbumsPage is the view model for the album index.
type AlbumsPage struct {
	Albums []*export.Album
}

// AlbumPage is the view model for one album detail page.
type AlbumPage struct {
	Album  *export.Album
	Title  string
	Photos []*export.PhotoRecord
}

// Contact is one row on the contacts page.
type Contact struct {
	Name       string
	ProfileURL string
	Avatar     string
}

// ContactsPage is the view model for the contacts page.
type ContactsPage struct {
	Contacts []Contact
}

// BuildHome writes the site home page. It renders with no per-run data.
func (b *Builder) BuildHome(dest string) error {
	b.logger.Info("creating index.html")
	return b.renderer.RenderToFile(filepath.Join(dest, "index.html"), "index.html", nil)
}

// BuildPhotos loads all photo records, emits one detail page per photo
// and the sorted, paginated listing pages, plus a duplicate of page 1
// as the default listing index.
func (b *Builder) BuildPhotos(dest string) error {
	b.logger.Info("creating photos/index.html")

	photos, err := b.loader.Photos(b.index)
	if err != nil {
		return err
	}
	sortPhotosByDate(photos, b.opts.OldestFirst)

	photosDir := filepath.Join(dest, "photos")
	if err := os.MkdirAll(photosDir, 0755); err != nil {
		return fmt.Errorf("creating photos directory: %w", err)
	}

	// Detail pages are per-item: one failing photo is logged and
	// skipped, the run continues.
	for i, photo := range photos {
		page := PhotoPage{
			Photo:  photo,
			Title:  photo.Title(),
			ImgSrc: photo.ImgSrc,
		}
		if i > 0 {
			page.Prev = photos[i-1]
		}
		if i < len(photos)-1 {
			page.Next = photos[i+1]
		}

		path := filepath.Join(photosDir, photo.ID+".html")
		if err := b.renderer.RenderToFile(path, "photo.html", page); err != nil {
			b.logger.Error("failed to create photo page", "photo", photo.ID, "error", err)
		}
	}

	totalPages := 1
	perPage := len(photos)
	if b.opts.Paging {
		perPage = b.opts.PhotosPerPage
		if n := TotalPages(len(photos), perPage); n > 1 {
			totalPages = n
		}
	}

	for page := 1; page <= totalPages; page++ {
		pagePhotos := photos
		if b.opts.Paging {
			pagePhotos = pageSlice(photos, page, perPage)
		}
		data := ListingPage{
			Photos:     pagePhotos,
			Page:       page,
			TotalPages: totalPages,
			Paging:     b.opts.Paging,
		}
		path := filepath.Join(photosDir, fmt.Sprintf("index%d.html", page))
		if err := b.renderer.RenderToFile(path, "photos.html", data); err != nil {
			return err
		}
	}

	return duplicateFile(
		filepath.Join(photosDir, "index1.html"),
		filepath.Join(photosDir, "index.html"),
	)
}

// BuildAlbums loads the album manifest, emits one page per album and
// the album index. A single album page failing to render is per-item;
// loader errors abort the run.
func (b *Builder) BuildAlbums(dest string) error {
	b.logger.Info("creating albums/index.html and individual album pages")

	albums, err := b.loader.Albums()
	if err != nil {
		return err
	}
	sortAlbumsByCreated(albums, b.opts.OldestFirst)

	albumsDir := filepath.Join(dest, "albums")
	if err := os.MkdirAll(albumsDir, 0755); err != nil {
		return fmt.Errorf("creating albums directory: %w", err)
	}

	for _, album := range albums {
		album.CoverPhotoFilename = b.index.Filename(album.CoverPhotoID())
		if err := b.buildAlbumPage(albumsDir, album); err != nil {
			return err
		}
	}

	path := filepath.Join(albumsDir, "index.html")
	return b.renderer.RenderToFile(path, "albums.html", AlbumsPage{Albums: albums})
}

func (b *Builder) buildAlbumPage(albumsDir string, album *export.Album) error {
	b.logger.Debug("creating album page", "album", album.ID, "title", album.DisplayTitle())

	var members []*export.PhotoRecord
	for _, id := range album.Photos {
		photo, err := b.loader.Photo(id, b.index)
		if err != nil {
			return err
		}
		if photo == nil {
			// referenced ID with no record file: silently omitted
			continue
		}
		members = append(members, photo)
	}
	sortPhotosByDate(members, b.opts.OldestFirst)

	data := AlbumPage{
		Album:  album,
		Title:  album.DisplayTitle(),
		Photos: members,
	}
	path := filepath.Join(albumsDir, album.ID+".html")
	if err := b.renderer.RenderToFile(path, "album.html", data); err != nil {
		b.logger.Error("failed to create album page", "album", album.ID, "error", err)
	}
	return nil
}

// BuildContacts writes the contacts page from pre-resolved entries.
func (b *Builder) BuildContacts(dest string, contacts []Contact) error {
	b.logger.Info("creating contacts/index.html")

	contactsDir := filepath.Join(dest, "contacts")
	if err := os.MkdirAll(contactsDir, 0755); err != nil {
		return fmt.Errorf("creating contacts directory: %w", err)
	}

	path := filepath.Join(contactsDir, "index.html")
	return b.renderer.RenderToFile(path, "contacts.html", ContactsPage{Contacts: contacts})
}

// duplicateFile copies src to dst byte for byte.
func duplicateFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
