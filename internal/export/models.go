package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultAvatarURL is the generic buddy icon used when no avatar can be
// resolved for a contact and the account profile carries none either.
const DefaultAvatarURL = "https://www.flickr.com/images/buddyicon.gif"

// PhotoRecord is one photo's metadata as stored in the export.
// Optional fields default rather than fail: the export format has
// varied over time and older records omit counters and EXIF data.
type PhotoRecord struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	DateTaken     string            `json:"date_taken"`
	CountViews    Count             `json:"count_views"`
	CountFaves    Count             `json:"count_faves"`
	CountComments Count             `json:"count_comments"`
	Exif          map[string]string `json:"exif_data"`
	Groups        []Group           `json:"groups"`
	Tags          Tags              `json:"tags"`

	// ImgSrc is derived from the photo filename index, never stored.
	ImgSrc string `json:"-"`
}

// Title returns the display title, defaulting for unnamed photos.
func (p *PhotoRecord) Title() string {
	if p.Name == "" {
		return "Untitled"
	}
	return p.Name
}

// Count is an engagement counter. Exports carry these either as JSON
// numbers or as decimal strings depending on the export version.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", s, err)
	}
	*c = Count(n)
	return nil
}

// Group is a photo-sharing group the photo was posted to.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Tags is an ordered tag list. Exports store tags either as plain
// strings or as objects with a "tag" field; both forms are accepted.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make([]string, 0, len(raw))
	for _, m := range raw {
		var s string
		if err := json.Unmarshal(m, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Tag string `json:"tag"`
		}
		if err := json.Unmarshal(m, &obj); err != nil {
			return fmt.Errorf("invalid tag entry: %w", err)
		}
		out = append(out, obj.Tag)
	}
	*t = out
	return nil
}

// Album is one album from the album manifest. Photos holds the member
// photo IDs in manifest order; it is never re-sorted, only the display
// order within the album page is date-sorted.
type Album struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Created     string   `json:"created"`
	CoverPhoto  string   `json:"cover_photo"`
	Photos      []string `json:"photos"`

	// CoverPhotoFilename is resolved through the photo index, never stored.
	CoverPhotoFilename string `json:"-"`
}

// DisplayTitle returns the album title, defaulting for untitled albums.
func (a *Album) DisplayTitle() string {
	if a.Title == "" {
		return "Untitled Album"
	}
	return a.Title
}

// CoverPhotoID returns the photo index lookup key for the album cover.
// The manifest stores the cover as a path-like string; only the final
// segment matters. That segment is either a bare photo ID or a
// rendition filename like <...>_<id>_o.jpg, where the ID is the
// second-to-last underscore-delimited part.
func (a *Album) CoverPhotoID() string {
	if a.CoverPhoto == "" {
		return ""
	}
	segments := strings.Split(a.CoverPhoto, "/")
	last := segments[len(segments)-1]
	if !strings.Contains(last, "_") {
		return last
	}
	parts := strings.Split(last, "_")
	return parts[len(parts)-2]
}

// AccountProfile is the exporting account's profile record.
type AccountProfile struct {
	RealName string `json:"real_name"`
	Avatar   string `json:"avatar"`
}

// FormatError reports a required file whose document shape does not
// match the export format. It is distinct from plain JSON syntax errors
// so callers can tell "not valid JSON" from "valid JSON, wrong shape".
type FormatError struct {
	File   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}
