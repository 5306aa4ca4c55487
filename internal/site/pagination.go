package site

import (
	"sort"

	"statickr-go/internal/export"
)

// TotalPages returns ceil(count / perPage).
func TotalPages(count, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// pageSlice returns the photos belonging to the 1-based page number.
func pageSlice(photos []*export.PhotoRecord, page, perPage int) []*export.PhotoRecord {
	start := (page - 1) * perPage
	if start >= len(photos) {
		return nil
	}
	end := start + perPage
	if end > len(photos) {
		end = len(photos)
	}
	return photos[start:end]
}

// sortPhotosByDate orders photos by date_taken. ISO-8601 strings make
// lexicographic comparison sufficient; absent dates compare as the
// empty string and sort first when ascending. The sort is stable, so
// reversing the flag exactly reverses the order for unique keys.
func sortPhotosByDate(photos []*export.PhotoRecord, oldestFirst bool) {
	sort.SliceStable(photos, func(i, j int) bool {
		if oldestFirst {
			return photos[i].DateTaken < photos[j].DateTaken
		}
		return photos[i].DateTaken > photos[j].DateTaken
	})
}

// sortAlbumsByCreated orders albums by creation date under the same
// rules as sortPhotosByDate.
func sortAlbumsByCreated(albums []*export.Album, oldestFirst bool) {
	sort.SliceStable(albums, func(i, j int) bool {
		if oldestFirst {
			return albums[i].Created < albums[j].Created
		}
		return albums[i].Created > albums[j].Created
	})
}
