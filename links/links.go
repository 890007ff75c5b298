// Package links edits a profile's ordered link list. Every function returns
// a new slice; persistence is the caller's job via a whole-profile upsert.
package links

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"riselink-backend/models"
)

// Add appends a new link with order equal to the current length. Empty title
// or url is a no-op. URLs without a scheme are defaulted to https.
func Add(links []models.Link, title, url string) []models.Link {
	if title == "" || url == "" {
		return links
	}

	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}

	link := models.Link{
		ID:    uuid.NewString(),
		Title: title,
		URL:   url,
		Order: len(links),
	}

	out := make([]models.Link, 0, len(links)+1)
	out = append(out, links...)
	return append(out, link)
}

// Remove filters out the link with the given id. Remaining order values are
// not renumbered; gaps in the order space are expected after deletion.
func Remove(links []models.Link, id string) []models.Link {
	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

// Sorted returns the links in display order, ascending by order value.
// Renderers must use this rather than slice position since deletions can
// leave the order space non-contiguous.
func Sorted(links []models.Link) []models.Link {
	out := make([]models.Link, len(links))
	copy(out, links)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
