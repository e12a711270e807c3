package host

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/kugo-bot/kugo/pkg/kugou"
)

// TrackList renders search results as a numbered listing with the
// artist column padded to a uniform display width. Kugou catalogs are
// full of CJK names, so padding goes by rune width, not byte length.
func TrackList(tracks []kugou.Track) string {
	if len(tracks) == 0 {
		return "No matching songs found."
	}

	width := 0
	for _, t := range tracks {
		if w := runewidth.StringWidth(t.Artist); w > width {
			width = w
		}
	}

	var b strings.Builder
	for i, t := range tracks {
		fmt.Fprintf(&b, "%2d. %s  %s\n", i+1, runewidth.FillRight(t.Artist, width), t.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TrackLabel renders one track as "Artist - Title" for announcements.
func TrackLabel(t kugou.Track) string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// PlaylistList renders a user's playlists as a numbered listing.
func PlaylistList(lists []kugou.PlaylistSummary) string {
	if len(lists) == 0 {
		return "No playlists found."
	}

	width := 0
	for _, p := range lists {
		if w := runewidth.StringWidth(p.Name); w > width {
			width = w
		}
	}

	var b strings.Builder
	for i, p := range lists {
		fmt.Fprintf(&b, "%2d. %s  (%d tracks)\n", i+1, runewidth.FillRight(p.Name, width), p.TrackCount)
	}
	return strings.TrimRight(b.String(), "\n")
}
