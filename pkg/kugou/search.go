package kugou

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SearchService provides song search against the gateway.
type SearchService struct {
	client *Client
}

// searchArrayPaths lists where successive gateway versions have put
// the result array, in probe order.
var searchArrayPaths = []string{
	"data.lists",
	"data.list",
	"result.songs",
	"songs",
	"data.songs",
}

// Songs searches the catalog for query and returns the parsed tracks.
//
// credential, when non-empty, is sent as the Cookie header so that a
// logged-in account's result quality applies. An empty result set is
// not an error.
func (s *SearchService) Songs(ctx context.Context, query string, credential string) ([]Track, error) {
	params := url.Values{
		"keywords": {query},
		"pagesize": {"10"},
		"page":     {"1"},
		"type":     {"song"},
	}

	env, _, err := s.client.getJSON(ctx, "/search/song", params, credential)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}

	items := env.First(searchArrayPaths...).Array()
	tracks := make([]Track, 0, len(items))
	for _, it := range items {
		if t, ok := parseSearchTrack(it); ok {
			tracks = append(tracks, t)
		}
	}

	s.client.logDebugf("kugou: search %q returned %d tracks", query, len(tracks))
	return tracks, nil
}

// parseSearchTrack builds a Track from one search result record.
//
// Hash precedence is HQ > SQ > FileHash so the highest-bitrate
// identifier wins. The title falls back from OriSongName to the part
// of FileName after the first " - " separator, then to the raw
// FileName. Records with neither a usable title nor an artist, or
// with neither a hash nor an album id, are dropped.
func parseSearchTrack(it *Envelope) (Track, bool) {
	title := strings.TrimSpace(it.At("OriSongName").String())
	if title == "" {
		fileName := strings.TrimSpace(it.At("FileName").String())
		if fileName != "" {
			if _, after, found := strings.Cut(fileName, " - "); found {
				title = strings.TrimSpace(after)
			} else {
				title = fileName
			}
		}
	}

	artist := strings.TrimSpace(it.At("SingerName").String())

	hash := strings.TrimSpace(it.At("HQ.Hash").String())
	if hash == "" {
		hash = strings.TrimSpace(it.At("SQ.Hash").String())
	}
	if hash == "" {
		hash = strings.TrimSpace(it.At("FileHash").String())
	}

	albumID := strings.TrimSpace(it.At("AlbumID").String())

	if title == "" && artist == "" {
		return Track{}, false
	}
	if hash == "" && albumID == "" {
		return Track{}, false
	}

	return Track{
		Title:       title,
		Artist:      artist,
		ContentHash: hash,
		AlbumID:     albumID,
	}, true
}
