package kugou

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PlaylistService lists a logged-in user's playlists and their tracks.
type PlaylistService struct {
	client *Client
}

const (
	playlistPageSize  = 100
	playlistMaxTracks = 1000
)

var playlistArrayPaths = []string{
	"data.info",
	"data.list",
	"playlist",
	"data.playlists",
}

var playlistTrackArrayPaths = []string{
	"data.songs",
	"data.info",
	"songs",
	"data.list",
}

// List fetches the credential owner's playlists.
func (p *PlaylistService) List(ctx context.Context, credential string) ([]PlaylistSummary, error) {
	params := url.Values{
		"page":     {"1"},
		"pagesize": {"30"},
	}

	env, _, err := p.client.getJSON(ctx, "/user/playlist", params, credential)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	items := env.First(playlistArrayPaths...).Array()
	lists := make([]PlaylistSummary, 0, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.First("global_collection_id", "list_create_gid", "listid").String())
		if id == "" {
			// Without a collection id the tracks can never be fetched.
			continue
		}
		name := strings.TrimSpace(it.First("name", "listname", "title").String())
		count, _ := it.First("count", "song_count", "track_count").Int()
		lists = append(lists, PlaylistSummary{
			Name:         name,
			CollectionID: id,
			TrackCount:   count,
		})
	}

	p.client.logDebugf("kugou: listed %d playlists", len(lists))
	return lists, nil
}

// Tracks fetches all tracks of a playlist, paging through the gateway
// until a short page, an empty page, or the overall cap is reached.
func (p *PlaylistService) Tracks(ctx context.Context, collectionID string, credential string) ([]Track, error) {
	var tracks []Track

	for page := 1; len(tracks) < playlistMaxTracks; page++ {
		params := url.Values{
			"id":       {collectionID},
			"page":     {strconv.Itoa(page)},
			"pagesize": {strconv.Itoa(playlistPageSize)},
		}

		env, _, err := p.client.getJSON(ctx, "/playlist/track/all", params, credential)
		if err != nil {
			return nil, fmt.Errorf("playlist tracks page %d: %w", page, err)
		}

		items := env.First(playlistTrackArrayPaths...).Array()
		if len(items) == 0 {
			break
		}

		for _, it := range items {
			if t, ok := parsePlaylistTrack(it); ok {
				tracks = append(tracks, t)
			}
		}

		if len(items) < playlistPageSize {
			break
		}
	}

	if len(tracks) > playlistMaxTracks {
		tracks = tracks[:playlistMaxTracks]
	}

	p.client.logDebugf("kugou: playlist %s expanded to %d tracks", collectionID, len(tracks))
	return tracks, nil
}

// parsePlaylistTrack builds a Track from one playlist record. The
// playlist endpoint uses lowercase field names and encodes
// "Artist - Title" in the name field.
func parsePlaylistTrack(it *Envelope) (Track, bool) {
	name := strings.TrimSpace(it.First("name", "filename", "songname").String())
	title := name
	artist := strings.TrimSpace(it.First("singername", "author_name", "SingerName").String())
	if before, after, found := strings.Cut(name, " - "); found {
		title = strings.TrimSpace(after)
		if artist == "" {
			artist = strings.TrimSpace(before)
		}
	}

	hash := strings.TrimSpace(it.First("hash", "file_hash", "FileHash").String())
	albumID := strings.TrimSpace(it.First("album_id", "albumid", "AlbumID").String())

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
