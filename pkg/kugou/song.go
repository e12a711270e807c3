package kugou

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SongService resolves tracks to playable stream URLs.
type SongService struct {
	client *Client
}

// URL requests a stream URL for the track.
//
// Candidate fields are probed in priority order: the first entry of
// the url array, the first entry of the backupUrl array, then the
// legacy data.play_url / data.url / data.data.play_url fields.
// Returns "" without an error when no candidate resolves; callers are
// expected to retry with a different credential tier.
func (s *SongService) URL(ctx context.Context, track Track, credential string) (string, error) {
	params := url.Values{
		"hash":      {track.ContentHash},
		"album_id":  {track.AlbumID},
		"free_part": {"true"},
	}

	env, _, err := s.client.getJSON(ctx, "/song/url", params, credential)
	if err != nil {
		return "", fmt.Errorf("song url: %w", err)
	}

	if u := strings.TrimSpace(env.At("url").Index(0).String()); u != "" {
		return u, nil
	}
	if u := strings.TrimSpace(env.At("backupUrl").Index(0).String()); u != "" {
		return u, nil
	}
	if u := strings.TrimSpace(env.First("data.play_url", "data.url", "data.data.play_url").String()); u != "" {
		return u, nil
	}

	s.client.logDebugf("kugou: no stream url for %q (hash=%s)", track.Title, track.ContentHash)
	return "", nil
}
