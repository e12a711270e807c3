package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kugo-bot/kugo/pkg/kugou"
)

// fakeTracks serves a fixed playlist.
type fakeTracks struct {
	tracks []kugou.Track
	err    error
}

func (f *fakeTracks) Tracks(ctx context.Context, collectionID string, credential string) ([]kugou.Track, error) {
	return f.tracks, f.err
}

// recordingPlayback collects deliveries.
type recordingPlayback struct {
	played   []string
	enqueued []string
}

func (p *recordingPlayback) Play(ctx context.Context, url string) error {
	p.played = append(p.played, url)
	return nil
}

func (p *recordingPlayback) Enqueue(ctx context.Context, url string) error {
	p.enqueued = append(p.enqueued, url)
	return nil
}

// nopPresenter satisfies host.Presenter.
type nopPresenter struct{}

func (nopPresenter) Message(string)                {}
func (nopPresenter) Status(string)                 {}
func (nopPresenter) ClearQR()                      {}
func (nopPresenter) ShowQR(string, []byte, string) {}

func makeTracks(n int) []kugou.Track {
	tracks := make([]kugou.Track, n)
	for i := range tracks {
		tracks[i] = kugou.Track{
			Title:       fmt.Sprintf("Song %d", i),
			Artist:      "Artist",
			ContentHash: fmt.Sprintf("hash-%d", i),
		}
	}
	return tracks
}

func newTestOrchestrator(songs SongClient, source TrackSource, creds CredentialSource, playback *recordingPlayback) *Orchestrator {
	resolver := NewResolver(songs, creds, zerolog.Nop())
	o := NewOrchestrator(resolver, source, creds, playback, nopPresenter{}, zerolog.Nop())
	o.SetPace(0)
	return o
}

func TestPlayPlaylist_FirstPlaysRestEnqueued(t *testing.T) {
	tracks := makeTracks(3)
	songs := &urlPerHash{prefix: "https://cdn/std/", credential: "user-cred"}
	creds := &fakeCreds{standard: "user-cred"}
	playback := &recordingPlayback{}

	o := newTestOrchestrator(songs, &fakeTracks{tracks: tracks}, creds, playback)
	if err := o.PlayPlaylist(context.Background(), kugou.PlaylistSummary{Name: "P", CollectionID: "c"}, Options{Identity: "uid"}); err != nil {
		t.Fatalf("PlayPlaylist: %v", err)
	}

	if len(playback.played) != 1 {
		t.Errorf("played = %v, want exactly the first track", playback.played)
	}
	if len(playback.enqueued) != 2 {
		t.Errorf("enqueued = %v, want the remaining tracks", playback.enqueued)
	}
}

// urlPerHash resolves every track for one specific credential.
type urlPerHash struct {
	prefix     string
	credential string
	calls      int
}

func (u *urlPerHash) URL(ctx context.Context, track kugou.Track, credential string) (string, error) {
	u.calls++
	if credential != u.credential {
		return "", nil
	}
	return u.prefix + track.ContentHash, nil
}

func TestPlayPlaylist_SkipsUnresolvableTracks(t *testing.T) {
	tracks := makeTracks(4)
	songs := &skippingSongs{deadHashes: map[string]bool{"hash-1": true, "hash-2": true}}
	creds := &fakeCreds{standard: "user-cred"}
	playback := &recordingPlayback{}

	o := newTestOrchestrator(songs, &fakeTracks{tracks: tracks}, creds, playback)
	if err := o.PlayPlaylist(context.Background(), kugou.PlaylistSummary{CollectionID: "c"}, Options{Identity: "uid"}); err != nil {
		t.Fatalf("PlayPlaylist: %v", err)
	}

	if len(playback.played) != 1 || len(playback.enqueued) != 1 {
		t.Errorf("played=%v enqueued=%v, want failures skipped without aborting", playback.played, playback.enqueued)
	}
}

type skippingSongs struct {
	deadHashes map[string]bool
}

func (s *skippingSongs) URL(ctx context.Context, track kugou.Track, credential string) (string, error) {
	if s.deadHashes[track.ContentHash] {
		return "", errors.New("resolution failed")
	}
	return "https://cdn/" + track.ContentHash, nil
}

func TestPlayPlaylist_NothingResolvable(t *testing.T) {
	songs := &fakeSongs{}
	creds := &fakeCreds{standard: "user-cred"}
	playback := &recordingPlayback{}

	o := newTestOrchestrator(songs, &fakeTracks{tracks: makeTracks(3)}, creds, playback)
	err := o.PlayPlaylist(context.Background(), kugou.PlaylistSummary{CollectionID: "c"}, Options{Identity: "uid"})
	if !errors.Is(err, ErrNoTracksDelivered) {
		t.Errorf("err = %v, want ErrNoTracksDelivered", err)
	}
}

func TestPlayPlaylist_EmptyPlaylist(t *testing.T) {
	o := newTestOrchestrator(&fakeSongs{}, &fakeTracks{}, &fakeCreds{}, &recordingPlayback{})
	err := o.PlayPlaylist(context.Background(), kugou.PlaylistSummary{CollectionID: "c"}, Options{})
	if !errors.Is(err, ErrNoTracksDelivered) {
		t.Errorf("err = %v, want ErrNoTracksDelivered", err)
	}
}

func TestPlayPlaylist_StickyTierWithFallback(t *testing.T) {
	// The first track resolves at VIP; track 1 then fails at VIP and
	// must fall back to standard rather than being skipped.
	songs := &tieredSongs{
		vipCred: "vip-cred",
		stdCred: "user-cred",
		vipDead: map[string]bool{"hash-1": true},
	}
	creds := &fakeCreds{vip: "vip-cred", standard: "user-cred"}
	playback := &recordingPlayback{}

	o := newTestOrchestrator(songs, &fakeTracks{tracks: makeTracks(2)}, creds, playback)
	if err := o.PlayPlaylist(context.Background(), kugou.PlaylistSummary{CollectionID: "c"}, Options{Identity: "uid"}); err != nil {
		t.Fatalf("PlayPlaylist: %v", err)
	}

	if len(playback.played) != 1 || playback.played[0] != "https://cdn/vip/hash-0" {
		t.Errorf("played = %v, want the VIP url for the first track", playback.played)
	}
	if len(playback.enqueued) != 1 || playback.enqueued[0] != "https://cdn/std/hash-1" {
		t.Errorf("enqueued = %v, want the standard fallback url", playback.enqueued)
	}
}

type tieredSongs struct {
	vipCred string
	stdCred string
	vipDead map[string]bool
}

func (s *tieredSongs) URL(ctx context.Context, track kugou.Track, credential string) (string, error) {
	switch credential {
	case s.vipCred:
		if s.vipDead[track.ContentHash] {
			return "", nil
		}
		return "https://cdn/vip/" + track.ContentHash, nil
	case s.stdCred:
		return "https://cdn/std/" + track.ContentHash, nil
	}
	return "", nil
}

func TestPlayPlaylist_PacingHonorsCancellation(t *testing.T) {
	songs := &urlPerHash{prefix: "https://cdn/", credential: "user-cred"}
	creds := &fakeCreds{standard: "user-cred"}
	playback := &recordingPlayback{}

	resolver := NewResolver(songs, creds, zerolog.Nop())
	o := NewOrchestrator(resolver, &fakeTracks{tracks: makeTracks(50)}, creds, playback, nopPresenter{}, zerolog.Nop())
	o.SetPace(time.Hour) // the first pause blocks until cancelled

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- o.PlayPlaylist(ctx, kugou.PlaylistSummary{CollectionID: "c"}, Options{Identity: "uid"})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PlayPlaylist did not stop on cancellation")
	}

	if len(playback.played) != 1 {
		t.Errorf("played = %v, want only the first track before cancellation", playback.played)
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, n := range []int{0, 1, 2, 10, 100} {
		original := makeTracks(n)
		shuffled := append([]kugou.Track(nil), original...)
		Shuffle(shuffled, rng)

		if len(shuffled) != n {
			t.Fatalf("n=%d: length changed to %d", n, len(shuffled))
		}

		seen := make(map[string]int)
		for _, tr := range original {
			seen[tr.ContentHash]++
		}
		for _, tr := range shuffled {
			seen[tr.ContentHash]--
		}
		for hash, count := range seen {
			if count != 0 {
				t.Errorf("n=%d: multiset mismatch for %s (%d)", n, hash, count)
			}
		}
	}
}

func TestShuffle_IsApproximatelyUniform(t *testing.T) {
	// Track 0's final position should be uniform over [0, n). With a
	// seeded generator and enough iterations, each position's count
	// stays well within 3 standard deviations of the mean.
	const (
		n     = 5
		iters = 20000
	)
	rng := rand.New(rand.NewSource(42))

	counts := make([]int, n)
	for it := 0; it < iters; it++ {
		tracks := makeTracks(n)
		Shuffle(tracks, rng)
		for pos, tr := range tracks {
			if tr.ContentHash == "hash-0" {
				counts[pos]++
			}
		}
	}

	mean := float64(iters) / n
	// binomial stddev with p = 1/n
	stddev := 56.6
	for pos, c := range counts {
		if diff := float64(c) - mean; diff > 3*stddev || diff < -3*stddev {
			t.Errorf("position %d count %d deviates from mean %.0f beyond 3σ", pos, c, mean)
		}
	}
}
