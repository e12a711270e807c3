package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/kugo-bot/kugo/internal/host"
	"github.com/kugo-bot/kugo/pkg/kugou"
)

// ErrNoTracksDelivered is returned when a playlist expansion resolves
// no track at all.
var ErrNoTracksDelivered = errors.New("no track in the playlist could be resolved")

// TrackSource fetches the tracks of a playlist.
// *kugou.PlaylistService satisfies it.
type TrackSource interface {
	Tracks(ctx context.Context, collectionID string, credential string) ([]kugou.Track, error)
}

// defaultPace spaces consecutive URL resolutions to respect the
// gateway's rate limits.
const defaultPace = 500 * time.Millisecond

// Orchestrator expands a playlist into an ordered queue: the first
// resolvable track plays immediately, the rest are enqueued with a
// fixed inter-request delay. Single-track failures are logged and
// skipped.
type Orchestrator struct {
	resolver  *Resolver
	playlists TrackSource
	creds     CredentialSource
	playback  host.Playback
	presenter host.Presenter
	pace      time.Duration
	rng       *rand.Rand
	logger    zerolog.Logger
}

// Options tunes one playlist expansion.
type Options struct {
	Identity string
	Shuffle  bool
}

// NewOrchestrator creates an Orchestrator with the default pacing.
func NewOrchestrator(resolver *Resolver, playlists TrackSource, creds CredentialSource, playback host.Playback, presenter host.Presenter, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		resolver:  resolver,
		playlists: playlists,
		creds:     creds,
		playback:  playback,
		presenter: presenter,
		pace:      defaultPace,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
	}
}

// SetPace overrides the inter-resolution delay. Tests use this to run
// without real sleeps.
func (o *Orchestrator) SetPace(d time.Duration) {
	o.pace = d
}

// SetRand injects a seeded random source for deterministic shuffles.
func (o *Orchestrator) SetRand(rng *rand.Rand) {
	o.rng = rng
}

// PlayPlaylist expands the playlist and delivers its tracks.
//
// The first resolvable track is resolved with the full VIP→standard
// fallback and played; its tier sticks for the remaining tracks, each
// of which falls back to the standard tier when the sticky tier
// fails. Per-track failures are skipped; only resolving nothing at
// all is an error.
func (o *Orchestrator) PlayPlaylist(ctx context.Context, pl kugou.PlaylistSummary, opts Options) error {
	cred, _, err := o.creds.ForIdentity(ctx, opts.Identity)
	if err != nil {
		return err
	}

	tracks, err := o.playlists.Tracks(ctx, pl.CollectionID, cred)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}
	if len(tracks) == 0 {
		return ErrNoTracksDelivered
	}

	if opts.Shuffle {
		Shuffle(tracks, o.randSource())
	}

	o.logger.Info().Str("playlist", pl.Name).Int("tracks", len(tracks)).
		Bool("shuffle", opts.Shuffle).Msg("Expanding playlist")

	delivered := 0
	skipped := 0
	sticky := TierStandard

	for i, track := range tracks {
		if i > 0 {
			if err := pause(ctx, o.pace); err != nil {
				return err
			}
		}

		var res Resolved
		var err error
		if delivered == 0 {
			res, err = o.resolver.Resolve(ctx, track, opts.Identity)
		} else {
			res, err = o.resolveSticky(ctx, track, opts.Identity, sticky)
		}
		if err != nil || res.URL == "" {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			skipped++
			o.logger.Warn().Err(err).Str("track", track.Title).Msg("Skipping unresolvable track")
			continue
		}

		if delivered == 0 {
			sticky = res.Tier
			if err := o.playback.Play(ctx, res.URL); err != nil {
				return fmt.Errorf("failed to start playback: %w", err)
			}
			o.presenter.Message(fmt.Sprintf("Now playing: %s - %s (%s)", track.Artist, track.Title, res.Tier))
		} else {
			if err := o.playback.Enqueue(ctx, res.URL); err != nil {
				return fmt.Errorf("failed to enqueue track: %w", err)
			}
		}
		delivered++
	}

	if delivered == 0 {
		return ErrNoTracksDelivered
	}

	o.presenter.Status(fmt.Sprintf("Queued %d of %d tracks from %s.", delivered, len(tracks), pl.Name))
	if skipped > 0 {
		o.logger.Info().Int("skipped", skipped).Msg("Some tracks could not be resolved")
	}
	return nil
}

// resolveSticky tries the tier that worked for the first track, then
// falls back to standard.
func (o *Orchestrator) resolveSticky(ctx context.Context, track kugou.Track, identity string, sticky Tier) (Resolved, error) {
	res, err := o.resolver.ResolveTier(ctx, track, identity, sticky)
	if err == nil && res.URL != "" {
		return res, nil
	}
	if ctx.Err() != nil {
		return Resolved{}, ctx.Err()
	}
	if sticky == TierStandard {
		return res, err
	}
	return o.resolver.ResolveTier(ctx, track, identity, TierStandard)
}

func (o *Orchestrator) randSource() *rand.Rand {
	if o.rng != nil {
		return o.rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle permutes tracks in place with a Fisher–Yates walk: a
// uniform index in [0, i] for each position i descending.
func Shuffle(tracks []kugou.Track, rng *rand.Rand) {
	for i := len(tracks) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		tracks[i], tracks[j] = tracks[j], tracks[i]
	}
}

// pause waits for d or until ctx is cancelled.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
