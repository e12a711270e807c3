// Package player turns tracks into playable stream URLs and expands
// playlists into a paced playback queue.
package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kugo-bot/kugo/pkg/kugou"
)

// Tier names a credential tier used for URL resolution.
type Tier string

const (
	// TierVIP resolves with the shared VIP credential.
	TierVIP Tier = "vip"
	// TierStandard resolves with the identity's own credential, or
	// anonymously when none is stored.
	TierStandard Tier = "standard"
)

// ErrNoPlayableURL is returned when no credential tier yields a
// stream URL for a track.
var ErrNoPlayableURL = errors.New("no playable url for track")

// SongClient is the slice of the gateway SDK the resolver needs.
type SongClient interface {
	URL(ctx context.Context, track kugou.Track, credential string) (string, error)
}

// CredentialSource supplies per-tier credentials.
// *credential.Store satisfies it.
type CredentialSource interface {
	VIP(ctx context.Context) (string, bool, error)
	ForIdentity(ctx context.Context, identity string) (string, bool, error)
}

// Resolved is a successful resolution and the tier that produced it,
// reported to the user for display.
type Resolved struct {
	URL  string
	Tier Tier
}

// Resolver resolves stream URLs through an ordered list of credential
// tiers: VIP first, then standard. The first success wins; a
// transport failure or absent URL in one tier falls through to the
// next and only surfaces once every tier is exhausted.
type Resolver struct {
	songs  SongClient
	creds  CredentialSource
	logger zerolog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(songs SongClient, creds CredentialSource, logger zerolog.Logger) *Resolver {
	return &Resolver{
		songs:  songs,
		creds:  creds,
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve tries every tier in order for the identity's track.
func (r *Resolver) Resolve(ctx context.Context, track kugou.Track, identity string) (Resolved, error) {
	var lastErr error

	for _, tier := range []Tier{TierVIP, TierStandard} {
		res, err := r.ResolveTier(ctx, track, identity, tier)
		if err != nil {
			if ctx.Err() != nil {
				return Resolved{}, err
			}
			r.logger.Debug().Err(err).Str("tier", string(tier)).Str("track", track.Title).
				Msg("Tier failed, trying next")
			lastErr = err
			continue
		}
		if res.URL != "" {
			return res, nil
		}
	}

	if lastErr != nil {
		return Resolved{}, fmt.Errorf("%w (last failure: %v)", ErrNoPlayableURL, lastErr)
	}
	return Resolved{}, ErrNoPlayableURL
}

// ResolveTier resolves with one pinned tier. An absent URL is
// reported as Resolved with an empty URL, not an error, so callers
// can distinguish "tier said no" from "tier unreachable".
func (r *Resolver) ResolveTier(ctx context.Context, track kugou.Track, identity string, tier Tier) (Resolved, error) {
	cred, ok, err := r.tierCredential(ctx, identity, tier)
	if err != nil {
		return Resolved{}, err
	}
	if tier == TierVIP && !ok {
		// No VIP credential stored: a VIP attempt would just be an
		// anonymous request, which the standard tier already makes.
		return Resolved{Tier: tier}, nil
	}

	url, err := r.songs.URL(ctx, track, cred)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{URL: url, Tier: tier}, nil
}

func (r *Resolver) tierCredential(ctx context.Context, identity string, tier Tier) (string, bool, error) {
	if tier == TierVIP {
		return r.creds.VIP(ctx)
	}
	return r.creds.ForIdentity(ctx, identity)
}
