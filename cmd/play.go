package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kugo-bot/kugo/internal/host"
	"github.com/kugo-bot/kugo/pkg/kugou"
)

var playCmd = &cobra.Command{
	Use:   "play [number]",
	Short: "Play a song from the last search results",
	Long: `Play a numbered entry from this identity's last search results,
defaulting to the first.

The song is resolved to a stream URL with the stored VIP credential
first and the identity's own credential second, and handed to the
playback side-channel.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

var dplayCmd = &cobra.Command{
	Use:   "dplay <words...>",
	Short: "Search and immediately play the best match",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDirect(false),
}

var addCmd = &cobra.Command{
	Use:   "add <words...>",
	Short: "Search and enqueue the best match",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDirect(true),
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(dplayCmd)
	rootCmd.AddCommand(addCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tracks, ok := a.sessions.Search(a.identity)
	if !ok || len(tracks) == 0 {
		return errors.New("no cached search results; run 'kugo search <words>' first")
	}

	index := 1
	if len(args) == 1 {
		index, err = strconv.Atoi(args[0])
		if err != nil || index < 1 || index > len(tracks) {
			return fmt.Errorf("invalid selection %q: choose a number between 1 and %d", args[0], len(tracks))
		}
	}

	return a.deliver(cmd.Context(), tracks[index-1], false)
}

// runDirect builds the handler shared by dplay and add: search, keep
// the top results for follow-up selections, deliver the first match.
func runDirect(enqueue bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		query := strings.Join(args, " ")

		cred, _, err := a.creds.ForIdentity(ctx, a.identity)
		if err != nil {
			a.logger.Warn().Err(err).Msg("Failed to load credential, searching anonymously")
			cred = ""
		}

		tracks, err := a.client.Search().Songs(ctx, query, cred)
		if err != nil {
			a.logger.Error().Err(err).Str("query", query).Msg("Search request failed")
			return errors.New("search failed: the gateway could not be reached")
		}

		tracks = a.rememberSearch(tracks)
		if len(tracks) == 0 {
			a.console.Message("No songs found for \"" + query + "\".")
			return nil
		}

		return a.deliver(ctx, tracks[0], enqueue)
	}
}

// deliver resolves one track and hands its URL to the playback
// side-channel, announcing what was picked and through which tier.
func (a *app) deliver(ctx context.Context, track kugou.Track, enqueue bool) error {
	res, err := a.resolver.Resolve(ctx, track, a.identity)
	if err != nil {
		a.logger.Error().Err(err).Str("title", track.Title).Msg("Stream resolution failed")
		return fmt.Errorf("could not get a stream URL for %s; try another song", host.TrackLabel(track))
	}

	verb := "Now playing"
	if enqueue {
		verb = "Queued"
	}
	a.console.Message(fmt.Sprintf("%s: %s (%s)", verb, host.TrackLabel(track), res.Tier))

	if enqueue {
		return a.playback.Enqueue(ctx, res.URL)
	}
	return a.playback.Play(ctx, res.URL)
}
