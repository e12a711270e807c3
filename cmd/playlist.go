package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kugo-bot/kugo/internal/host"
	"github.com/kugo-bot/kugo/internal/player"
	"github.com/kugo-bot/kugo/pkg/kugou"
)

var flagShuffle bool

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List this identity's playlists",
	Long: `List the playlists belonging to the logged-in identity.

The listing is remembered so a follow-up 'kugo playfl <number>' can
expand one into the playback queue. Requires a prior 'kugo login'.`,
	Args: cobra.NoArgs,
	RunE: runPlaylists,
}

var playflCmd = &cobra.Command{
	Use:   "playfl <number>",
	Short: "Queue a playlist from the last listing",
	Long: `Expand a numbered playlist from this identity's last listing into the
playback queue.

The first resolvable track starts playing immediately and the rest are
enqueued behind it, one every half second. Tracks that cannot be
resolved to a stream URL are skipped. With --shuffle the order is
randomized before queueing.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayFromList,
}

func init() {
	playflCmd.Flags().BoolVar(&flagShuffle, "shuffle", false, "Randomize the playlist order before queueing")
	rootCmd.AddCommand(playlistsCmd)
	rootCmd.AddCommand(playflCmd)
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	cred, ok, err := a.creds.ForIdentity(ctx, a.identity)
	if err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}
	if !ok {
		return errors.New("no stored login; run 'kugo login' first")
	}

	lists, err := a.client.Playlist().List(ctx, cred)
	if err != nil {
		a.logger.Error().Err(err).Msg("Playlist listing failed")
		return errors.New("could not fetch playlists: the gateway could not be reached")
	}

	a.rememberPlaylists(lists)
	if len(lists) == 0 {
		a.console.Message("No playlists found for this account.")
		return nil
	}
	a.console.Message(host.PlaylistList(lists))
	a.console.Message("Queue one with 'kugo playfl <number>'.")
	return nil
}

// rememberPlaylists records the listing for this identity, displacing
// the previous one even when the account has no playlists.
func (a *app) rememberPlaylists(lists []kugou.PlaylistSummary) {
	if err := a.sessions.PutPlaylists(a.identity, lists); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to persist session cache")
	}
}

func runPlayFromList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	lists, ok := a.sessions.Playlists(a.identity)
	if !ok || len(lists) == 0 {
		return errors.New("no cached playlist listing; run 'kugo playlists' first")
	}

	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 || index > len(lists) {
		return fmt.Errorf("invalid selection %q: choose a number between 1 and %d", args[0], len(lists))
	}

	orch := player.NewOrchestrator(a.resolver, a.client.Playlist(), a.creds, a.playback, a.console, a.logger)
	err = orch.PlayPlaylist(cmd.Context(), lists[index-1], player.Options{
		Identity: a.identity,
		Shuffle:  flagShuffle,
	})
	if errors.Is(err, player.ErrNoTracksDelivered) {
		return fmt.Errorf("could not resolve any track from %q", lists[index-1].Name)
	}
	if err != nil {
		a.logger.Error().Err(err).Str("playlist", lists[index-1].Name).Msg("Playlist expansion failed")
		return errors.New("playlist expansion failed: the gateway could not be reached")
	}
	return nil
}
