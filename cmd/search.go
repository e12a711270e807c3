package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kugo-bot/kugo/internal/host"
	"github.com/kugo-bot/kugo/pkg/kugou"
)

const searchResultLimit = 10

var searchCmd = &cobra.Command{
	Use:   "search <words...>",
	Short: "Search the catalog and cache the results",
	Long: `Search the catalog for songs matching the given words.

Up to ten results are shown as a numbered list and remembered for this
identity, so a follow-up 'kugo play <number>' can pick one without
searching again. A stored login credential is attached when present
but is not required.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	a.console.Message(host.TrackList(tracks))
	a.console.Message("Pick one with 'kugo play <number>'.")
	return nil
}

// rememberSearch trims the results to the display limit and records
// them for this identity. An empty result set is recorded too, so a
// miss displaces the previous search instead of leaving it playable.
func (a *app) rememberSearch(tracks []kugou.Track) []kugou.Track {
	if len(tracks) > searchResultLimit {
		tracks = tracks[:searchResultLimit]
	}
	if err := a.sessions.PutSearch(a.identity, tracks); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to persist session cache")
	}
	return tracks
}
