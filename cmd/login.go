package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kugo-bot/kugo/internal/credential"
	"github.com/kugo-bot/kugo/internal/login"
)

var flagVIP bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Kugou by scanning a QR code",
	Long: `Start the QR login flow.

A QR code is shown; scan it with the Kugou mobile app and confirm.
The command polls the gateway until the login is confirmed, then
stores the captured credential for this identity. With --vip the
credential is stored as the shared VIP account every identity's
playback falls back on.

Polling gives up after two minutes; Ctrl-C cancels it early.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&flagVIP, "vip", false, "Store the credential as the shared VIP account")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flow := login.New(a.client.Auth(), a.creds, a.console, login.Config{
		QRRenderAPI: a.cfg.QRRenderAPI,
	}, a.logger)

	res, err := flow.Run(ctx, a.identity, flagVIP)
	switch {
	case errors.Is(err, login.ErrAuthTimeout):
		return errors.New("login timed out before the QR code was confirmed; run 'kugo login' again")
	case errors.Is(err, login.ErrAuthIncomplete):
		a.logger.Error().Err(err).Msg("Login flow failed")
		return errors.New("login failed: the gateway did not complete the QR handshake")
	case errors.Is(err, context.Canceled):
		return errors.New("login cancelled")
	case err != nil:
		a.logger.Error().Err(err).Msg("Login flow failed")
		return errors.New("login failed: the gateway could not be reached")
	}

	if res.Scope == credential.VIPScope {
		a.console.Message("Logged in. The VIP account credential was saved for everyone's playback.")
	} else {
		a.console.Message("Logged in. Your credential was saved.")
	}
	return nil
}
