// Package login drives the QR authentication flow against the
// gateway: issue a key, materialize the QR code, poll for the scan,
// capture the credential, persist it.
package login

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kugo-bot/kugo/internal/credential"
	"github.com/kugo-bot/kugo/internal/host"
	"github.com/kugo-bot/kugo/pkg/kugou"
)

var (
	// ErrAuthTimeout is returned when the user does not confirm the
	// scan before the deadline. The whole flow must be re-run; login
	// keys are not resumable.
	ErrAuthTimeout = errors.New("login timed out before the scan was confirmed")

	// ErrAuthIncomplete is returned when the gateway handshake comes
	// back without a login key, QR URL, or storable credential.
	ErrAuthIncomplete = errors.New("login handshake incomplete")
)

// AuthClient is the slice of the gateway SDK the flow needs.
// *kugou.AuthService satisfies it; tests script their own.
type AuthClient interface {
	QRKey(ctx context.Context) (string, error)
	QRCreate(ctx context.Context, key string) (kugou.QRCode, error)
	QRCheck(ctx context.Context, key string) (kugou.QRStatus, error)
}

// CredentialSaver persists the captured credential.
type CredentialSaver interface {
	Save(ctx context.Context, scope, value string) error
}

// Config holds flow tuning. Zero values take the defaults the gateway
// was designed around.
type Config struct {
	PollInterval time.Duration // default 1.5s
	Timeout      time.Duration // default 120s
	QRRenderAPI  string        // default DefaultQRRenderAPI
}

const (
	defaultPollInterval = 1500 * time.Millisecond
	defaultTimeout      = 120 * time.Second

	// DefaultQRRenderAPI is the third-party rendering service the QR
	// link points at; the login URL is appended URL-encoded.
	DefaultQRRenderAPI = "https://api.qrtool.cn/?text="
)

// Flow runs one QR login attempt. The same flow serves normal and VIP
// logins; only the persistence scope and user-facing copy differ.
type Flow struct {
	auth      AuthClient
	creds     CredentialSaver
	presenter host.Presenter
	cfg       Config
	logger    zerolog.Logger
}

// New creates a Flow.
func New(auth AuthClient, creds CredentialSaver, presenter host.Presenter, cfg Config, logger zerolog.Logger) *Flow {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.QRRenderAPI == "" {
		cfg.QRRenderAPI = DefaultQRRenderAPI
	}
	return &Flow{
		auth:      auth,
		creds:     creds,
		presenter: presenter,
		cfg:       cfg,
		logger:    logger.With().Str("component", "login").Logger(),
	}
}

// Result reports where a successful login stored its credential.
type Result struct {
	Scope      string
	Credential string
}

// Run executes the flow once: Init → KeyIssued → QrPresented →
// Polling → Confirmed/TimedOut → Cleanup → Saved/Failed.
//
// vip selects the shared VIP scope instead of the identity's own.
// Cancelling ctx aborts the poll; cleanup runs on every exit path.
func (f *Flow) Run(ctx context.Context, identity string, vip bool) (Result, error) {
	key, err := f.auth.QRKey(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to issue login key: %w", err)
	}
	if key == "" {
		return Result{}, fmt.Errorf("%w: no login key in response", ErrAuthIncomplete)
	}
	f.logger.Debug().Str("key", key).Msg("Login key issued")

	qr, err := f.auth.QRCreate(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create QR code: %w", err)
	}
	if qr.URL == "" {
		return Result{}, fmt.Errorf("%w: no login url in response", ErrAuthIncomplete)
	}

	// Cleanup must run whether we confirm, time out, or get cancelled.
	defer f.presenter.ClearQR()

	prompt := "Scan with the Kugou app to log in, then confirm on your phone:"
	if vip {
		prompt = "Scan with the VIP account's Kugou app, then confirm on your phone:"
	}
	f.presenter.ShowQR(prompt, decodeQRImage(qr.ImageBase64), f.cfg.QRRenderAPI+url.QueryEscape(qr.URL))

	cred, err := f.poll(ctx, key)
	if err != nil {
		return Result{}, err
	}

	scope := credential.UserScope(identity)
	if vip {
		scope = credential.VIPScope
	}
	if err := f.creds.Save(ctx, scope, cred); err != nil {
		return Result{}, fmt.Errorf("failed to save credential: %w", err)
	}

	f.logger.Info().Str("scope", scope).Msg("Login confirmed, credential saved")
	f.presenter.Status("Login successful: credential saved.")

	return Result{Scope: scope, Credential: cred}, nil
}

// poll queries scan status every PollInterval until confirmation or
// the wall-clock deadline. Intermediate and unrecognized status codes
// keep polling.
func (f *Flow) poll(ctx context.Context, key string) (string, error) {
	deadline := time.Now().Add(f.cfg.Timeout)
	ticker := time.NewTicker(f.cfg.PollInterval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		st, err := f.auth.QRCheck(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			// A flaky check is not fatal while time remains.
			f.logger.Debug().Err(err).Msg("Status check failed, continuing to poll")
			continue
		}

		f.logger.Debug().Int("status", st.Code).Msg("Login status")

		switch st.Code {
		case kugou.QRStatusConfirmed:
			if cred := captureCredential(st); cred != "" {
				return cred, nil
			}
			// Confirmed but nothing usable to store.
			return "", fmt.Errorf("%w: confirmed without a credential", ErrAuthIncomplete)
		case kugou.QRStatusScanned:
			f.logger.Debug().Msg("Scanned, awaiting confirmation on phone")
		}
	}

	return "", ErrAuthTimeout
}

// captureCredential prefers the full joined cookie set over the body
// token: the cookies carry every pair the catalog expects back.
func captureCredential(st kugou.QRStatus) string {
	if joined := credential.JoinCookies(st.Cookies); joined != "" {
		return joined
	}
	token := strings.TrimSpace(st.Token)
	if token == "" {
		return ""
	}
	if !strings.Contains(token, "=") {
		return "token=" + token
	}
	return credential.Sanitize(token)
}

// decodeQRImage turns a data-URI or bare base64 PNG into bytes.
// Undecodable input yields nil; the rendering-service link is the
// redundant channel.
func decodeQRImage(img string) []byte {
	if img == "" {
		return nil
	}
	if _, after, found := strings.Cut(img, "base64,"); found {
		img = after
	}
	raw, err := base64.StdEncoding.DecodeString(img)
	if err != nil {
		return nil
	}
	return raw
}
