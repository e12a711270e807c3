// Package kugou provides a client for a self-hosted Kugou music gateway.
//
// The gateway (a KuGouMusicApi-style HTTP service) fronts the Kugou
// catalog: search, stream-URL resolution, playlist listing, and the
// three-step QR login. This package is designed to be used as a
// standalone SDK.
//
// Example usage:
//
//	import "github.com/kugo-bot/kugo/pkg/kugou"
//
//	client, err := kugou.NewClient(kugou.Config{
//	    APIAddress: "http://localhost:3000",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tracks, err := client.Search().Songs(ctx, "稻香", "")
package kugou

import (
	"fmt"
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	APIAddress string        // Required: base address of the gateway, e.g. http://localhost:3000
	HTTPClient *http.Client  // Optional: HTTP client (defaults to a client with Timeout)
	Timeout    time.Duration // Optional: per-request timeout (defaults to DefaultTimeout, ignored when HTTPClient is set)
	Logger     Logger        // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for gateway operations.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger

	search   *SearchService
	song     *SongService
	playlist *PlaylistService
	auth     *AuthService
}

const (
	// DefaultTimeout bounds every request so a stalled gateway cannot
	// block a command indefinitely.
	DefaultTimeout = 15 * time.Second
)

// NewClient creates a new gateway client.
//
// Returns an error if the required APIAddress is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIAddress == "" {
		return nil, fmt.Errorf("kugou: APIAddress is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:    cfg.APIAddress,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}

	c.search = &SearchService{client: c}
	c.song = &SongService{client: c}
	c.playlist = &PlaylistService{client: c}
	c.auth = &AuthService{client: c}

	return c, nil
}

// Search returns the song search service.
func (c *Client) Search() *SearchService {
	return c.search
}

// Song returns the stream-URL resolution service.
func (c *Client) Song() *SongService {
	return c.song
}

// Playlist returns the playlist service.
func (c *Client) Playlist() *PlaylistService {
	return c.playlist
}

// Auth returns the QR login service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
