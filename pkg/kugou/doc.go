// Package kugou provides a client library for a self-hosted Kugou
// music gateway (KugouMusicApi).
//
// # Overview
//
// This package implements a Go client for the JSON endpoints of a
// KugouMusicApi deployment: song search, stream-URL resolution, user
// playlists, and the QR login handshake. Gateway deployments differ in
// how they shape their JSON envelopes, so every response is read
// through a tolerant accessor that probes several known field paths
// instead of binding to one rigid schema.
//
// # Installation
//
//	go get github.com/kugo-bot/kugo/pkg/kugou
//
// # Quick Start
//
// First, create a client pointed at your gateway:
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
// # Searching and Playing
//
// Search for songs, then resolve one to a playable stream URL. The
// credential string is a Cookie header value captured at login; pass
// "" for anonymous access:
//
//	tracks, err := client.Search().Songs(ctx, "海阔天空", credential)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	streamURL, err := client.Song().URL(ctx, tracks[0], credential)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if streamURL == "" {
//	    // The catalog has the song but will not serve it to this
//	    // credential (region lock, VIP-only, delisted).
//	}
//
// # QR Login
//
// Login is a three-step QR handshake:
//
//	key, err := client.Auth().QRKey(ctx)
//	qr, err := client.Auth().QRCreate(ctx, key)
//	// Show qr.URL (or qr.ImageBase64) to the user, then poll:
//	status, err := client.Auth().QRCheck(ctx, key)
//	if status.Code == kugou.QRStatusConfirmed {
//	    // status.Cookies / status.Token carry the credential
//	}
//
// # Error Handling
//
// Non-2xx responses surface as *StatusError; use IsTransportError to
// distinguish gateway failures from "the catalog said no":
//
//	tracks, err := client.Search().Songs(ctx, query, credential)
//	if kugou.IsTransportError(err) {
//	    // The gateway itself failed, retry with another credential
//	    // tier or report an outage.
//	}
//
// # Context Support
//
// All API methods accept a context.Context for cancellation. Each
// request also carries a default 15 second timeout, configurable via
// Config.Timeout.
package kugou
