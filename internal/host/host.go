// Package host defines the collaborator side-channels the hosting
// runtime provides: somewhere to show messages and QR codes, and
// somewhere to send resolved stream URLs. The console implementations
// back the CLI front-end; a chat/audio runtime supplies its own.
package host

import (
	"context"
)

// Presenter surfaces login progress and listings to the end user.
type Presenter interface {
	// Message sends a short user-facing text message.
	Message(text string)
	// ShowQR presents a QR challenge through both redundant channels:
	// the decoded PNG blob (may be nil) and a link to a rendering
	// service.
	ShowQR(text string, image []byte, link string)
	// ClearQR reverts any presentation side effects of ShowQR. Safe to
	// call when no QR is showing.
	ClearQR()
	// Status sends a short descriptive status string.
	Status(text string)
}

// Playback accepts resolved stream URLs for immediate or queued play.
type Playback interface {
	Play(ctx context.Context, url string) error
	Enqueue(ctx context.Context, url string) error
}
