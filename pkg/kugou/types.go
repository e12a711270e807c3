package kugou

// Track represents one playable catalog entry.
//
// ContentHash is the catalog's opaque content identifier used to
// request a stream URL. Tracks lacking both a hash and an album id are
// discarded during parsing because they can never be resolved.
type Track struct {
	Title       string
	Artist      string
	ContentHash string
	AlbumID     string
}

// PlaylistSummary describes one of a user's playlists.
// CollectionID is opaque and required to fetch the playlist's tracks.
type PlaylistSummary struct {
	Name         string
	CollectionID string
	TrackCount   int
}

// QRCode is the materialized QR login challenge: a scannable URL and,
// when the gateway supplies one, a base64-encoded PNG of the code.
type QRCode struct {
	Key         string
	URL         string
	ImageBase64 string
}

// QRStatus is one poll of the QR login scan state.
//
// Cookies carries the raw Set-Cookie headers from the check response;
// on a confirmed login they hold the full credential set and are
// preferred over the body token.
type QRStatus struct {
	Code    int
	Token   string
	Cookies []string
}

// QR login status codes reported by the gateway.
const (
	QRStatusWaitingScan = 1 // awaiting scan
	QRStatusScanned     = 2 // scanned, awaiting confirmation on the phone
	QRStatusConfirmed   = 4 // confirmed; credential available
)
