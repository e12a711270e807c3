package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Console is a Presenter that writes to a terminal. QR images are
// materialized as a temp file whose path is printed alongside the
// rendering-service link, and removed again by ClearQR.
type Console struct {
	out    io.Writer
	qrPath string
}

// NewConsole creates a Console presenter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Message(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Console) Status(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Console) ShowQR(text string, image []byte, link string) {
	fmt.Fprintln(c.out, text)
	if link != "" {
		fmt.Fprintf(c.out, "  %s\n", link)
	}
	if len(image) == 0 {
		return
	}

	f, err := os.CreateTemp("", "kugo-qr-*.png")
	if err != nil {
		return
	}
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return
	}
	_ = f.Close()
	c.qrPath = f.Name()
	fmt.Fprintf(c.out, "  QR image: %s\n", filepath.Clean(c.qrPath))
}

func (c *Console) ClearQR() {
	if c.qrPath == "" {
		return
	}
	_ = os.Remove(c.qrPath)
	c.qrPath = ""
}

// LogPlayback is a Playback sink for hosts without an audio runtime:
// it logs and prints the resolved URLs so they can be piped into a
// player.
type LogPlayback struct {
	out    io.Writer
	logger zerolog.Logger
}

// NewLogPlayback creates a LogPlayback writing to out.
func NewLogPlayback(out io.Writer, logger zerolog.Logger) *LogPlayback {
	return &LogPlayback{
		out:    out,
		logger: logger.With().Str("component", "playback").Logger(),
	}
}

func (p *LogPlayback) Play(ctx context.Context, url string) error {
	p.logger.Debug().Str("url", url).Msg("Play")
	_, err := fmt.Fprintf(p.out, "play %s\n", url)
	return err
}

func (p *LogPlayback) Enqueue(ctx context.Context, url string) error {
	p.logger.Debug().Str("url", url).Msg("Enqueue")
	_, err := fmt.Fprintf(p.out, "enqueue %s\n", url)
	return err
}
