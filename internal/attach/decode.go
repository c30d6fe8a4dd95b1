// Package attach turns a chosen file into the inline data URL stored on an
// issue.
package attach

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps the size of a decoded attachment.
const DefaultMaxBytes int64 = 5 << 20

var (
	ErrEmpty    = errors.New("attachment is empty")
	ErrTooLarge = errors.New("attachment exceeds size limit")
)

// Decoder reads files into data URLs.
type Decoder struct {
	MaxBytes int64
}

// NewDecoder caps reads at maxBytes; zero or less means DefaultMaxBytes.
func NewDecoder(maxBytes int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Decoder{MaxBytes: maxBytes}
}

// Decode reads path and returns "data:<mime>;base64,<payload>".
func (d *Decoder) Decode(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	limit := d.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Encode(data), nil
}

// Encode builds a data URL for raw bytes, sniffing the MIME type.
func Encode(data []byte) string {
	mime := mimetype.Detect(data).String()
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Describe summarises a data URL for display, e.g. "image/png, 1.2 KB".
func Describe(dataURL string) string {
	if dataURL == "" {
		return ""
	}
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "attachment"
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "attachment"
	}
	mime, _, _ := strings.Cut(header, ";")
	if mime == "" {
		mime = "application/octet-stream"
	}
	size := base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload, "=")
	return mime + ", " + humanSize(size)
}

// IsImage reports whether the data URL carries an image type.
func IsImage(dataURL string) bool {
	return strings.HasPrefix(dataURL, "data:image/")
}

func humanSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
