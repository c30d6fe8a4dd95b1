package attach

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestDecodePNG(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "pixel.png", pngHeader)

	url, err := NewDecoder(0).Decode(context.Background(), path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"), url)
	require.True(t, IsImage(url))
}

func TestDecodeSniffsContentNotExtension(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "not-really.png", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"))

	url, err := NewDecoder(0).Decode(context.Background(), path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/gif;base64,"), url)
}

func TestDecodeMissingFile(t *testing.T) {
	t.Parallel()
	_, err := NewDecoder(0).Decode(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeEmptyFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "empty.png", nil)
	_, err := NewDecoder(0).Decode(context.Background(), path)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestDecodeTooLarge(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "big.bin", make([]byte, 65))
	_, err := NewDecoder(64).Decode(context.Background(), path)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = NewDecoder(65).Decode(context.Background(), path)
	require.NoError(t, err)
}

func TestDecodeCancelledContext(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "pixel.png", pngHeader)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDecoder(0).Decode(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "", Describe(""))
	require.Equal(t, "attachment", Describe("not a data url"))
	require.Equal(t, "text/plain, 5 B", Describe("data:text/plain;base64,aGVsbG8="))
	require.Equal(t, "image/png, 25 B", Describe(Encode(pngHeader[:25])))
}
