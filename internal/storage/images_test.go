package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 90, G: 20, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestCompressScalesToMaxWidth(t *testing.T) {
	s := ImageStore{MaxWidth: 500, JPEGQuality: 70}
	out, err := s.Compress(pngFixture(t, 1000, 600))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestCompressRejectsNonImage(t *testing.T) {
	_, err := ImageStore{MaxWidth: 500}.Compress(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestSaveWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	s := ImageStore{Dir: dir, BaseURL: "https://acai.example.com/", MaxWidth: 50, JPEGQuality: 70}

	url, err := s.Save(pngFixture(t, 100, 100))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://acai.example.com/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	name := strings.TrimPrefix(url, "https://acai.example.com/uploads/")
	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
}
