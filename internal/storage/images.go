// Package storage compresses uploaded menu images and keeps them on disk.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var ErrNotImage = errors.New("file is not a supported image")

// ImageStore writes compressed JPEGs to Dir and serves them under BaseURL.
type ImageStore struct {
	Dir         string
	BaseURL     string
	MaxWidth    int
	JPEGQuality int
}

// Compress decodes src, scales it to MaxWidth keeping the aspect ratio and
// re-encodes it as JPEG.
func (s ImageStore) Compress(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	b := img.Bounds()
	width := s.MaxWidth
	if width <= 0 {
		width = b.Dx()
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// JPEG has no alpha; paint white under transparent PNGs.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	quality := s.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Save compresses src and stores it under a random name, returning the
// public URL.
func (s ImageStore) Save(src io.Reader) (string, error) {
	data, err := s.Compress(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.PublicURL(name), nil
}

// PublicURL maps a stored file name to its URL.
func (s ImageStore) PublicURL(name string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/uploads/" + name
}
