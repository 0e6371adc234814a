package media_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"listwise/internal/media"
	"listwise/internal/services"
	"listwise/internal/testsupport"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"landscape", 1600, 1200, 800, 600},
		{"portrait", 300, 1000, 240, 800},
		{"square", 2000, 2000, 800, 800},
		{"already small", 640, 480, 640, 480},
		{"exact edge", 800, 10, 800, 10},
		{"no upscale", 20, 30, 20, 30},
		{"thin strip keeps one pixel", 8000, 1, 800, 1},
		{"empty", 0, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := media.FitWithin(tt.width, tt.height, 800)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("FitWithin(%d,%d) = %dx%d, want %dx%d", tt.width, tt.height, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitWithinPreservesAspectRatio(t *testing.T) {
	for width := 801; width < 4000; width += 137 {
		for height := 50; height < 4000; height += 211 {
			w, h := media.FitWithin(width, height, 800)
			if max(w, h) > 800 {
				t.Fatalf("%dx%d -> %dx%d exceeds edge", width, height, w, h)
			}
			in := float64(width) / float64(height)
			out := float64(w) / float64(h)
			// One pixel of rounding on the short edge bounds the drift.
			tolerance := in / float64(min(w, h))
			if math.Abs(in-out) > tolerance+1e-9 {
				t.Fatalf("%dx%d -> %dx%d ratio drift %.4f > %.4f", width, height, w, h, math.Abs(in-out), tolerance)
			}
		}
	}
}

func decodeFragment(t *testing.T, fragment string) (int, int) {
	t.Helper()
	payload, ok := strings.CutPrefix(fragment, "data:image/jpeg;base64,")
	if !ok {
		t.Fatalf("expected jpeg data URI, got prefix %q", fragment[:min(len(fragment), 32)])
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestImageCompressorDownscalesLargeImages(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WritePNG(t, dir, "living-room.png", 1600, 1200)
	file, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	encoded, err := media.NewImageCompressor(800, 60).Process(context.Background(), file)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if encoded.Width != 800 || encoded.Height != 600 {
		t.Fatalf("unexpected reported size %dx%d", encoded.Width, encoded.Height)
	}
	w, h := decodeFragment(t, encoded.DataURI)
	if w != 800 || h != 600 {
		t.Fatalf("unexpected encoded size %dx%d", w, h)
	}
	if encoded.SourceWidth != 1600 || encoded.SourceName != "living-room.png" {
		t.Fatalf("unexpected source metadata %+v", encoded)
	}
}

func TestImageCompressorAlwaysReencodesSmallImages(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WritePNG(t, dir, "tiny.png", 120, 80)
	file, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	encoded, err := media.ImageCompressor{}.Process(context.Background(), file)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	w, h := decodeFragment(t, encoded.DataURI)
	if w != 120 || h != 80 {
		t.Fatalf("expected original size to be kept, got %dx%d", w, h)
	}
	if media.DataURIMediaType(encoded.DataURI) != "image/jpeg" {
		t.Fatalf("expected png input to be re-encoded as jpeg")
	}
}

func TestImageCompressorHandlesPortraitJPEG(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteJPEG(t, dir, "facade.jpg", 900, 1800)
	file, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	encoded, err := media.NewImageCompressor(800, 60).Process(context.Background(), file)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if w, h := decodeFragment(t, encoded.DataURI); w != 400 || h != 800 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
}

func TestImageCompressorRejectsUndecodableInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	_, err = media.ImageCompressor{}.Process(context.Background(), file)
	if !errors.Is(err, services.ErrMediaProcessing) {
		t.Fatalf("expected media processing error, got %v", err)
	}
}

// oversizedPNG encodes a 1x1 PNG and rewrites its header to declare
// width x height, keeping the header checksum valid.
func oversizedPNG(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()
	// Signature (8), IHDR length (4), "IHDR" (4), then width and height.
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestImageCompressorRejectsHugeDimensionsBeforeDecoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bomb.png")
	if err := os.WriteFile(path, oversizedPNG(t, 30000, 30000), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	_, err = media.ImageCompressor{}.Process(context.Background(), file)
	if !errors.Is(err, services.ErrMediaProcessing) {
		t.Fatalf("expected media processing error, got %v", err)
	}
	if !strings.Contains(err.Error(), "30000x30000") {
		t.Fatalf("expected declared size in error, got %v", err)
	}
}

func TestImageCompressorSkipsWorkWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := media.ImageCompressor{}.Process(ctx, media.File{Path: "/does/not/exist.png"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
