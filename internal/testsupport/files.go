package testsupport

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	f := create(t, path)
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := min(int64(chunkSize), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WritePNG writes a width x height gradient PNG and returns its path.
func WritePNG(t testing.TB, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f := create(t, path)
	defer f.Close()
	if err := png.Encode(f, gradient(width, height)); err != nil {
		t.Fatalf("encode png %s: %v", path, err)
	}
	return path
}

// WriteJPEG writes a width x height gradient JPEG and returns its path.
func WriteJPEG(t testing.TB, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f := create(t, path)
	defer f.Close()
	if err := jpeg.Encode(f, gradient(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg %s: %v", path, err)
	}
	return path
}

// WriteNoisePNG writes a PNG of random pixels. Noise does not compress, so the
// file size grows with width*height.
func WriteNoisePNG(t testing.TB, dir, name string, width, height int, seed uint64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f := create(t, path)
	defer f.Close()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = byte(rng.UintN(256))
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png %s: %v", path, err)
	}
	return path
}

func gradient(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func create(t testing.TB, path string) *os.File {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}
