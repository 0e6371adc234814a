package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"listwise/internal/services"
)

const (
	DefaultImageMaxEdge = 800
	DefaultImageQuality = 60

	// MaxSourcePixels bounds the declared size of an input image; larger
	// images are refused before any pixel data is decoded.
	MaxSourcePixels = 40_000_000
)

// EncodedImage is a compressed listing photo ready to embed in a payload.
type EncodedImage struct {
	DataURI      string
	Width        int
	Height       int
	SourceName   string
	SourceWidth  int
	SourceHeight int
}

// ImageCompressor downsizes photos so the longest edge fits MaxEdge and
// re-encodes them as JPEG at Quality. Every input is re-encoded, including
// images already within bounds.
type ImageCompressor struct {
	MaxEdge int
	Quality int
}

// NewImageCompressor returns a compressor, substituting defaults for
// non-positive values.
func NewImageCompressor(maxEdge, quality int) ImageCompressor {
	if maxEdge <= 0 {
		maxEdge = DefaultImageMaxEdge
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultImageQuality
	}
	return ImageCompressor{MaxEdge: maxEdge, Quality: quality}
}

// Process reads, decodes, rescales and re-encodes one image. Once the read has
// started the work runs to completion; ctx is only consulted beforehand.
func (c ImageCompressor) Process(ctx context.Context, file File) (EncodedImage, error) {
	if err := ctx.Err(); err != nil {
		return EncodedImage{}, err
	}
	c = NewImageCompressor(c.MaxEdge, c.Quality)

	payload, err := readAll(file, "compress image")
	if err != nil {
		return EncodedImage{}, err
	}
	header, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return EncodedImage{}, services.Wrap(services.ErrMediaProcessing, "media", "decode image", file.Name, err)
	}
	if pixels := int64(header.Width) * int64(header.Height); pixels > MaxSourcePixels {
		return EncodedImage{}, services.Wrap(services.ErrMediaProcessing, "media", "decode image",
			fmt.Sprintf("%s (%s) is %dx%d, over the %d pixel limit", file.Name, format, header.Width, header.Height, MaxSourcePixels), nil)
	}

	src, format, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return EncodedImage{}, services.Wrap(services.ErrMediaProcessing, "media", "decode image", file.Name, err)
	}

	bounds := src.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), c.MaxEdge)
	if width == 0 || height == 0 {
		return EncodedImage{}, services.Wrap(services.ErrMediaProcessing, "media", "decode image", fmt.Sprintf("%s (%s) has no pixels", file.Name, format), nil)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// JPEG has no alpha channel; composite transparent sources over white.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: c.Quality}); err != nil {
		return EncodedImage{}, services.Wrap(services.ErrMediaProcessing, "media", "encode image", file.Name, err)
	}

	return EncodedImage{
		DataURI:      DataURI("image/jpeg", out.Bytes()),
		Width:        width,
		Height:       height,
		SourceName:   file.Name,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
	}, nil
}

// FitWithin scales (width, height) so the longer edge is at most maxEdge while
// preserving aspect ratio. Images already within bounds keep their size, and
// neither edge is rounded below one pixel.
func FitWithin(width, height, maxEdge int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	if maxEdge <= 0 || (width <= maxEdge && height <= maxEdge) {
		return width, height
	}
	if width >= height {
		scaled := int(math.Round(float64(height) * float64(maxEdge) / float64(width)))
		return maxEdge, max(scaled, 1)
	}
	scaled := int(math.Round(float64(width) * float64(maxEdge) / float64(height)))
	return max(scaled, 1), maxEdge
}
