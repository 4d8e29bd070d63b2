package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	// Register decoders for the formats render backends return.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Converter normalizes rendered images to JPEG at fixed pin dimensions.
// Backends occasionally ignore the requested output format, so every image is
// decoded and re-encoded regardless of what came back.
type Converter struct {
	width   int
	height  int
	quality int
}

// NewConverter creates a converter targeting the given dimensions.
func NewConverter(width, height, quality int) *Converter {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &Converter{width: width, height: height, quality: quality}
}

// Normalize decodes the input, resamples it to the target dimensions when they
// differ, and encodes it as JPEG.
func (c *Converter) Normalize(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() != c.width || bounds.Dy() != c.height {
		dst := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("encoding %s image as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}
