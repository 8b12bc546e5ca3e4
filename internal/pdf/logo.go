package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"

	_ "image/gif"  // register gif
	_ "image/jpeg" // register jpeg

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register bmp
	_ "golang.org/x/image/webp" // register webp
)

// maxLogoSide bounds the longer edge of the embedded logo in pixels. At 80 mm
// (the watermark) this is still ~190 dpi.
const maxLogoSide = 600

var errLogoMissing = errors.New("pdf: logo file not found")

// loadLogo reads the logo at path and re-encodes it as a plain 8-bit,
// non-interlaced PNG, scaled down to maxLogoSide. gofpdf rejects interlaced
// and 16-bit PNGs, and uploaded logos are often both.
func loadLogo(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errLogoMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("pdf: read logo: %w", err)
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("pdf: decode logo: %w", err)
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("pdf: logo %s (%s) has no pixels", path, format)
	}

	w, h := fitWithin(b.Dx(), b.Dy(), maxLogoSide)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("pdf: encode logo: %w", err)
	}
	return out.Bytes(), nil
}

// fitWithin scales w×h down proportionally so neither side exceeds limit.
// Images already small enough are returned unchanged.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
