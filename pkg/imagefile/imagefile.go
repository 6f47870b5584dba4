// Package imagefile loads annotation images, shrinks them to thumbnails and
// encodes them as JPEG data URIs for embedding in wafer map outputs.
package imagefile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxThumbnailSize bounds both thumbnail dimensions, in pixels.
const MaxThumbnailSize = 400

const jpegQuality = 75

var (
	ErrDecode  = errors.New("imagefile: cannot decode image")
	ErrDataURI = errors.New("imagefile: malformed data URI")
)

// Thumbnail is a downscaled image with its JPEG encoding.
type Thumbnail struct {
	Name   string
	Width  int
	Height int
	Image  image.Image
	JPEG   []byte
}

// Load decodes the image at path and shrinks it to fit max×max, keeping its
// aspect ratio. Images already inside the box are not enlarged. A missing
// file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string, max int) (*Thumbnail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	img := Shrink(src, max)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding thumbnail of %s: %w", path, err)
	}

	b := img.Bounds()
	return &Thumbnail{
		Name:   filepath.Base(path),
		Width:  b.Dx(),
		Height: b.Dy(),
		Image:  img,
		JPEG:   buf.Bytes(),
	}, nil
}

// FitSize returns the largest size no bigger than max×max with the aspect
// ratio of w×h, or w×h itself if it already fits.
func FitSize(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}

// Shrink scales src down to fit max×max.
func Shrink(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// DataURI returns the JPEG as a base64 data URI.
func (t *Thumbnail) DataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(t.JPEG)
}

// PopupHTML is the HTML snippet shown in an image marker popup.
func (t *Thumbnail) PopupHTML() string {
	return fmt.Sprintf(`<img src="%s" alt="%s" width="%d" height="%d">`,
		t.DataURI(), html.EscapeString(t.Name), t.Width, t.Height)
}

// DecodeDataURI decodes a base64 image data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrDataURI
	}
	_, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, ErrDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataURI, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
