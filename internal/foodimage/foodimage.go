// Package foodimage decodes uploaded meal photos.
//
// Decoding only validates the upload and records its format and size; the
// original bytes are what get sent to the vision backend, untouched.
package foodimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxBytes is the largest upload Load accepts.
const MaxBytes = 50 * 1024 * 1024 // 50 MB

var (
	ErrNoFile   = errors.New("no file uploaded")
	ErrTooLarge = errors.New("image exceeds upload limit")
)

// Image is a decoded upload. It lives for one request.
type Image struct {
	Data     []byte
	MIMEType string
	Format   string
	Width    int
	Height   int
}

// Reader returns a fresh reader over the original bytes.
func (img *Image) Reader() io.Reader {
	return bytes.NewReader(img.Data)
}

// Load reads and decodes an image of at most MaxBytes.
func Load(r io.Reader) (*Image, error) {
	return LoadLimit(r, MaxBytes)
}

// LoadLimit is Load with a caller-chosen size limit.
func LoadLimit(r io.Reader, limit int64) (*Image, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := decoded.Bounds()
	return &Image{
		Data:     data,
		MIMEType: "image/" + format,
		Format:   format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}
