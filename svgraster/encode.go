package svgraster

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/pkg/errors"

	"github.com/koachconsulting/logopng/blob"
)

// PNGEncoder encodes surfaces as PNG blobs.
type PNGEncoder struct {
	CompressionLevel png.CompressionLevel
}

// Encode returns img as an image/png blob.
func (e PNGEncoder) Encode(ctx context.Context, img image.Image) (blob.Blob, error) {
	if err := ctx.Err(); err != nil {
		return blob.Blob{}, err
	}
	if img == nil || img.Bounds().Empty() {
		return blob.Blob{}, ErrEmptyImage
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: e.CompressionLevel}
	if err := enc.Encode(&buf, img); err != nil {
		return blob.Blob{}, errors.Wrap(err, "svgraster: encoding png")
	}
	return blob.Blob{Data: buf.Bytes(), Type: blob.TypePNG}, nil
}
