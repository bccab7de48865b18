package convert

import (
	"context"
	"image"

	"github.com/koachconsulting/logopng/blob"
	"github.com/koachconsulting/logopng/svgdraw"
)

// Environment is the host page the handler runs in.
type Environment interface {
	// OnClick registers fn to run on every click of the element with the
	// given id. It reports false when there is no such element.
	OnClick(id string, fn func()) bool
	// QuerySource returns the first element carrying class, or nil.
	QuerySource(class string) Source

	CreateObjectURL(b blob.Blob) (string, error)
	// Open returns the blob a live URL refers to.
	Open(url string) (blob.Blob, error)
	RevokeObjectURL(url string)

	// Download hands the blob behind url to the host download mechanism,
	// saved under filename.
	Download(url, filename string) error
	// Alert shows msg to the user.
	Alert(msg string)
}

// Source is a vector image element of the page.
type Source interface {
	// BoundingBox returns the rendered size in CSS pixels.
	BoundingBox() (width, height float64)
	// Clone returns a detached deep copy.
	Clone() Source
	SetAttribute(name, value string)
	Serialize() (string, error)
}

// Decoder is the first suspension point: markup to decoded image.
type Decoder interface {
	Decode(ctx context.Context, b blob.Blob) (svgdraw.Drawable, error)
}

// Encoder is the second suspension point: surface to encoded bytes.
type Encoder interface {
	Encode(ctx context.Context, img image.Image) (blob.Blob, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, b blob.Blob) (svgdraw.Drawable, error)

func (f DecoderFunc) Decode(ctx context.Context, b blob.Blob) (svgdraw.Drawable, error) {
	return f(ctx, b)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(ctx context.Context, img image.Image) (blob.Blob, error)

func (f EncoderFunc) Encode(ctx context.Context, img image.Image) (blob.Blob, error) {
	return f(ctx, img)
}
