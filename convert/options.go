package convert

import (
	"context"

	"github.com/koachconsulting/logopng/blob"
	"github.com/koachconsulting/logopng/svgdraw"
	"github.com/koachconsulting/logopng/svgraster"
)

// Option configures a Handler.
type Option interface {
	apply(h *Handler)
}

// funcOption wraps a function that modifies a Handler into an
// implementation of the Option interface.
type funcOption struct {
	f func(h *Handler)
}

func (fo *funcOption) apply(h *Handler) {
	fo.f(h)
}

func newFuncOption(f func(h *Handler)) *funcOption {
	return &funcOption{f: f}
}

// WithDecoder replaces the oksvg based decoder.
func WithDecoder(d Decoder) Option {
	return newFuncOption(func(h *Handler) {
		if d == nil {
			return
		}
		h.decoder = d
	})
}

// WithEncoder replaces the PNG encoder.
func WithEncoder(e Encoder) Option {
	return newFuncOption(func(h *Handler) {
		if e == nil {
			return
		}
		h.encoder = e
	})
}

// WithTriggerID binds the handler to another control than #downloadPng.
func WithTriggerID(id string) Option {
	return newFuncOption(func(h *Handler) {
		if id == "" {
			return
		}
		h.triggerID = id
	})
}

// WithSourceClass converts the first element of another class than .logo-svg.
func WithSourceClass(class string) Option {
	return newFuncOption(func(h *Handler) {
		if class == "" {
			return
		}
		h.sourceClass = class
	})
}

// rasterDecoder adapts svgraster.Decoder, keeping a nil image out of the interface.
func rasterDecoder() Decoder {
	return DecoderFunc(func(ctx context.Context, b blob.Blob) (svgdraw.Drawable, error) {
		img, err := svgraster.Decoder{}.Decode(ctx, b)
		if err != nil {
			return nil, err
		}
		return img, nil
	})
}
