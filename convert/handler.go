// Package convert implements the "Download PNG" action of the Koach
// Consulting page: the logo SVG is serialized, rasterized on a white,
// upscaled surface and handed to the host as koach-consulting-logo.png.
//
// The page itself is abstracted behind Environment, so the same handler
// runs in the browser (package browser) and headless (package page).
package convert

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/koachconsulting/logopng/blob"
	"github.com/koachconsulting/logopng/logging"
	"github.com/koachconsulting/logopng/svgdoc"
	"github.com/koachconsulting/logopng/svgdraw"
	"github.com/koachconsulting/logopng/svgraster"
)

const (
	// TriggerID is the id of the control starting a conversion.
	TriggerID = "downloadPng"
	// SourceClass marks the SVG element to convert.
	SourceClass = "logo-svg"
	// Filename is the name of the downloaded file.
	Filename = "koach-consulting-logo.png"
)

// Messages shown to the user.
const (
	AlertSourceNotFound = "SVG logo not found!"
	AlertDecode         = "Error loading SVG for conversion. Check browser console for details."
	AlertEncode         = "Failed to generate PNG image"
	AlertUnexpected     = "Error converting SVG to PNG: "
)

var (
	ErrTriggerNotFound = errors.New("download PNG button not found")
	ErrSourceNotFound  = errors.New("SVG logo not found")
	ErrDecode          = errors.New("error loading SVG image")
	ErrEncode          = errors.New("failed to create blob from canvas")
)

// stepError ties a failure to the step it happened in.
type stepError struct {
	step error
	err  error
}

func (e *stepError) Error() string        { return e.step.Error() + ": " + e.err.Error() }
func (e *stepError) Unwrap() error        { return e.err }
func (e *stepError) Is(target error) bool { return target == e.step }

// Handler converts the page logo on demand. It keeps no state between
// invocations and may run several conversions concurrently.
type Handler struct {
	env     Environment
	decoder Decoder
	encoder Encoder

	triggerID   string
	sourceClass string
}

// New returns a handler working on env.
func New(env Environment, opts ...Option) *Handler {
	h := &Handler{
		env:         env,
		decoder:     rasterDecoder(),
		encoder:     svgraster.PNGEncoder{},
		triggerID:   TriggerID,
		sourceClass: SourceClass,
	}
	for _, opt := range opts {
		opt.apply(h)
	}
	return h
}

// Bind attaches the handler to the trigger control. A missing control
// disables the feature: the condition is logged and ErrTriggerNotFound
// returned for information, nothing else happens.
func (h *Handler) Bind() error {
	if !h.env.OnClick(h.triggerID, h.onClick) {
		logging.Error("Download PNG button not found!", "id", h.triggerID)
		return ErrTriggerNotFound
	}
	logging.Debug("Download PNG button bound", "id", h.triggerID)
	return nil
}

func (h *Handler) onClick() {
	_ = h.Handle(context.Background())
}

// Handle runs one conversion. Every failure has already been shown to the
// user and logged when Handle returns it; callers may ignore the error.
func (h *Handler) Handle(ctx context.Context) (err error) {
	logging.Info("Download PNG button clicked")

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%v", r)
			h.report(err)
		}
	}()

	if err = h.run(ctx); err != nil {
		h.report(err)
	}
	return err
}

// report pairs one user notice with one log entry.
func (h *Handler) report(err error) {
	switch {
	case errors.Is(err, ErrSourceNotFound):
		logging.Error("SVG element not found", "class", h.sourceClass, "error", err)
		h.env.Alert(AlertSourceNotFound)
	case errors.Is(err, ErrDecode):
		logging.Error("Error loading SVG image", "error", err)
		h.env.Alert(AlertDecode)
	case errors.Is(err, ErrEncode):
		logging.Error("Failed to create blob from canvas", "error", err)
		h.env.Alert(AlertEncode)
	default:
		logging.Error("Error in PNG conversion", "error", err)
		h.env.Alert(AlertUnexpected + err.Error())
	}
}

func (h *Handler) run(ctx context.Context) error {
	source := h.env.QuerySource(h.sourceClass)
	if source == nil {
		return errors.WithStack(ErrSourceNotFound)
	}
	width, height := source.BoundingBox()
	logging.Info("SVG found", "width", width, "height", height)
	if width <= 0 || height <= 0 {
		logging.Warn("SVG has no rendered size, the minimum surface is used", "width", width, "height", height)
	}

	markup, err := serialize(source, width, height)
	if err != nil {
		return &stepError{step: ErrSourceNotFound, err: err}
	}
	logging.Info("SVG string generated", "markup", preview(markup, 200))

	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := h.decode(ctx, markup)
	if err != nil {
		return err
	}
	imgW, imgH := img.Size()
	logging.Info("Image loaded successfully", "width", imgW, "height", imgH)

	surfaceW, surfaceH := svgdraw.SurfaceSize(imgW, imgH, width, height)
	surface, err := svgdraw.NewSurface(surfaceW, surfaceH)
	if err != nil {
		// a canvas past the browser limits cannot be exported either
		return &stepError{step: ErrEncode, err: err}
	}
	surface.Fill(color.White)
	surface.DrawImage(img)
	logging.Info("Canvas drawing completed", "width", surfaceW, "height", surfaceH)

	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := h.encoder.Encode(ctx, surface.RGBA)
	if err != nil {
		return &stepError{step: ErrEncode, err: err}
	}
	if out.Size() == 0 {
		return errors.WithStack(ErrEncode)
	}
	logging.Info("Blob created", "size", out.Size())

	if err := h.deliver(out); err != nil {
		return err
	}
	logging.Info("Download initiated", "filename", Filename)
	return nil
}

// serialize stamps a copy of the source with its rendered size, so the
// markup does not rasterize at an undefined size, and returns it with the
// SVG namespace declared.
func serialize(source Source, width, height float64) (string, error) {
	clone := source.Clone()
	clone.SetAttribute("width", formatNumber(width))
	clone.SetAttribute("height", formatNumber(height))
	markup, err := clone.Serialize()
	if err != nil {
		return "", err
	}
	return svgdoc.EnsureNamespace(markup), nil
}

// decode goes through a temporary URL, released as soon as decoding is over.
func (h *Handler) decode(ctx context.Context, markup string) (svgdraw.Drawable, error) {
	url, err := h.env.CreateObjectURL(blob.New([]byte(markup), blob.TypeSVG))
	if err != nil {
		return nil, errors.Wrap(err, "creating svg object url")
	}
	defer h.env.RevokeObjectURL(url)

	b, err := h.env.Open(url)
	if err != nil {
		return nil, &stepError{step: ErrDecode, err: err}
	}
	img, err := h.decoder.Decode(ctx, b)
	if err != nil {
		return nil, &stepError{step: ErrDecode, err: err}
	}
	return img, nil
}

// deliver triggers the download, releasing its URL once the host took the file.
func (h *Handler) deliver(out blob.Blob) error {
	url, err := h.env.CreateObjectURL(out)
	if err != nil {
		return errors.Wrap(err, "creating png object url")
	}
	defer h.env.RevokeObjectURL(url)

	if err := h.env.Download(url, Filename); err != nil {
		return errors.Wrap(err, "starting download")
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return fmt.Sprintf("%s...", string(runes[:n]))
}
