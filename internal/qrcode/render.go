package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

// Output formats. PNG and SVG are valid for the inline data-URI path; the
// download path additionally accepts JPEG.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatSVG  = "svg"
)

// ErrUnsupportedFormat is returned for a format outside the sets above.
var ErrUnsupportedFormat = errors.New("unsupported format")

// RenderError wraps a failure from the symbol encoder, e.g. text exceeding
// symbol capacity at the requested error-correction level. The underlying
// message is preserved for logging; it is never silently degraded.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "failed to generate QR code: " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

const jpegQuality = 90

var recoveryLevels = map[string]qr.RecoveryLevel{
	"L": qr.Low,
	"M": qr.Medium,
	"Q": qr.High,
	"H": qr.Highest,
}

// DataURI renders text into an embeddable string: a base64 data URI for PNG,
// raw <svg> markup for SVG.
func DataURI(text string, opts RenderOptions, format string) (string, error) {
	switch format {
	case FormatPNG:
		buf, err := Buffer(text, opts, FormatPNG)
		if err != nil {
			return "", err
		}
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf), nil
	case FormatSVG:
		buf, err := Buffer(text, opts, FormatSVG)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Buffer renders text into raw image bytes in the requested format.
func Buffer(text string, opts RenderOptions, format string) ([]byte, error) {
	switch format {
	case FormatPNG, FormatJPEG:
		img, err := rasterize(text, opts)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if format == FormatJPEG {
			err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
		} else {
			err = png.Encode(&buf, img)
		}
		if err != nil {
			return nil, &RenderError{Err: err}
		}
		return buf.Bytes(), nil
	case FormatSVG:
		return renderSVG(text, opts)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// newSymbol runs the external encoder. The quiet zone is stripped here and
// re-applied from opts.Margin, since the encoder's own border is fixed-width.
func newSymbol(text string, opts RenderOptions) ([][]bool, error) {
	level, ok := recoveryLevels[opts.ErrorCorrectionLevel]
	if !ok {
		level = qr.Medium
	}
	code, err := qr.New(text, level)
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	code.DisableBorder = true
	return code.Bitmap(), nil
}

// rasterize produces an exactly PixelWidth x PixelWidth image: each pixel is
// mapped back onto the module grid (symbol plus quiet zone) so no rounding
// slack accumulates at the edges.
func rasterize(text string, opts RenderOptions) (image.Image, error) {
	grid, err := newSymbol(text, opts)
	if err != nil {
		return nil, err
	}

	fg := parseHexColor(opts.ForegroundColor)
	bg := parseHexColor(opts.BackgroundColor)

	modules := len(grid)
	total := modules + 2*opts.Margin
	width := opts.PixelWidth()

	img := image.NewRGBA(image.Rect(0, 0, width, width))
	for y := 0; y < width; y++ {
		my := y*total/width - opts.Margin
		for x := 0; x < width; x++ {
			mx := x*total/width - opts.Margin
			if my >= 0 && my < modules && mx >= 0 && mx < modules && grid[my][mx] {
				img.Set(x, y, fg)
			} else {
				img.Set(x, y, bg)
			}
		}
	}
	return img, nil
}

// renderSVG builds vector markup from the module grid: a background rect plus
// one rect per horizontal run of dark modules.
func renderSVG(text string, opts RenderOptions) ([]byte, error) {
	grid, err := newSymbol(text, opts)
	if err != nil {
		return nil, err
	}

	modules := len(grid)
	total := modules + 2*opts.Margin
	width := opts.PixelWidth()

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		width, width, total, total)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, total, total, opts.BackgroundColor)
	for y, row := range grid {
		for x := 0; x < modules; {
			if !row[x] {
				x++
				continue
			}
			run := x
			for run < modules && row[run] {
				run++
			}
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="1" fill="%s"/>`,
				x+opts.Margin, y+opts.Margin, run-x, opts.ForegroundColor)
			x = run
		}
	}
	b.WriteString(`</svg>`)
	return []byte(b.String()), nil
}

// parseHexColor expands #RGB / #RRGGBB into an RGBA color. Inputs are
// validated upstream; anything malformed falls back to opaque black.
func parseHexColor(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return c
	}
	var r, g, bl uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &bl); err != nil {
		return c
	}
	c.R, c.G, c.B = r, g, bl
	return c
}
