package qrcode

import (
	"errors"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Sizes accepted by the API, mapped to fixed pixel widths.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Defaults applied by Normalize when a field is absent.
const (
	DefaultSize                 = SizeMedium
	DefaultForegroundColor      = "#000000"
	DefaultBackgroundColor      = "#ffffff"
	DefaultErrorCorrectionLevel = "M"
	DefaultMargin               = 4
)

// MaxInputLength is the longest input text the API accepts.
const MaxInputLength = 2000

// hexColorRe matches 3- or 6-digit hex colors only. validator's built-in
// `hexcolor` tag also admits 4- and 8-digit (alpha) forms, which the API
// does not accept, so colors are checked against this pattern directly.
var hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

var validate = validatorv10.New()

// RenderOptions is the fully-populated set of rendering options embedded in
// every persisted record. JSON tags serve the HTTP surface, dynamodbav tags
// the stored item.
type RenderOptions struct {
	Size                 string `json:"size" dynamodbav:"size"`
	ForegroundColor      string `json:"foregroundColor" dynamodbav:"foreground_color"`
	BackgroundColor      string `json:"backgroundColor" dynamodbav:"background_color"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" dynamodbav:"error_correction_level"`
	Margin               int    `json:"margin" dynamodbav:"margin"`
}

// RawRenderOptions is the partial options object clients may send. Margin is
// a pointer so an explicit 0 is distinguishable from an absent field.
type RawRenderOptions struct {
	Size                 string `json:"size"`
	ForegroundColor      string `json:"foregroundColor"`
	BackgroundColor      string `json:"backgroundColor"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel"`
	Margin               *int   `json:"margin"`
}

// Validation failures reported before any rendering or persistence happens.
var (
	ErrEmptyInput   = errors.New("Input cannot be empty")
	ErrInputTooLong = errors.New("Input too long (max 2000 characters)")

	ErrInvalidSize            = errors.New("Invalid size. Must be small, medium, or large")
	ErrInvalidErrorCorrection = errors.New("Invalid error correction level. Must be L, M, Q, or H")
	ErrInvalidForeground      = errors.New("Invalid foreground color. Must be a valid hex color")
	ErrInvalidBackground      = errors.New("Invalid background color. Must be a valid hex color")
	ErrInvalidMargin          = errors.New("Invalid margin. Must be between 0 and 20")
)

// Normalize fills every absent field of raw with its default. raw may be nil,
// in which case the result is all defaults. Normalize never fails; the result
// still has to pass ValidateOptions.
func Normalize(raw *RawRenderOptions) RenderOptions {
	opts := RenderOptions{
		Size:                 DefaultSize,
		ForegroundColor:      DefaultForegroundColor,
		BackgroundColor:      DefaultBackgroundColor,
		ErrorCorrectionLevel: DefaultErrorCorrectionLevel,
		Margin:               DefaultMargin,
	}
	if raw == nil {
		return opts
	}
	if raw.Size != "" {
		opts.Size = raw.Size
	}
	if raw.ForegroundColor != "" {
		opts.ForegroundColor = raw.ForegroundColor
	}
	if raw.BackgroundColor != "" {
		opts.BackgroundColor = raw.BackgroundColor
	}
	if raw.ErrorCorrectionLevel != "" {
		opts.ErrorCorrectionLevel = raw.ErrorCorrectionLevel
	}
	if raw.Margin != nil {
		opts.Margin = *raw.Margin
	}
	return opts
}

// ValidateInput checks the source text. The text is compared trimmed for
// emptiness but the length limit applies to the raw input, matching the
// stored-field constraint.
func ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	if len([]rune(input)) > MaxInputLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateOptions checks each field of a normalized options value and returns
// the first violation found: size, error correction level, foreground color,
// background color, margin, in that order.
func ValidateOptions(opts RenderOptions) error {
	if err := validate.Var(opts.Size, "oneof=small medium large"); err != nil {
		return ErrInvalidSize
	}
	if err := validate.Var(opts.ErrorCorrectionLevel, "oneof=L M Q H"); err != nil {
		return ErrInvalidErrorCorrection
	}
	if !hexColorRe.MatchString(opts.ForegroundColor) {
		return ErrInvalidForeground
	}
	if !hexColorRe.MatchString(opts.BackgroundColor) {
		return ErrInvalidBackground
	}
	if err := validate.Var(opts.Margin, "min=0,max=20"); err != nil {
		return ErrInvalidMargin
	}
	return nil
}

// PixelWidth maps the symbolic size to the output image width in pixels.
func (o RenderOptions) PixelWidth() int {
	switch o.Size {
	case SizeSmall:
		return 200
	case SizeLarge:
		return 800
	default:
		return 400
	}
}
