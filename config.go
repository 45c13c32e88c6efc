package watermark

import (
	"golang.org/x/image/font"

	"github.com/aicuai/comfyui-save-image-watermark/internal/layout"
	"github.com/aicuai/comfyui-save-image-watermark/internal/lsb"
	"github.com/aicuai/comfyui-save-image-watermark/internal/textmark"
	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

// Errors surfaced by pipeline stages. All are detected before any buffer is
// mutated and none are transient.
var (
	ErrCapacityExceeded   = lsb.ErrCapacityExceeded
	ErrInvalidColorFormat = textmark.ErrInvalidColorFormat
	ErrInvalidPosition    = layout.ErrInvalidPosition
)

// Position is a placement mode for visible watermark layers: four corners,
// center, or tiled across the whole canvas.
type Position = layout.Position

const (
	BottomRight = layout.BottomRight
	BottomLeft  = layout.BottomLeft
	TopRight    = layout.TopRight
	TopLeft     = layout.TopLeft
	Center      = layout.Center
	Tile        = layout.Tile
)

// ParsePosition resolves an identifier such as "bottom_left" or "tile".
func ParsePosition(s string) (Position, error) {
	return layout.Parse(s)
}

// FaceSource selects a font face for a pixel size. The size is passed
// through opaquely; glyph shaping itself is the face's concern, not the
// pipeline's. A nil source falls back to a fixed built-in face.
type FaceSource func(sizePx int) font.Face

// LogoConfig describes the image-logo layer.
type LogoConfig struct {
	Overlay *pixel.Buffer
	// Mask is an optional intensity map; nil means full coverage.
	Mask *pixel.Mask
	// InvertMask flips the mask's meaning for producers whose 255 denotes
	// "exclude" rather than "include".
	InvertMask bool
	// Scale is the logo width as a fraction of the base width, in (0, 1].
	Scale    float64
	Position Position
	Opacity  float64 // 0..1
}

// TextConfig describes the visible text layer. Text and DynamicText are
// concatenated with no separator.
type TextConfig struct {
	Text        string
	DynamicText string
	SizePx      int
	Color       string // hex triple
	Position    Position
	Opacity     float64 // 0..1
	Face        FaceSource
	Enabled     bool
}

// InvisibleConfig describes the steganographic layer.
type InvisibleConfig struct {
	Message string
	Enabled bool
}
