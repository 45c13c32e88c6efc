// Package textmark rasterizes a text watermark onto a buffer. Glyph shaping
// is delegated to golang.org/x/image/font; this package owns the anchor and
// tile geometry and the blend against the base.
package textmark

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/aicuai/comfyui-save-image-watermark/internal/layout"
	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

var ErrInvalidColorFormat = errors.New("invalid color format")

// tileGap is the fixed spacing between repeated text stamps in tile mode.
const tileGap = 100

type Config struct {
	// Face renders the glyphs. Nil falls back to basicfont.Face7x13.
	Face     font.Face
	Color    string // hex triple, "#FFF" or "#FFFFFF" style
	Position layout.Position
	Opacity  float64
}

// Render blends text onto base and returns a new buffer. Empty text is a
// no-op beyond the ownership copy.
func Render(base *pixel.Buffer, text string, cfg Config) (*pixel.Buffer, error) {
	out := base.Clone()
	if text == "" {
		return out, nil
	}
	r, g, b, err := ParseHexColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	if !cfg.Position.Valid() {
		return nil, fmt.Errorf("%w: %s", layout.ErrInvalidPosition, cfg.Position)
	}

	face := cfg.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	coverage, w, h := rasterize(text, face)

	if cfg.Position == layout.Tile {
		for y := 0; y < base.Height; y += h + tileGap {
			for x := 0; x < base.Width; x += w + tileGap {
				stamp(out, coverage, w, h, x, y, r, g, b, cfg.Opacity)
			}
		}
		return out, nil
	}

	x0, y0, err := layout.Origin(cfg.Position, base.Width, base.Height, w, h)
	if err != nil {
		return nil, err
	}
	stamp(out, coverage, w, h, x0, y0, r, g, b, cfg.Opacity)
	return out, nil
}

// rasterize draws the text into an anti-aliased coverage map sized to the
// rendered bounding box.
func rasterize(text string, face font.Face) (*image.Alpha, int, int) {
	d := &font.Drawer{Face: face}
	width := d.MeasureString(text).Ceil()
	if width < 1 {
		width = 1
	}
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if height < 1 {
		height = 1
	}

	coverage := image.NewAlpha(image.Rect(0, 0, width, height))
	d.Dst = coverage
	d.Src = image.White
	d.Dot = fixed.Point26_6{X: 0, Y: metrics.Ascent}
	d.DrawString(text)
	return coverage, width, height
}

// stamp blends one copy of the rasterized text at (x0, y0) using the same
// linear blend as the logo compositor, scaled by opacity.
func stamp(dst *pixel.Buffer, coverage *image.Alpha, w, h, x0, y0 int, r, g, b uint8, opacity float64) {
	text := [3]float64{float64(r), float64(g), float64(b)}
	for ty := range h {
		y := y0 + ty
		if y < 0 || y >= dst.Height {
			continue
		}
		for tx := range w {
			x := x0 + tx
			if x < 0 || x >= dst.Width {
				continue
			}
			alpha := float64(coverage.Pix[ty*coverage.Stride+tx]) / 255 * opacity
			if alpha == 0 {
				continue
			}
			di := dst.Offset(x, y)
			for c := range 3 {
				blended := float64(dst.Pix[di+c])*(1-alpha) + text[c]*alpha
				dst.Pix[di+c] = clamp255(math.Round(blended))
			}
		}
	}
}

// ParseHexColor parses a 3- or 6-digit hex triple with an optional leading
// '#' into its RGB components.
func ParseHexColor(s string) (r, g, b uint8, err error) {
	orig := s
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	var parts [3]string
	switch len(s) {
	case 3:
		parts = [3]string{s[0:1] + s[0:1], s[1:2] + s[1:2], s[2:3] + s[2:3]}
	case 6:
		parts = [3]string{s[0:2], s[2:4], s[4:6]}
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColorFormat, orig)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, perr := strconv.ParseUint(p, 16, 8)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColorFormat, orig)
		}
		rgb[i] = uint8(v)
	}
	return rgb[0], rgb[1], rgb[2], nil
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
