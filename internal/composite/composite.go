// Package composite blends a scaled, positioned overlay into a base buffer
// through an intensity mask.
package composite

import (
	"fmt"
	"math"

	"github.com/aicuai/comfyui-save-image-watermark/internal/layout"
	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

type Config struct {
	// Scale is the overlay's target width as a fraction of the base width.
	// The overlay keeps its aspect ratio.
	Scale    float64
	Position layout.Position
	Opacity  float64
	// Invert flips the mask's meaning. Some producers emit masks where 255
	// marks the excluded region; that convention is a property of the mask's
	// origin, so it is an explicit flag here.
	Invert bool
}

// Composite blends overlay into base and returns a new buffer. The mask, if
// present, is resampled to the overlay's post-scale dimensions with the same
// kernel as the overlay, so the two always align per pixel. A nil mask means
// full coverage (255 before inversion). Overlay pixels outside the canvas
// are clipped silently.
func Composite(base, overlay *pixel.Buffer, mask *pixel.Mask, cfg Config) (*pixel.Buffer, error) {
	if !cfg.Position.Valid() {
		return nil, fmt.Errorf("%w: %s", layout.ErrInvalidPosition, cfg.Position)
	}

	targetW := int(math.Round(float64(base.Width) * cfg.Scale))
	if targetW < 1 {
		targetW = 1
	}
	targetH := int(math.Round(float64(targetW) * float64(overlay.Height) / float64(overlay.Width)))
	if targetH < 1 {
		targetH = 1
	}
	scaled := pixel.Resize(overlay, targetW, targetH)

	var scaledMask *pixel.Mask
	if mask != nil {
		scaledMask = pixel.ResizeMask(mask, targetW, targetH)
	}

	out := base.Clone()
	if cfg.Position == layout.Tile {
		for y := 0; y < base.Height; y += targetH {
			for x := 0; x < base.Width; x += targetW {
				stamp(out, scaled, scaledMask, x, y, cfg)
			}
		}
		return out, nil
	}

	x0, y0, err := layout.Origin(cfg.Position, base.Width, base.Height, targetW, targetH)
	if err != nil {
		return nil, err
	}
	stamp(out, scaled, scaledMask, x0, y0, cfg)
	return out, nil
}

// stamp blends one copy of the overlay at (x0, y0), clipping at the canvas
// boundary. The alpha channel of the base, if present, is left untouched.
func stamp(dst, overlay *pixel.Buffer, mask *pixel.Mask, x0, y0 int, cfg Config) {
	for oy := range overlay.Height {
		y := y0 + oy
		if y < 0 || y >= dst.Height {
			continue
		}
		for ox := range overlay.Width {
			x := x0 + ox
			if x < 0 || x >= dst.Width {
				continue
			}
			sample := uint8(255)
			if mask != nil {
				sample = mask.Pix[oy*mask.Width+ox]
			}
			if cfg.Invert {
				sample = 255 - sample
			}
			alpha := float64(sample) / 255 * cfg.Opacity

			di := dst.Offset(x, y)
			oi := overlay.Offset(ox, oy)
			for c := range 3 {
				blended := float64(dst.Pix[di+c])*(1-alpha) + float64(overlay.Pix[oi+c])*alpha
				dst.Pix[di+c] = clamp255(math.Round(blended))
			}
		}
	}
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
