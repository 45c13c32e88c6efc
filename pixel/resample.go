package pixel

import (
	"image"

	"golang.org/x/image/draw"
)

// scaler is the resampling kernel used for overlays and masks. Catmull-Rom
// preserves edges well enough for logo artwork; nearest-neighbor is not
// acceptable here because it visibly distorts scaled logos.
var scaler draw.Scaler = draw.CatmullRom

// Resize resamples the buffer to the given dimensions, preserving the
// channel count of the source.
func Resize(src *Buffer, width, height int) *Buffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	s := src.Image()
	scaler.Scale(dst, dst.Bounds(), s, s.Bounds(), draw.Src, nil)

	out := New(width, height, src.Channels)
	idx := 0
	for i := 0; i < len(dst.Pix); i += 4 {
		out.Pix[idx] = dst.Pix[i]
		out.Pix[idx+1] = dst.Pix[i+1]
		out.Pix[idx+2] = dst.Pix[i+2]
		if src.Channels == 4 {
			out.Pix[idx+3] = dst.Pix[i+3]
		}
		idx += src.Channels
	}
	return out
}

// ResizeMask resamples a mask with the same kernel as the overlay it covers,
// guaranteeing per-pixel alignment after scaling.
func ResizeMask(src *Mask, width, height int) *Mask {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	s := src.Gray()
	scaler.Scale(dst, dst.Bounds(), s, s.Bounds(), draw.Src, nil)

	out := NewMask(width, height)
	copy(out.Pix, dst.Pix)
	return out
}
