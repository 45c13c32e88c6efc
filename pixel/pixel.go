// Package pixel holds the in-memory image representation shared by every
// watermarking stage: a row-major buffer of 8-bit channel samples plus a
// single-channel intensity mask. Conversions to and from the standard
// library image types and normalized float samples live at this boundary so
// the stages themselves only ever see dense uint8 data.
package pixel

import (
	"image"
	"image/color"
	"math"
)

// Buffer is a row-major sequence of 8-bit channel samples.
// Channels is 3 (RGB) or 4 (RGBA); len(Pix) is always Width*Height*Channels.
type Buffer struct {
	Width, Height int
	Channels      int
	Pix           []uint8
}

// New allocates a zeroed buffer. Channels must be 3 or 4.
func New(width, height, channels int) *Buffer {
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Clone returns an independent copy. Stages never alias their input.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Pix:      make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// Offset returns the index of the first channel sample of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// FromImage converts any image into a 4-channel buffer with non-premultiplied
// alpha, normalized to a zero origin.
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	out := New(bounds.Dx(), bounds.Dy(), 4)
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Pix[idx] = c.R
			out.Pix[idx+1] = c.G
			out.Pix[idx+2] = c.B
			out.Pix[idx+3] = c.A
			idx += 4
		}
	}
	return out
}

// Image rebuilds a standard library image from the buffer.
// A 3-channel buffer becomes fully opaque.
func (b *Buffer) Image() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	idx := 0
	for y := range b.Height {
		for x := range b.Width {
			c := color.NRGBA{R: b.Pix[idx], G: b.Pix[idx+1], B: b.Pix[idx+2], A: 255}
			if b.Channels == 4 {
				c.A = b.Pix[idx+3]
			}
			dst.SetNRGBA(x, y, c)
			idx += b.Channels
		}
	}
	return dst
}

// FromFloats converts normalized samples in [0.0, 1.0] to a buffer by
// round(s*255) clamped to [0, 255]. This is the ingestion boundary for
// collaborators that hand over floating-point tensors.
func FromFloats(samples []float32, width, height, channels int) *Buffer {
	out := New(width, height, channels)
	for i, s := range samples {
		out.Pix[i] = clamp255(math.Round(float64(s) * 255))
	}
	return out
}

// Floats is the reverse conversion on the way out of the core.
func (b *Buffer) Floats() []float32 {
	out := make([]float32, len(b.Pix))
	for i, s := range b.Pix {
		out[i] = float32(s) / 255
	}
	return out
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

// Mask is a single-channel intensity map. Whether a high sample means
// "include" or "exclude" depends on the mask's origin; the compositor takes
// an explicit invert flag rather than assuming one convention.
type Mask struct {
	Width, Height int
	Pix           []uint8
}

// NewMask allocates a zeroed mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// MaskFromImage converts any image into an intensity mask via gray conversion.
func MaskFromImage(src image.Image) *Mask {
	bounds := src.Bounds()
	out := NewMask(bounds.Dx(), bounds.Dy())
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Pix[idx] = color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y
			idx++
		}
	}
	return out
}

// Gray rebuilds a standard library grayscale image from the mask.
func (m *Mask) Gray() *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(dst.Pix, m.Pix)
	return dst
}
