package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloats(t *testing.T) {
	test := []struct {
		sample float32
		exp    uint8
	}{
		{sample: 0, exp: 0},
		{sample: 1, exp: 255},
		{sample: 0.5, exp: 128},
		{sample: -0.2, exp: 0},
		{sample: 1.5, exp: 255},
		{sample: 0.001, exp: 0},
		{sample: 0.999, exp: 255},
	}
	for _, tt := range test {
		b := FromFloats([]float32{tt.sample, tt.sample, tt.sample}, 1, 1, 3)
		assert.Equal(t, tt.exp, b.Pix[0], "sample %f", tt.sample)
	}
}

func TestFloatsRoundTrip(t *testing.T) {
	src := New(2, 2, 3)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 23)
	}
	out := FromFloats(src.Floats(), 2, 2, 3)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestCloneIsIndependent(t *testing.T) {
	src := New(2, 2, 4)
	src.Pix[0] = 10
	dst := src.Clone()
	dst.Pix[0] = 200
	assert.Equal(t, uint8(10), src.Pix[0])
	assert.Equal(t, uint8(200), dst.Pix[0])
}

func TestImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := range 2 {
		for x := range 3 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 50), G: uint8(y * 90), B: 7, A: 255})
		}
	}
	buf := FromImage(img)
	assert.Equal(t, 3, buf.Width)
	assert.Equal(t, 2, buf.Height)
	assert.Equal(t, 4, buf.Channels)
	assert.Equal(t, img.Pix, buf.Image().Pix)
}

func TestOffset(t *testing.T) {
	b := New(10, 5, 3)
	assert.Equal(t, 0, b.Offset(0, 0))
	assert.Equal(t, 3, b.Offset(1, 0))
	assert.Equal(t, 33, b.Offset(1, 1))
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{0, 85, 170, 255}
	m := MaskFromImage(img)
	assert.Equal(t, []uint8{0, 85, 170, 255}, m.Pix)
	assert.Equal(t, img.Pix, m.Gray().Pix)
}

func TestResizeKeepsUniformColor(t *testing.T) {
	src := New(10, 10, 3)
	for i := 0; i < len(src.Pix); i += 3 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2] = 200, 40, 90
	}
	out := Resize(src, 7, 13)
	assert.Equal(t, 7, out.Width)
	assert.Equal(t, 13, out.Height)
	assert.Equal(t, 3, out.Channels)
	for i := 0; i < len(out.Pix); i += 3 {
		assert.Equal(t, uint8(200), out.Pix[i])
		assert.Equal(t, uint8(40), out.Pix[i+1])
		assert.Equal(t, uint8(90), out.Pix[i+2])
	}
}

func TestResizeMask(t *testing.T) {
	m := NewMask(8, 8)
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	out := ResizeMask(m, 4, 4)
	assert.Equal(t, 4, out.Width)
	assert.Equal(t, 4, out.Height)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(255), v)
	}
}
