package textmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/basicfont"

	"github.com/aicuai/comfyui-save-image-watermark/internal/layout"
	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

func gray(w, h int, v uint8) *pixel.Buffer {
	buf := pixel.New(w, h, 3)
	for i := range buf.Pix {
		buf.Pix[i] = v
	}
	return buf
}

func TestParseHexColor(t *testing.T) {
	test := []struct {
		in      string
		r, g, b uint8
		err     bool
	}{
		{in: "#FFFFFF", r: 255, g: 255, b: 255},
		{in: "FFFFFF", r: 255, g: 255, b: 255},
		{in: "#000000"},
		{in: "#FA8072", r: 250, g: 128, b: 114},
		{in: "#F00", r: 255},
		{in: "abc", r: 0xAA, g: 0xBB, b: 0xCC},
		{in: "", err: true},
		{in: "#12345", err: true},
		{in: "#GGHHII", err: true},
		{in: "#1234567", err: true},
	}
	for _, tt := range test {
		r, g, b, err := ParseHexColor(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrInvalidColorFormat, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, [3]uint8{tt.r, tt.g, tt.b}, [3]uint8{r, g, b}, tt.in)
	}
}

func TestRenderInvalidColor(t *testing.T) {
	_, err := Render(gray(50, 50, 0), "hi", Config{Color: "nope", Position: layout.TopLeft, Opacity: 1})
	assert.ErrorIs(t, err, ErrInvalidColorFormat)
}

func TestRenderInvalidPosition(t *testing.T) {
	_, err := Render(gray(50, 50, 0), "hi", Config{Color: "#FFF", Position: layout.Position(42), Opacity: 1})
	assert.ErrorIs(t, err, layout.ErrInvalidPosition)
}

func TestEmptyTextIsNeutralCopy(t *testing.T) {
	base := gray(20, 20, 9)
	out, err := Render(base, "", Config{Color: "bad color is fine here", Position: layout.Center, Opacity: 1})
	assert.NoError(t, err)
	assert.Equal(t, base.Pix, out.Pix)
	out.Pix[0] = 200
	assert.Equal(t, uint8(9), base.Pix[0])
}

func TestZeroOpacityIsNeutral(t *testing.T) {
	base := gray(100, 100, 40)
	out, err := Render(base, "WATERMARK", Config{Color: "#FFFFFF", Position: layout.Center, Opacity: 0})
	assert.NoError(t, err)
	assert.Equal(t, base.Pix, out.Pix)
}

func TestRenderStaysInsideAnchorBox(t *testing.T) {
	base := gray(200, 200, 0)
	out, err := Render(base, "Hi", Config{Color: "#FFFFFF", Position: layout.TopLeft, Opacity: 1})
	assert.NoError(t, err)

	_, w, h := rasterize("Hi", basicfont.Face7x13)
	m := layout.Margin(200, 200)

	changed := 0
	for y := range 200 {
		for x := range 200 {
			i := out.Offset(x, y)
			if out.Pix[i] == 0 {
				continue
			}
			changed++
			assert.True(t, x >= m && x < m+w && y >= m && y < m+h, "stray pixel at (%d,%d)", x, y)
		}
	}
	assert.Greater(t, changed, 0, "text should touch at least one pixel")
}

func TestTileRepeatsAcrossCanvas(t *testing.T) {
	base := gray(400, 400, 0)
	out, err := Render(base, "W", Config{Color: "#FFFFFF", Position: layout.Tile, Opacity: 1})
	assert.NoError(t, err)

	_, w, h := rasterize("W", basicfont.Face7x13)
	// Stamps start at multiples of the bounding box plus the fixed gap.
	var stamps int
	for y := 0; y < 400; y += h + tileGap {
		for x := 0; x < 400; x += w + tileGap {
			found := false
			for ty := y; ty < y+h && ty < 400 && !found; ty++ {
				for tx := x; tx < x+w && tx < 400; tx++ {
					if out.Pix[out.Offset(tx, ty)] != 0 {
						found = true
						break
					}
				}
			}
			assert.True(t, found, "no glyph coverage in tile at (%d,%d)", x, y)
			stamps++
		}
	}
	assert.Greater(t, stamps, 1)
}

func TestOpacityScalesCoverage(t *testing.T) {
	full, err := Render(gray(100, 100, 0), "Hi", Config{Color: "#FFFFFF", Position: layout.Center, Opacity: 1})
	assert.NoError(t, err)
	half, err := Render(gray(100, 100, 0), "Hi", Config{Color: "#FFFFFF", Position: layout.Center, Opacity: 0.5})
	assert.NoError(t, err)

	var sumFull, sumHalf int
	for i := range full.Pix {
		sumFull += int(full.Pix[i])
		sumHalf += int(half.Pix[i])
	}
	assert.Greater(t, sumFull, sumHalf)
	assert.Greater(t, sumHalf, 0)
}
