// Package layout computes watermark placement: the closed set of anchor
// positions shared by the logo compositor and the text renderer, and the
// margin kept between an anchored watermark and the canvas edge.
package layout

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidPosition = errors.New("invalid watermark position")

// Position is one of the recognized placement modes. The set is closed:
// four corners, center, and tile.
type Position int

const (
	BottomRight Position = iota
	BottomLeft
	TopRight
	TopLeft
	Center
	Tile
)

var names = map[Position]string{
	BottomRight: "bottom_right",
	BottomLeft:  "bottom_left",
	TopRight:    "top_right",
	TopLeft:     "top_left",
	Center:      "center",
	Tile:        "tile",
}

func (p Position) String() string {
	if s, ok := names[p]; ok {
		return s
	}
	return fmt.Sprintf("position(%d)", int(p))
}

// Valid reports whether p is one of the recognized placement modes.
func (p Position) Valid() bool {
	_, ok := names[p]
	return ok
}

// Parse resolves a position identifier such as "bottom_left".
func Parse(s string) (Position, error) {
	for p, name := range names {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// marginFraction of the smaller canvas dimension separates an anchored
// watermark from the relevant edges. Center placement ignores it.
const marginFraction = 0.02

// Margin returns the anchor margin in pixels for a canvas.
func Margin(width, height int) int {
	return int(math.Round(marginFraction * float64(min(width, height))))
}

// Origin returns the top-left placement of a w x h watermark on a
// baseW x baseH canvas. Tile has no single anchor and is rejected along
// with unrecognized positions.
func Origin(p Position, baseW, baseH, w, h int) (int, int, error) {
	m := Margin(baseW, baseH)
	switch p {
	case BottomRight:
		return baseW - w - m, baseH - h - m, nil
	case BottomLeft:
		return m, baseH - h - m, nil
	case TopRight:
		return baseW - w - m, m, nil
	case TopLeft:
		return m, m, nil
	case Center:
		return (baseW - w) / 2, (baseH - h) / 2, nil
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidPosition, p)
	}
}
