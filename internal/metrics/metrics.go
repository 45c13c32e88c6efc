// Package metrics measures how visible a watermark is by comparing the base
// buffer with the watermarked result.
package metrics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

var ErrShapeMismatch = errors.New("buffers have different shapes")

// MSE returns the mean squared error over all channel samples.
func MSE(a, b *pixel.Buffer) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height || a.Channels != b.Channels {
		return 0, ErrShapeMismatch
	}
	diffs := make([]float64, len(a.Pix))
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		diffs[i] = d * d
	}
	return stat.Mean(diffs, nil), nil
}

// PSNR returns the peak signal-to-noise ratio in decibels. Identical
// buffers yield +Inf.
func PSNR(a, b *pixel.Buffer) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(255*255/mse), nil
}
