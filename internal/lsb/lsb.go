// Package lsb embeds and recovers a byte payload in the least-significant
// bits of pixel channel samples.
//
// The traversal order is the codec's single most important invariant: rows
// outermost, columns next, then the red, green and blue channels innermost.
// Embed and extract must agree on it exactly; the alpha channel of a
// 4-channel buffer is never read or written. Payload bytes are expanded to
// bits most-significant-bit first and followed by a 4-byte all-zero
// terminator.
//
// This is not a security mechanism: there is no key, no permutation and no
// error correction, and a payload that itself contains four consecutive zero
// bytes is truncated at that point on extraction. Both weaknesses are part
// of the contract, not oversights.
package lsb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yyyoichi/bitstream-go"

	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

var ErrCapacityExceeded = errors.New("message exceeds image capacity")

// terminatorLen is the number of zero bytes appended to mark end-of-message.
const terminatorLen = 4

// Capacity returns the embeddable payload size in bytes, terminator
// included. Only the three color channels carry bits.
func Capacity(img *pixel.Buffer) int {
	return img.Width * img.Height * 3 / 8
}

// Embed hides message in the channel LSBs of a copy of img. The input buffer
// is never modified; on ErrCapacityExceeded no buffer is produced at all.
func Embed(img *pixel.Buffer, message string) (*pixel.Buffer, error) {
	payload := []byte(message)
	need := len(payload) + terminatorLen
	if capacity := Capacity(img); need > capacity {
		return nil, fmt.Errorf("%w: need %d bytes, capacity %d", ErrCapacityExceeded, need, capacity)
	}

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range payload {
		w.Write8(0, 8, b)
	}
	for range terminatorLen {
		w.Write8(0, 8, 0)
	}
	r := bitstream.NewBitReader(w.Data(), 0, 0)
	total := w.Bits()

	out := img.Clone()
	at := 0
	for y := range out.Height {
		for x := range out.Width {
			off := out.Offset(x, y)
			for c := range 3 {
				if at == total {
					return out, nil
				}
				bit, _ := r.ReadBitAt(at)
				var v uint8
				if bit {
					v = 1
				}
				out.Pix[off+c] = out.Pix[off+c]&0xFE | v
				at++
			}
		}
	}
	return out, nil
}

// Result reports an extraction outcome. Found distinguishes a payload closed
// by the terminator from a best-effort partial read.
type Result struct {
	Message string
	Found   bool
}

// Extract recovers a hidden message, collecting at most maxLength bytes.
// It never fails: if the terminator is missing or bytes do not decode as
// UTF-8 the caller still gets a best-effort string. Callers that need to
// tell the two outcomes apart use ExtractDetail.
func Extract(img *pixel.Buffer, maxLength int) string {
	return ExtractDetail(img, maxLength).Message
}

// ExtractDetail walks the channel samples in embed order, regroups their
// LSBs into bytes MSB first, and stops at the 4-byte zero terminator, at
// maxLength collected bytes, or when the image is exhausted.
func ExtractDetail(img *pixel.Buffer, maxLength int) Result {
	var (
		collected []byte
		cur       uint8
		nbits     int
		zeroRun   int
	)
	for y := range img.Height {
		for x := range img.Width {
			off := img.Offset(x, y)
			for c := range 3 {
				cur = cur<<1 | img.Pix[off+c]&1
				nbits++
				if nbits < 8 {
					continue
				}
				collected = append(collected, cur)
				if cur == 0 {
					zeroRun++
				} else {
					zeroRun = 0
				}
				cur, nbits = 0, 0

				if zeroRun == terminatorLen {
					return Result{Message: decode(collected[:len(collected)-terminatorLen]), Found: true}
				}
				if len(collected) >= maxLength {
					return Result{Message: decode(collected)}
				}
			}
		}
	}
	return Result{Message: decode(collected)}
}

// decode replaces invalid UTF-8 sequences rather than failing.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
