// Package hashing computes the provenance digest of a finished buffer.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

// Algorithm names the digest function for provenance metadata.
const Algorithm = "sha256"

// Digest hashes the buffer's raw channel samples in row-major order and
// returns 64 lowercase hex characters. The digest covers pixel data only,
// never a file encoding, so any implementation given the same buffer
// reproduces it exactly.
func Digest(img *pixel.Buffer) string {
	sum := sha256.Sum256(img.Pix)
	return hex.EncodeToString(sum[:])
}
