// Package watermark composites a base image with up to three watermark
// layers in a fixed order and can later recover a hidden payload from the
// result.
//
// A pipeline run applies an image logo (alpha-composited through an optional
// mask), a text overlay, and an invisible LSB-steganographic message, in that
// order, each stage only if configured, then computes a SHA-256 provenance
// digest over the finished pixel data. Extraction of a hidden message is an
// independent entry point with no pipeline state.
//
// The invisible layer is explicitly not a security mechanism: no encryption,
// no keyed permutation, no error correction. It survives only lossless
// (PNG) encoding.
package watermark
