package watermark

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/disintegration/imaging"

	"github.com/aicuai/comfyui-save-image-watermark/internal/composite"
	"github.com/aicuai/comfyui-save-image-watermark/internal/hashing"
	"github.com/aicuai/comfyui-save-image-watermark/internal/lsb"
	"github.com/aicuai/comfyui-save-image-watermark/internal/textmark"
	"github.com/aicuai/comfyui-save-image-watermark/pixel"
	"github.com/aicuai/comfyui-save-image-watermark/save"
)

// Pipeline applies the watermark layers in a fixed order: logo composite,
// text overlay, invisible embed, then the provenance hash. It holds no
// mutable state across invocations and is safe to use concurrently on
// independent inputs.
type Pipeline struct {
	saver save.Saver
	meta  save.MetadataWriter
	now   func() time.Time
}

// New initializes a pipeline. External collaborators for persistence and
// metadata are optional; without them only Run is usable.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{now: time.Now}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Image is the finished buffer, owned by the caller.
	Image *pixel.Buffer
	// OriginalHash digests the base buffer before any layer was applied.
	OriginalHash string
	// ContentHash digests the finished buffer; 64 lowercase hex characters
	// of the raw pixel data, independent of any file encoding.
	ContentHash string
	// Filename is set by RunAndSave only.
	Filename string
}

// Run transforms base through each configured layer and returns the final
// buffer with its digests. A nil config (or a disabled one) skips that
// layer. If the invisible layer exceeds capacity the run aborts and no
// partial image is produced.
func (p *Pipeline) Run(base *pixel.Buffer, logo *LogoConfig, text *TextConfig, invisible *InvisibleConfig) (Result, error) {
	img := base
	originalHash := hashing.Digest(base)

	if logo != nil && logo.Overlay != nil {
		out, err := composite.Composite(img, logo.Overlay, logo.Mask, composite.Config{
			Scale:    logo.Scale,
			Position: logo.Position,
			Opacity:  logo.Opacity,
			Invert:   logo.InvertMask,
		})
		if err != nil {
			return Result{}, fmt.Errorf("logo layer: %w", err)
		}
		img = out
	}

	if text != nil && text.Enabled {
		cfg := textmark.Config{
			Color:    text.Color,
			Position: text.Position,
			Opacity:  text.Opacity,
		}
		if text.Face != nil {
			cfg.Face = text.Face(text.SizePx)
		}
		out, err := textmark.Render(img, text.Text+text.DynamicText, cfg)
		if err != nil {
			return Result{}, fmt.Errorf("text layer: %w", err)
		}
		img = out
	}

	if invisible != nil && invisible.Enabled && invisible.Message != "" {
		out, err := lsb.Embed(img, invisible.Message)
		if err != nil {
			return Result{}, fmt.Errorf("invisible layer: %w", err)
		}
		img = out
	}

	if img == base {
		img = base.Clone()
	}
	return Result{
		Image:        img,
		OriginalHash: originalHash,
		ContentHash:  hashing.Digest(img),
	}, nil
}

// SaveRequest carries the pass-through parameters of the persistence
// collaborator. Only PNG preserves the invisible layer.
type SaveRequest struct {
	Prefix  string
	Format  imaging.Format
	Quality int
	// MetadataJSON is an opaque workflow blob embedded alongside the image
	// when a metadata collaborator is configured.
	MetadataJSON string
}

// RunAndSave runs the pipeline and hands the finished buffer to the
// configured persistence and metadata collaborators.
func (p *Pipeline) RunAndSave(base *pixel.Buffer, logo *LogoConfig, text *TextConfig, invisible *InvisibleConfig, req SaveRequest) (Result, error) {
	res, err := p.Run(base, logo, text, invisible)
	if err != nil {
		return Result{}, err
	}
	if p.saver == nil {
		return Result{}, fmt.Errorf("no saver configured")
	}
	res.Filename, err = p.saver.Save(res.Image, req.Prefix, req.Format, req.Quality)
	if err != nil {
		return Result{}, fmt.Errorf("save: %w", err)
	}
	if p.meta != nil {
		blob, err := p.provenance(res, logo, text, invisible, req.MetadataJSON)
		if err != nil {
			return Result{}, err
		}
		if err := p.meta.Write(res.Filename, blob); err != nil {
			return Result{}, fmt.Errorf("metadata: %w", err)
		}
	}
	return res, nil
}

// provenance assembles the metadata blob recording both digests and the
// layers applied. The caller-supplied workflow JSON rides along untouched.
func (p *Pipeline) provenance(res Result, logo *LogoConfig, text *TextConfig, invisible *InvisibleConfig, extra string) ([]byte, error) {
	var types []string
	if logo != nil && logo.Overlay != nil {
		types = append(types, "image")
	}
	if text != nil && text.Enabled {
		types = append(types, "text")
	}
	if invisible != nil && invisible.Enabled && invisible.Message != "" {
		types = append(types, "invisible")
	}
	doc := map[string]any{
		"generator": "comfyui-save-image-watermark",
		"timestamp": p.now().UTC().Format(time.RFC3339),
		"content_hash": map[string]string{
			"original":    res.OriginalHash,
			"watermarked": res.ContentHash,
			"algorithm":   hashing.Algorithm,
		},
		"watermark": map[string]any{
			"applied": len(types) > 0,
			"type":    types,
		},
	}
	if extra != "" {
		doc["workflow"] = json.RawMessage(extra)
	}
	return json.Marshal(doc)
}

// Run is a convenience wrapper over a collaborator-free pipeline.
func Run(base *pixel.Buffer, logo *LogoConfig, text *TextConfig, invisible *InvisibleConfig) (Result, error) {
	p, _ := New()
	return p.Run(base, logo, text, invisible)
}

// ExtractResult distinguishes a terminator-closed message from a best-effort
// partial read.
type ExtractResult = lsb.Result

// Extract recovers a hidden message from any buffer, collecting at most
// maxLength bytes. It never fails; absent terminators degrade to a
// best-effort, possibly truncated string.
func Extract(img *pixel.Buffer, maxLength int) string {
	return lsb.Extract(img, maxLength)
}

// ExtractDetail is the stricter variant of Extract, reporting whether the
// terminator was actually found.
func ExtractDetail(img *pixel.Buffer, maxLength int) ExtractResult {
	return lsb.ExtractDetail(img, maxLength)
}

// Capacity returns the maximum payload size in bytes, terminator included,
// that an image can carry in its invisible layer.
func Capacity(img *pixel.Buffer) int {
	return lsb.Capacity(img)
}
