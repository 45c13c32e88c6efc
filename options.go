package watermark

import (
	"time"

	"github.com/aicuai/comfyui-save-image-watermark/save"
)

type Option func(*Pipeline) error

// WithSaver sets the persistence collaborator that receives the finished
// buffer in RunAndSave.
func WithSaver(s save.Saver) Option {
	return func(p *Pipeline) error {
		p.saver = s
		return nil
	}
}

// WithMetadataWriter sets the collaborator that embeds workflow metadata
// alongside a saved image.
func WithMetadataWriter(w save.MetadataWriter) Option {
	return func(p *Pipeline) error {
		p.meta = w
		return nil
	}
}

// WithClock overrides the timestamp source used in provenance metadata.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		p.now = now
		return nil
	}
}
