// Package save holds the external collaborators of the pipeline: persistence
// of the finished image and embedding of workflow metadata. The pipeline core
// places no constraint on format or quality beyond documenting that only a
// lossless format (PNG) preserves an invisible watermark layer; JPEG quality
// is an opaque pass-through parameter.
package save

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"

	"github.com/aicuai/comfyui-save-image-watermark/pixel"
)

// Saver persists a finished buffer and returns the chosen filename.
type Saver interface {
	Save(img *pixel.Buffer, prefix string, format imaging.Format, quality int) (string, error)
}

// FileSaver writes images into a directory with timestamped, sequenced
// filenames of the form prefix_20060102_150405_001.ext. The sequence counter
// belongs to the saver, not the pipeline; pipelines stay stateless.
type FileSaver struct {
	Dir string
	// Now is a test hook; nil means time.Now.
	Now func() time.Time

	seq atomic.Uint64
}

// NewFileSaver creates a saver rooted at dir, creating it if needed.
func NewFileSaver(dir string) (*FileSaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileSaver{Dir: dir}, nil
}

func (s *FileSaver) Save(img *pixel.Buffer, prefix string, format imaging.Format, quality int) (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	n := s.seq.Add(1)
	name := fmt.Sprintf("%s_%s_%03d.%s", prefix, now().Format("20060102_150405"), n, extension(format))

	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	var opts []imaging.EncodeOption
	if quality > 0 {
		opts = append(opts, imaging.JPEGQuality(quality))
	}
	if err := imaging.Encode(f, img.Image(), format, opts...); err != nil {
		return "", fmt.Errorf("encode %s: %w", format, err)
	}
	return name, nil
}

func extension(format imaging.Format) string {
	if format == imaging.JPEG {
		return "jpg"
	}
	return strings.ToLower(format.String())
}
