package save

import (
	"os"
	"path/filepath"
)

// MetadataWriter embeds an opaque JSON blob alongside a saved image. The
// pipeline does not construct or validate the blob beyond passing it through.
type MetadataWriter interface {
	Write(filename string, blob []byte) error
}

// SidecarWriter stores metadata as a <filename>.json file next to the image.
type SidecarWriter struct {
	Dir string
}

func (w *SidecarWriter) Write(filename string, blob []byte) error {
	return os.WriteFile(filepath.Join(w.Dir, filename+".json"), blob, 0o644)
}
