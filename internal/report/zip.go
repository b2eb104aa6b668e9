package report

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteArchive bundles the given files into a zip, stored under their base
// names.
func WriteArchive(out string, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("zip %s: nothing to archive", out)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, path := range files {
		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("archiving %s: %w", path, err)
		}
		w, err := zw.Create(filepath.Base(path))
		if err != nil {
			src.Close()
			return fmt.Errorf("archiving %s: %w", path, err)
		}
		if _, err := io.Copy(w, src); err != nil {
			src.Close()
			return fmt.Errorf("archiving %s: %w", path, err)
		}
		src.Close()
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", out, err)
	}
	return nil
}
