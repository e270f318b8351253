package pack

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
)

// WriteDir materializes the package as a directory tree rooted at dir.
func (p *Package) WriteDir(dir string) error {
	for _, f := range p.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// WriteZip streams the package as a zip archive.
func (p *Package) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, f := range p.Files {
		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("zip entry %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}
	return nil
}

// WriteTarXZ streams the package as a tar.xz archive. Timestamps are
// normalized so identical packages produce identical archives.
func (p *Package) WriteTarXZ(w io.Writer) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("starting xz stream: %w", err)
	}
	tw := tar.NewWriter(xw)

	modTime := time.Unix(0, 0).UTC()
	for _, f := range p.Files {
		hdr := &tar.Header{
			Name:    f.Name,
			Mode:    0o644,
			Size:    int64(len(f.Data)),
			ModTime: modTime,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("tar entry %s: %w", f.Name, err)
		}
		if _, err := tw.Write(f.Data); err != nil {
			return fmt.Errorf("tar entry %s: %w", f.Name, err)
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("closing xz stream: %w", err)
	}
	return nil
}
