package bundle

import (
	"archive/zip"
	"bufio"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathInvalid is returned for package paths which are absolute or leave
// the package root.
var ErrPathInvalid = errors.New("invalid package path")

// Dir writes package files below a root directory. Files are written
// atomically: data goes to a temporary file in the target directory, which
// is then renamed.
type Dir struct {
	root  string
	permF os.FileMode
	permD os.FileMode
}

// NewDir creates a Dir writing below root.
func NewDir(root string) *Dir {
	return &Dir{root: root, permF: 0o644, permD: 0o755}
}

// Root returns the root directory.
func (d *Dir) Root() string {
	return d.root
}

// Path maps a slash-separated package path to a file system path.
func (d *Dir) Path(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || clean == "" || filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: %q", ErrPathInvalid, rel)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathInvalid, rel)
	}
	return filepath.Join(d.root, clean), nil
}

// WriteFile writes data to the package path rel, creating directories as
// needed.
func (d *Dir) WriteFile(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := d.Path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), d.permD); err != nil {
		return err
	}
	tracer().Debugf("writing %s (%d bytes)", rel, len(data))
	return d.writeAtomic(dest, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Archive writes a zip archive to the package path name, containing the
// package files given by paths. Entries keep their package paths and are
// compressed with maximum compression.
func (d *Dir) Archive(ctx context.Context, name string, paths []string) error {
	dest, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), d.permD); err != nil {
		return err
	}
	tracer().Debugf("writing archive %s with %d entries", name, len(paths))
	return d.writeAtomic(dest, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})
		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.addToZip(zw, p); err != nil {
				return err
			}
		}
		return zw.Close()
	})
}

func (d *Dir) addToZip(zw *zip.Writer, rel string) error {
	src, err := d.Path(rel)
	if err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func (d *Dir) writeAtomic(dest string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, d.permF)
	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := write(bw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
