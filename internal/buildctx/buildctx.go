package buildctx

// Package buildctx archives a local container build context as a gzipped
// tarball, the format the registry build service expects for uploaded
// sources.

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// skipDirs are directory names never shipped to the build service.
var skipDirs = map[string]bool{
	".git":  true,
	".venv": true,
}

// Archive writes dir as a gzipped tarball to w. Entry names are
// slash-separated paths relative to dir. Symlinks and irregular files are
// skipped.
func Archive(dir string, w io.Writer) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat build context %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("build context %q is not a directory", dir)
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			hdr := &tar.Header{
				Name:     name + "/",
				Mode:     0755,
				Typeflag: tar.TypeDir,
			}
			return tw.WriteHeader(hdr)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		hdr := &tar.Header{
			Name:    name,
			Mode:    int64(fi.Mode().Perm()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		return err
	})
	if err != nil {
		return fmt.Errorf("archiving build context %q: %w", dir, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("closing gzip writer: %w", err)
	}
	return nil
}

// ArchiveToTemp archives dir into a temporary file and returns its path.
// The caller is responsible for removing the file.
func ArchiveToTemp(dir string) (string, error) {
	f, err := os.CreateTemp("", "imgappops-buildctx-*.tar.gz")
	if err != nil {
		return "", fmt.Errorf("creating temp archive: %w", err)
	}
	if err := Archive(dir, f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing temp archive: %w", err)
	}
	return f.Name(), nil
}

// ContainsDockerfile reports whether dir has a Dockerfile at its root,
// matching the default path sent to the build service.
func ContainsDockerfile(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "Dockerfile"))
	return err == nil
}
