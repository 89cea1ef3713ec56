package fetch

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	kindTarGz = iota
	kindTar
	kindZip
)

func archiveKind(name string) (int, error) {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return kindTarGz, nil
	case strings.HasSuffix(name, ".tar"):
		return kindTar, nil
	case strings.HasSuffix(name, ".zip"):
		return kindZip, nil
	}
	return 0, fmt.Errorf("unknown archive type of %s", name)
}

// target returns the path of archive entry name below dest.
func target(dest, name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(dest, filepath.FromSlash(clean)), nil
}

func linkInside(dest, link, to string) bool {
	if filepath.IsAbs(to) {
		return false
	}
	rel, err := filepath.Rel(dest, filepath.Join(filepath.Dir(link), to))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// noLinks fails if a path component of tgt below dest is a symbolic link.
func noLinks(dest, tgt string) error {
	rel, err := filepath.Rel(dest, tgt)
	if err != nil {
		return err
	}
	if rel == "." {
		return nil
	}
	p := dest
	for _, c := range strings.Split(rel, string(filepath.Separator)) {
		p = filepath.Join(p, c)
		fi, err := os.Lstat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case fi.Mode()&fs.ModeSymlink != 0:
			return fmt.Errorf("%w: %s passes link %s", ErrUnsafePath, tgt, p)
		}
	}
	return nil
}

func topLevel(tops []string, name string) []string {
	name = strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, `\`, "/")), "./")
	if name == "." || name == "" {
		return tops
	}
	top, _, _ := strings.Cut(name, "/")
	if !slices.Contains(tops, top) {
		tops = append(tops, top)
	}
	return tops
}

func untarGz(r io.Reader, dest string) ([]string, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return untar(zr, dest)
}

func untar(r io.Reader, dest string) (tops []string, err error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return tops, nil
		} else if err != nil {
			return tops, err
		}
		tgt, err := target(dest, hdr.Name)
		if err != nil {
			return tops, err
		}
		if err = noLinks(dest, tgt); err != nil {
			return tops, err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			err = os.MkdirAll(tgt, 0777)
		case tar.TypeReg:
			err = writeFile(tgt, tr, hdr.FileInfo().Mode().Perm())
		case tar.TypeSymlink:
			if !linkInside(dest, tgt, hdr.Linkname) {
				return tops, fmt.Errorf("%w: link %s -> %s", ErrUnsafePath, hdr.Name, hdr.Linkname)
			}
			if err = os.MkdirAll(filepath.Dir(tgt), 0777); err == nil {
				err = os.Symlink(hdr.Linkname, tgt)
			}
		default:
			continue
		}
		if err != nil {
			return tops, err
		}
		tops = topLevel(tops, hdr.Name)
	}
}

func unzip(r io.ReaderAt, size int64, dest string) (tops []string, err error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		tgt, err := target(dest, f.Name)
		if err != nil {
			return tops, err
		}
		if err = noLinks(dest, tgt); err != nil {
			return tops, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(tgt, 0777); err != nil {
				return tops, err
			}
		} else {
			rc, err := f.Open()
			if err != nil {
				return tops, err
			}
			perm := f.Mode().Perm()
			if perm == 0 {
				perm = 0644
			}
			err = writeFile(tgt, rc, perm)
			rc.Close()
			if err != nil {
				return tops, err
			}
		}
		tops = topLevel(tops, f.Name)
	}
	return tops, nil
}

func writeFile(name string, r io.Reader, perm os.FileMode) (err error) {
	if err := os.MkdirAll(filepath.Dir(name), 0777); err != nil {
		return err
	}
	w, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()
	_, err = io.Copy(w, r)
	return err
}
