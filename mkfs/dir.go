package mkfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

// Dir is a directory tree artefact. Its state time is the newest modification
// time of the entries accepted by Filter. A nil Filter accepts everything.
type Dir struct {
	Dir    string
	Filter Filter
}

var _ Artefact = Dir{}

func (d Dir) Path() string { return d.Dir }

func (d Dir) Name(in *gomkore.Project) string {
	n, _ := in.RelPath(d.Dir)
	return filepath.ToSlash(n) + "/"
}

func (d Dir) StateAt(in *gomkore.Project) (t time.Time) {
	root, err := in.AbsPath(d.Dir)
	if err != nil {
		return time.Time{}
	}
	err = d.walk(root, func(_ string, e fs.DirEntry) error {
		if info, err := e.Info(); err != nil {
			return err
		} else if mt := info.ModTime(); mt.After(t) {
			t = mt
		}
		return nil
	})
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Dir) Exists(in *gomkore.Project) (bool, error) { return exists(d, in) }

func (d Dir) Remove(in *gomkore.Project) error {
	p, err := in.AbsPath(d.Dir)
	if err != nil {
		return err
	}
	return os.RemoveAll(p)
}

// List returns the paths, relative to the project, of all entries below d
// accepted by the filter.
func (d Dir) List(in *gomkore.Project) (ls []string, err error) {
	root, err := in.AbsPath(d.Dir)
	if err != nil {
		return nil, err
	}
	err = d.walk(root, func(p string, _ fs.DirEntry) error {
		if p, err = in.RelPath(p); err != nil {
			return err
		}
		ls = append(ls, filepath.ToSlash(p))
		return nil
	})
	return ls, err
}

func (d Dir) walk(root string, do func(string, fs.DirEntry) error) error {
	err := filepath.WalkDir(root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if d.Filter != nil {
			rel, _ := filepath.Rel(root, p)
			if ok, err := d.Filter.Ok(rel, e); err != nil {
				return err
			} else if !ok {
				return nil
			}
		}
		return do(p, e)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
