package mkfs

import (
	"io/fs"
	"path/filepath"
	"slices"
)

type Filter interface {
	Ok(path string, entry fs.DirEntry) (bool, error)
}

type FilterFunc func(string, fs.DirEntry) (bool, error)

func (ff FilterFunc) Ok(p string, e fs.DirEntry) (bool, error) {
	return ff(p, e)
}

type IsDir bool

func (d IsDir) Ok(_ string, e fs.DirEntry) (bool, error) {
	return e.IsDir() == bool(d), nil
}

type NameMatch string

func (p NameMatch) Ok(_ string, e fs.DirEntry) (bool, error) {
	return filepath.Match(string(p), e.Name())
}

// HasExt accepts entries whose extension is one of the listed extensions,
// including the leading dot.
type HasExt []string

func (x HasExt) Ok(_ string, e fs.DirEntry) (bool, error) {
	return slices.Contains(x, filepath.Ext(e.Name())), nil
}

type All []Filter

func (fs All) Ok(p string, e fs.DirEntry) (bool, error) {
	for _, f := range fs {
		if ok, err := f.Ok(p, e); err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}
