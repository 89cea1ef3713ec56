package mkfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

// Copy [gomkore.Operation] copies file premises to its results. A [File]
// result requires exactly one file premise. Files are copied into a [Dir]
// result keeping their base name.
type Copy struct {
	MkDirMode fs.FileMode
}

var _ gomkore.Operation = Copy{}

func (Copy) Describe(*gomkore.Action, *gomkore.Env) string { return "FS copy" }

func (cp Copy) Do(tr *gomkore.Trace, a *gomkore.Action, _ *gomkore.Env) error {
	prems, err := fsArtefacts("FS copy premise", a.Premises())
	if err != nil {
		return err
	}
	prj := a.Project()
	for _, res := range a.Results() {
		switch dst := res.Artefact.(type) {
		case gomkore.Abstract:
		case File:
			if len(prems) != 1 {
				return fmt.Errorf("FS copy: %d premises for file %s", len(prems), dst)
			}
			if err := cp.toFile(tr, prj, dst, prems[0]); err != nil {
				return err
			}
		case Dir:
			for _, src := range prems {
				f, ok := src.(File)
				if !ok {
					return &IllegalArtefact{What: "FS copy premise", Artefact: src}
				}
				tgt := File(filepath.Join(dst.Path(), filepath.Base(f.Path())))
				if err := cp.toFile(tr, prj, tgt, f); err != nil {
					return err
				}
			}
		default:
			return &IllegalArtefact{What: "FS copy result", Artefact: dst}
		}
	}
	return nil
}

func (cp Copy) toFile(tr *gomkore.Trace, prj *gomkore.Project, dst File, src Artefact) error {
	dstPath, err := prj.AbsPath(dst.Path())
	if err != nil {
		return err
	}
	srcPath, err := prj.AbsPath(src.Path())
	if err != nil {
		return err
	}
	if srcPath == dstPath {
		tr.Warn("FS copy: `source` to itself, skipping", `source`, src.Path())
		return nil
	}
	mode := cp.MkDirMode
	if mode == 0 {
		mode = 0777
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), mode); err != nil {
		return err
	}
	tr.Debug("FS copy: `src` -> `dst`", `src`, srcPath, `dst`, dstPath)
	return CopyFile(dstPath, srcPath)
}

// CopyFile copies the regular file src to dst, keeping the permission bits of
// src.
func CopyFile(dst, src string) (err error) {
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()
	st, err := r.Stat()
	if err != nil {
		return err
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}
	w, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, st.Mode().Perm())
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

// RemoveDirs [gomkore.Operation] removes directory trees below the
// project. Missing directories are not an error.
type RemoveDirs []string

var _ gomkore.Operation = RemoveDirs{}

func (rm RemoveDirs) Describe(*gomkore.Action, *gomkore.Env) string {
	return fmt.Sprintf("FS remove %v", []string(rm))
}

func (rm RemoveDirs) Do(tr *gomkore.Trace, a *gomkore.Action, _ *gomkore.Env) error {
	for _, d := range rm {
		p, err := a.Project().AbsPath(d)
		if err != nil {
			return err
		}
		tr.Debug("remove `directory`", `directory`, p)
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return nil
}
