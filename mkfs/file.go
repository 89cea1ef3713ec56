package mkfs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

type File string

var _ Artefact = File("")

func (f File) Path() string { return string(f) }

func (f File) Name(in *gomkore.Project) string {
	n, _ := in.RelPath(f.Path())
	return filepath.ToSlash(n)
}

func (f File) StateAt(in *gomkore.Project) time.Time {
	st, err := Stat(f, in)
	if err != nil || st.IsDir() {
		return time.Time{}
	}
	return st.ModTime()
}

func (f File) Exists(in *gomkore.Project) (bool, error) { return exists(f, in) }

func (f File) Remove(in *gomkore.Project) error {
	p, err := in.AbsPath(f.Path())
	if err != nil {
		return err
	}
	if err = os.Remove(p); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (f File) Ext() string { return filepath.Ext(f.Path()) }

// Touch creates f if needed, including its directory, and sets its
// modification time to now. Operations touch stamp files to mark a goal as
// reached.
func (f File) Touch(in *gomkore.Project) error {
	p, err := in.AbsPath(f.Path())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0777); err != nil {
		return err
	}
	now := time.Now()
	if err := os.Chtimes(p, now, now); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	w, err := os.Create(p)
	if err != nil {
		return err
	}
	return w.Close()
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.Indirect(reflect.ValueOf(v)).Type().String()
}
