package mkfs

import (
	"errors"
	"io/fs"
	"os"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

// Artefact is a filesystem artefact. Relative paths are relative to the
// project directory.
type Artefact interface {
	gomkore.RemovableArtefact
	Path() string
}

func Stat(a Artefact, in *gomkore.Project) (fs.FileInfo, error) {
	p, err := in.AbsPath(a.Path())
	if err != nil {
		return nil, err
	}
	return os.Stat(p)
}

func exists(a Artefact, in *gomkore.Project) (bool, error) {
	_, err := Stat(a, in)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// fsArtefacts selects the filesystem artefacts of gs. Abstract goals are
// skipped, other artefact types are an error.
func fsArtefacts(what string, gs []*gomkore.Goal) ([]Artefact, error) {
	var res []Artefact
	for _, g := range gs {
		switch a := g.Artefact.(type) {
		case gomkore.Abstract:
		case Artefact:
			res = append(res, a)
		default:
			return nil, &IllegalArtefact{What: what, Artefact: a}
		}
	}
	return res, nil
}

type IllegalArtefact struct {
	What     string
	Artefact gomkore.Artefact
}

func (e *IllegalArtefact) Error() string {
	return "illegal " + e.What + " artefact type " + typeName(e.Artefact)
}
