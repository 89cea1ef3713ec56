package kmlpkg

import (
	"errors"
	"fmt"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

type (
	Env     = gomkore.Env
	Project = gomkore.Project
	Goal    = gomkore.Goal
	Action  = gomkore.Action
	Trace   = gomkore.Trace

	Abstract = gomkore.Abstract
)

func NewProject(dir string) *Project { return gomkore.NewProject(dir) }

// Edit calls do with wrappers of [gomkore] types that allow easy editing of
// project definitions. Edit recovers from any panic and returns it as an error,
// so the idiomatic error handling within do can be skipped.
func Edit(prj *Project, do func(ProjectEd)) (err error) {
	prj.Lock()
	defer func() {
		prj.Unlock()
		if p := recover(); p != nil {
			switch p := p.(type) {
			case error:
				err = p
			case string:
				err = errors.New(p)
			default:
				err = fmt.Errorf("panic: %+v", p)
			}
		}
	}()
	do(ProjectEd{prj})
	return
}

// Goals is meant to be used when implementing [gomkore.Operation] to select
// and check linked goals gs.
//
// See also [Tangible], [AType]
func Goals(gs []*Goal, exclusive bool, matchAll ...func(*Goal) bool) ([]*Goal, error) {
	mLen1 := len(matchAll) - 1
	res := make([]*Goal, 0, len(gs))
NEXT_GOAL:
	for gi, g := range gs {
		for pi, pred := range matchAll {
			if !pred(g) {
				if exclusive && pi == mLen1 {
					return nil, fmt.Errorf("illegal goal %d: %s", gi, g.Name())
				}
				continue NEXT_GOAL
			}
		}
		res = append(res, g)
	}
	return res, nil
}

func Tangible(g *Goal) bool { return !g.IsAbstract() }

func AType[A gomkore.Artefact](g *Goal) bool {
	_, ok := g.Artefact.(A)
	return ok
}

func mustEd(err error) {
	if err != nil {
		panic(err)
	}
}

func mustRet[T any](v T, err error) T {
	mustEd(err)
	return v
}
