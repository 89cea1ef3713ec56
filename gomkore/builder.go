package gomkore

import (
	"errors"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// Builder reaches goals of a project by running the actions of outdated goals,
// premises first. A Builder must not be used concurrently.
type Builder struct {
	trace *Trace
	env   *Env
	done  *bitset.BitSet
}

func NewBuilder(tr *Trace, env *Env) (*Builder, error) {
	if tr == nil {
		return nil, errors.New("no trace for new builder")
	}
	return &Builder{trace: tr, env: env}, nil
}

func (bd *Builder) Trace() *Trace { return bd.trace }

// Project builds all leafs of prj.
func (bd *Builder) Project(prj *Project) error {
	return bd.Goals(prj.Leafs()...)
}

// Goals builds the goals gs which must all belong to the same project.
func (bd *Builder) Goals(gs ...*Goal) error {
	if len(gs) == 0 {
		return nil
	}
	prj := gs[0].Project()
	for _, g := range gs[1:] {
		if g.Project() != prj {
			return fmt.Errorf("goal %s not in project %s", g, prj)
		}
	}
	prj.LockBuild()
	defer prj.Unlock()
	if bd.env == nil {
		bd.env = DefaultEnv(bd.trace)
	}
	bd.done = bitset.New(uint(len(prj.order)))

	start := time.Now()
	tr := bd.trace.pushProject(prj)
	tr.startProject(prj, "building")
	for _, g := range gs {
		if err := bd.buildGoal(tr, g); err != nil {
			return err
		}
		if err := tr.Ctx().Err(); err != nil {
			return err
		}
	}
	tr.doneProject(prj, "building", time.Since(start))
	return nil
}

// NamedGoals builds the goals of prj with the given names.
func (bd *Builder) NamedGoals(prj *Project, names ...string) error {
	var gs []*Goal
	for _, n := range names {
		g := prj.FindGoal(n)
		if g == nil {
			return fmt.Errorf("no goal named '%s' in project '%s'", n, prj.String())
		}
		gs = append(gs, g)
	}
	return bd.Goals(gs...)
}

func (bd *Builder) buildGoal(tr *Trace, g *Goal) error {
	if bd.done.Test(g.idx) {
		return nil
	}
	bd.done.Set(g.idx)

	tr = tr.pushGoal(g)
	tr.checkGoal(g)
	if len(g.resultOf) == 0 {
		return nil
	}
	for _, act := range g.resultOf {
		for _, pre := range act.premises {
			if err := bd.buildGoal(tr, pre); err != nil {
				return err
			}
		}
	}
	chgs := g.CheckPreTimes(tr)
	if len(chgs) == 0 {
		tr.goalUpToDate(g)
		return nil
	}
	tr.goalNeedsActions(g, len(chgs))
	for _, idx := range chgs {
		if err := tr.Ctx().Err(); err != nil {
			return err
		}
		act := g.resultOf[idx]
		if _, err := act.Run(tr, bd.env); err != nil {
			return fmt.Errorf("goal %s: %w", g.Name(), err)
		}
	}
	return nil
}
