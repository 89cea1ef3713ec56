package gomkore

import (
	"fmt"
	"reflect"
	"time"
)

// Artefact represents the tangible outcome of a [Goal] being reached. A special
// case is the [Abstract] artefact.
type Artefact interface {
	// Name returns the name of the artefact that must be unique in the Project.
	Name(in *Project) string

	// StateAt returns the time at which the artefact reached its current
	// state. If this cannot be provided, the zero Time is returned.
	StateAt(in *Project) time.Time
}

// RemovableArtefact is an artefact that [Clean] may remove from the project.
type RemovableArtefact interface {
	Artefact
	Exists(in *Project) (bool, error)
	Remove(in *Project) error
}

type Abstract string

var _ Artefact = Abstract("")

func (a Abstract) Name(*Project) string { return string(a) }

func (a Abstract) StateAt(*Project) time.Time { return time.Time{} }

// A Goal is something you want to achieve in your [Project], e.g. an unpacked
// source tree or the package folder of the library. Each goal is associated
// with an [Artefact] that is considered up-to-date when the goal is reached.
//
// Goals are reached through actions ([Action]). A goal may be the result of
// several actions which are then run in the order they were added. A goal can
// also be the premise of actions that must not run before the goal is
// reached.
type Goal struct {
	Artefact Artefact

	// Removable marks the artefact as something [Clean] may remove.
	Removable bool

	prj       *Project
	idx       uint
	resultOf  []*Action
	premiseOf []*Action
}

func (g *Goal) Project() *Project { return g.prj }

func (g *Goal) Name() string { return g.Artefact.Name(g.Project()) }

// ResultOf returns the actions that result in this goal.
func (g *Goal) ResultOf() []*Action { return g.resultOf }

func (g *Goal) IsAbstract() bool {
	_, ok := g.Artefact.(Abstract)
	return ok
}

func (g *Goal) String() string {
	tn := reflect.Indirect(reflect.ValueOf(g.Artefact)).Type().Name()
	return fmt.Sprintf("[%s]%s", g.Name(), tn)
}

// CheckPreTimes returns the indices of the actions in [Goal.ResultOf] that need
// to be run because g's artefact has no state time, the action has no
// premises, or one of the premises is newer than g.
func (g *Goal) CheckPreTimes(tr *Trace) (chgs []int) {
	gaTS := g.Artefact.StateAt(g.Project())
	for actIdx, act := range g.resultOf {
		switch {
		case gaTS.IsZero():
			tr.scheduleResTimeZero(act, g)
			chgs = append(chgs, actIdx)
			continue
		case len(act.premises) == 0:
			tr.scheduleNotPremises(act, g)
			chgs = append(chgs, actIdx)
			continue
		}
		for _, pre := range act.premises {
			preTS := pre.Artefact.StateAt(g.Project())
			if preTS.IsZero() {
				if pre.IsAbstract() && len(pre.resultOf) == 0 {
					continue
				}
				tr.schedulePreTimeZero(act, g, pre)
				chgs = append(chgs, actIdx)
				break
			}
			if gaTS.Before(preTS) {
				tr.scheduleOutdated(act, g, pre)
				chgs = append(chgs, actIdx)
				break
			}
		}
	}
	return chgs
}
