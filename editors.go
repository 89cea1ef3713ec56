package kmlpkg

import "git.fractalqb.de/fractalqb/kmlpkg/gomkore"

// ProjectEd is used with [Edit].
type ProjectEd struct{ p *Project }

func (ed ProjectEd) Goal(atf gomkore.Artefact) GoalEd {
	return GoalEd{mustRet(ed.p.Goal(atf))}
}

// GoalEd is used with [Edit].
type GoalEd struct{ g *Goal }

func (ed GoalEd) Goal() *Goal { return ed.g }

// SetRemovable marks the goal's artefact to be removed by [gomkore.Clean].
func (ed GoalEd) SetRemovable(r bool) GoalEd {
	ed.g.Removable = r
	return ed
}

// By adds an action with operation op that reaches result from premises.
func (result GoalEd) By(op gomkore.Operation, premises ...GoalEd) GoalEd {
	prj := result.g.Project()
	mustRet(prj.NewAction(goals(premises), []*Goal{result.g}, op))
	return result
}

// ImpliedBy adds an implicit action, i.e. ed is reached when all premises
// are reached.
func (ed GoalEd) ImpliedBy(premises ...GoalEd) GoalEd {
	prj := ed.g.Project()
	mustRet(prj.NewAction(goals(premises), []*Goal{ed.g}, nil))
	return ed
}

func goals(gs []GoalEd) []*Goal {
	var gls []*Goal
	if l := len(gs); l > 0 {
		gls = make([]*gomkore.Goal, l)
		for i, p := range gs {
			gls[i] = p.g
		}
	}
	return gls
}
