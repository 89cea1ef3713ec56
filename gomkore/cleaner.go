package gomkore

import (
	"time"
)

// Clean removes the artefacts of all removable goals of prj that are the
// result of some action. With dryrun set, removals are only traced.
func Clean(prj *Project, dryrun bool, tr *Trace) error {
	prj.LockBuild()
	defer prj.Unlock()
	start := time.Now()
	tr = tr.pushProject(prj)
	tr.startProject(prj, "cleaning")
	for _, g := range prj.order {
		if len(g.resultOf) == 0 || !g.Removable {
			continue
		}
		f, ok := g.Artefact.(RemovableArtefact)
		if !ok {
			continue
		}
		if ok, err := f.Exists(prj); err != nil || !ok {
			continue
		}
		tr.pushGoal(g).removeArtefact(g)
		if !dryrun {
			if err := f.Remove(prj); err != nil {
				tr.Warn("cannot remove `goal`: `error`", `goal`, g.Name(), `error`, err)
			}
		}
	}
	tr.doneProject(prj, "cleaning", time.Since(start))
	return nil
}
