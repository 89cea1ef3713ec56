package mkfs

import (
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
	"git.fractalqb.de/fractalqb/kmlpkg/gomkore/mktest"
	"git.fractalqb.de/fractalqb/testerr"
)

func TestCopy_toDir(t *testing.T) {
	prj := gomkore.NewProject(t.TempDir())
	src := filepath.Join(prj.Dir, "source_subfolder", "COPYING")
	testerr.Shall(os.MkdirAll(filepath.Dir(src), 0777)).BeNil(t)
	testerr.Shall(os.WriteFile(src, []byte("BSD"), 0644)).BeNil(t)

	pre := testerr.Shall1(prj.Goal(File("source_subfolder/COPYING"))).BeNil(t)
	res := testerr.Shall1(prj.Goal(Dir{Dir: "package/licenses"})).BeNil(t)
	testerr.Shall1(prj.NewAction([]*gomkore.Goal{pre}, []*gomkore.Goal{res}, Copy{})).BeNil(t)

	bd := testerr.Shall1(gomkore.NewBuilder(mktest.NewTrace(t), mktest.Env(t))).BeNil(t)
	testerr.Shall(bd.Project(prj)).BeNil(t)

	data := testerr.Shall1(os.ReadFile(filepath.Join(prj.Dir, "package", "licenses", "COPYING"))).BeNil(t)
	if string(data) != "BSD" {
		t.Errorf("unexpected license content '%s'", data)
	}
}

func TestRemoveDirs(t *testing.T) {
	prj := gomkore.NewProject(t.TempDir())
	for _, d := range []string{"lib/cmake", "lib/pkgconfig", "cmake"} {
		testerr.Shall(os.MkdirAll(filepath.Join(prj.Dir, "package", d), 0777)).BeNil(t)
	}
	rm := RemoveDirs{"package/lib/cmake", "package/lib/pkgconfig", "package/cmake", "package/nope"}
	res := testerr.Shall1(prj.Goal(gomkore.Abstract("rm"))).BeNil(t)
	act := testerr.Shall1(prj.NewAction(nil, []*gomkore.Goal{res}, rm)).BeNil(t)
	testerr.Shall(rm.Do(mktest.NewTrace(t), act, mktest.Env(t))).BeNil(t)
	for _, d := range rm {
		if _, err := os.Stat(filepath.Join(prj.Dir, d)); !os.IsNotExist(err) {
			t.Errorf("%s not removed: %v", d, err)
		}
	}
	if _, err := os.Stat(filepath.Join(prj.Dir, "package", "lib")); err != nil {
		t.Errorf("lib dir removed: %v", err)
	}
}
