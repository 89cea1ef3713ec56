package patch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

const multiPatch = `diff --git a/src/kml/base/file.cc b/src/kml/base/file.cc
index 1111111..2222222 100644
--- a/src/kml/base/file.cc
+++ b/src/kml/base/file.cc
@@ -1,4 +1,4 @@
 #include "kml/base/file.h"
-#include <unistd.h>
+#include <cstdio>
 namespace kmlbase {
 int a;
@@ -8,3 +8,4 @@ namespace kmlbase {
 int f;
 int g;
 }
+// patched
diff --git a/CMakeLists.txt b/CMakeLists.txt
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/CMakeLists.txt
@@ -0,0 +1,2 @@
+cmake_minimum_required(VERSION 3.1)
+project(libkml)
diff --git a/obsolete.txt b/obsolete.txt
deleted file mode 100644
index 4444444..0000000
--- a/obsolete.txt
+++ /dev/null
@@ -1 +0,0 @@
-gone
`

const fileCC = `#include "kml/base/file.h"
#include <unistd.h>
namespace kmlbase {
int a;
int b;
int c;
int d;
int f;
int g;
}
`

func writeTree(t *testing.T, files map[string]string) string {
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		testerr.Shall(os.MkdirAll(filepath.Dir(p), 0777)).BeNil(t)
		testerr.Shall(os.WriteFile(p, []byte(content), 0666)).BeNil(t)
	}
	return root
}

func readFile(t *testing.T, root, name string) string {
	data := testerr.Shall1(os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))).BeNil(t)
	return string(data)
}

func TestApply(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/kml/base/file.cc": fileCC,
		"obsolete.txt":         "gone\n",
	})
	fds := testerr.Shall1(Parse([]byte(multiPatch))).BeNil(t)
	if len(fds) != 3 {
		t.Fatalf("parsed %d file diffs", len(fds))
	}
	testerr.Shall(Apply(root, 1, fds)).BeNil(t)

	const patchedCC = `#include "kml/base/file.h"
#include <cstdio>
namespace kmlbase {
int a;
int b;
int c;
int d;
int f;
int g;
}
// patched
`
	if s := readFile(t, root, "src/kml/base/file.cc"); s != patchedCC {
		t.Errorf("patched file.cc:\n%s", s)
	}
	if s := readFile(t, root, "CMakeLists.txt"); s != "cmake_minimum_required(VERSION 3.1)\nproject(libkml)\n" {
		t.Errorf("created CMakeLists.txt:\n%s", s)
	}
	if _, err := os.Stat(filepath.Join(root, "obsolete.txt")); !os.IsNotExist(err) {
		t.Error("obsolete.txt not deleted")
	}
}

func TestApply_offset(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/kml/base/file.cc": "// license\n// header\n" + fileCC,
	})
	fds := testerr.Shall1(Parse([]byte(multiPatch))).BeNil(t)
	testerr.Shall(Apply(root, 1, fds[:1])).BeNil(t)
	s := readFile(t, root, "src/kml/base/file.cc")
	const want = "// license\n// header\n#include \"kml/base/file.h\"\n#include <cstdio>\n" +
		"namespace kmlbase {\nint a;\nint b;\nint c;\nint d;\nint f;\nint g;\n}\n// patched\n"
	if s != want {
		t.Errorf("patched with offset:\n%s", s)
	}
}

func TestApply_conflict(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/kml/base/file.cc": "#include \"kml/base/file.h\"\n#include <io.h>\n",
	})
	fds := testerr.Shall1(Parse([]byte(multiPatch))).BeNil(t)
	err := Apply(root, 1, fds[:1])
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if cerr.File != "src/kml/base/file.cc" || cerr.Hunk != 0 || cerr.Line != 1 {
		t.Errorf("unexpected conflict %+v", *cerr)
	}
}

func TestFile_strip0(t *testing.T) {
	const p = `--- VERSION
+++ VERSION
@@ -1 +1 @@
-1.3.0
+1.3.0-conan
`
	root := writeTree(t, map[string]string{"VERSION": "1.3.0\n"})
	pfile := filepath.Join(t.TempDir(), "0001-version.patch")
	testerr.Shall(os.WriteFile(pfile, []byte(p), 0666)).BeNil(t)
	testerr.Shall(File(root, pfile, 0)).BeNil(t)
	if s := readFile(t, root, "VERSION"); s != "1.3.0-conan\n" {
		t.Errorf("patched VERSION '%s'", s)
	}
}

func TestApply_noNewline(t *testing.T) {
	const p = `--- a/VERSION
+++ b/VERSION
@@ -1 +1 @@
-1.3.0
\ No newline at end of file
+1.3.1
\ No newline at end of file
`
	root := writeTree(t, map[string]string{"VERSION": "1.3.0"})
	fds := testerr.Shall1(Parse([]byte(p))).BeNil(t)
	testerr.Shall(Apply(root, 1, fds)).BeNil(t)
	if s := readFile(t, root, "VERSION"); s != "1.3.1" {
		t.Errorf("patched VERSION '%s'", s)
	}
}

func Test_stripPath(t *testing.T) {
	for _, c := range []struct {
		name  string
		strip int
		want  string
	}{
		{"a/src/x.cc", 1, "src/x.cc"},
		{"a/src/x.cc", 0, "a/src/x.cc"},
		{"a//src/x.cc", 1, "src/x.cc"},
		{"libkml-1.3.0/a/b", 2, "b"},
	} {
		got := testerr.Shall1(stripPath(c.name, c.strip)).BeNil(t)
		if got != c.want {
			t.Errorf("strip %d from %s: '%s', want '%s'", c.strip, c.name, got, c.want)
		}
	}
	if _, err := stripPath("x.cc", 1); !errors.Is(err, ErrStrip) {
		t.Errorf("unexpected strip error %v", err)
	}
}

func TestApply_outside(t *testing.T) {
	const p = `--- a/../evil
+++ b/../evil
@@ -0,0 +1 @@
+x
`
	fds := testerr.Shall1(Parse([]byte(p))).BeNil(t)
	if err := Apply(t.TempDir(), 1, fds); err == nil {
		t.Error("no error for target outside of root")
	}
}
