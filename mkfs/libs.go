package mkfs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LibExts are the file extensions [CollectLibs] considers to be libraries.
var LibExts = HasExt{".so", ".lib", ".a", ".dylib", ".bc"}

// CollectLibs returns the link names of the libraries in directory libDir in
// the order of their file names. The extension is stripped and, except for
// Windows import libraries (.lib), also a leading "lib". Versioned shared
// objects like libfoo.so.1 are ignored as they are not linked by name. A
// missing directory yields no libraries.
func CollectLibs(libDir string) ([]string, error) {
	entries, err := os.ReadDir(libDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var libs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := LibExts.Ok(e.Name(), e); !ok {
			continue
		}
		ext := filepath.Ext(e.Name())
		name := strings.TrimSuffix(e.Name(), ext)
		if ext != ".lib" {
			name = strings.TrimPrefix(name, "lib")
		}
		if name != "" && !slices.Contains(libs, name) {
			libs = append(libs, name)
		}
	}
	return libs, nil
}
