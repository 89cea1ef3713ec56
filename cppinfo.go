package kmlpkg

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const CppInfoFile = "cppinfo.toml"

// CppInfo is what consumers need to know to build against the package. It
// is written to the package folder.
type CppInfo struct {
	Name        string            `toml:"name"`
	Version     string            `toml:"version"`
	PackageID   string            `toml:"package_id"`
	Session     string            `toml:"session"`
	Libs        []string          `toml:"libs"`
	LibDirs     []string          `toml:"libdirs"`
	IncludeDirs []string          `toml:"includedirs"`
	BinDirs     []string          `toml:"bindirs"`
	Settings    map[string]string `toml:"settings"`
	Options     map[string]string `toml:"options"`
}

func (ci *CppInfo) WriteFile(path string) (err error) {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); err == nil {
			err = e
		}
	}()
	if err = toml.NewEncoder(w).Encode(ci); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func ReadCppInfo(path string) (*CppInfo, error) {
	var ci CppInfo
	if _, err := toml.DecodeFile(path, &ci); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &ci, nil
}
