// Package linkorder arranges the libraries of a libkml package for linkers
// that resolve symbols left to right: a library must come before the
// libraries it depends on.
//
// The dependency order of the libkml libraries is fixed:
//
//	kmlregionator → kmlconvenience → kmlengine → kmldom → kmlxsd → kmlbase
//
// Artifact names are matched against this order by the suffix of their base
// name (see [BaseName]). The first canonical identifier that matches wins,
// which matters because identifiers may be suffixes of one another. Names
// that match no identifier are kept and appended after all matched names in
// their original order.
package linkorder

import (
	"path"
	"strings"
)

// Size is the number of canonical library identifiers.
const Size = 6

var canonical = [Size]string{
	"kmlregionator",
	"kmlconvenience",
	"kmlengine",
	"kmldom",
	"kmlxsd",
	"kmlbase",
}

// Canonical returns the canonical identifiers, most dependent first.
func Canonical() [Size]string { return canonical }

// BaseName strips the file extension from artifact and then everything from
// the first '-' on, e.g. a version decoration.
func BaseName(artifact string) string {
	base, _, _ := strings.Cut(stripExt(artifact), "-")
	return base
}

// stripExt removes the extension of the last path element. Leading dots of
// the element do not start an extension.
func stripExt(name string) string {
	elem := name[strings.LastIndexAny(name, `/\`)+1:]
	lead := len(elem) - len(strings.TrimLeft(elem, "."))
	ext := path.Ext(elem[lead:])
	return name[:len(name)-len(ext)]
}

// Match returns the index in [Canonical] of the first identifier the base
// name of artifact ends with. No canonical identifier is a suffix of another,
// so with the current list at most one identifier matches.
func Match(artifact string) (int, bool) {
	return firstMatch(canonical[:], artifact)
}

func firstMatch(ids []string, artifact string) (int, bool) {
	base := BaseName(artifact)
	for i, id := range ids {
		if strings.HasSuffix(base, id) {
			return i, true
		}
	}
	return -1, false
}

// Partition is the assignment of artifact names to the canonical
// identifiers.
type Partition struct {
	// Buckets holds the artifacts matching Canonical()[i] in Buckets[i], in
	// input order.
	Buckets [Size][]string

	// Unmatched holds the artifacts without matching identifier in input
	// order.
	Unmatched []string
}

// Split assigns each artifact to the bucket of its first matching canonical
// identifier.
func Split(artifacts []string) (p Partition) {
	for _, a := range artifacts {
		if i, ok := Match(a); ok {
			p.Buckets[i] = append(p.Buckets[i], a)
		} else {
			p.Unmatched = append(p.Unmatched, a)
		}
	}
	return p
}

// Flatten concatenates the buckets in canonical order followed by the
// unmatched artifacts.
func (p *Partition) Flatten() []string {
	n := len(p.Unmatched)
	for _, b := range p.Buckets {
		n += len(b)
	}
	res := make([]string, 0, n)
	for _, b := range p.Buckets {
		res = append(res, b...)
	}
	return append(res, p.Unmatched...)
}

// Resolve returns artifacts in link order. The result is a permutation of
// artifacts.
func Resolve(artifacts []string) []string {
	p := Split(artifacts)
	return p.Flatten()
}
