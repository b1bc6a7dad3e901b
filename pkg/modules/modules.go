// Package modules provides the in-memory model of a .gitmodules-style
// configuration describing pinned sub-projects, together with a parser and a
// canonical printer.
//
// The format is the sectioned key/value dialect git uses, with one twist: the
// url key may repeat within a section and the repetition order is meaningful.
// The first url is the authoritative upstream, the last is the write target,
// and anything between is an alternate mirror. The model stores urls as a
// first-class ordered list so that positional role rules are enforced
// structurally rather than re-derived at each use site.
package modules

import (
	"sort"

	"github.com/grammarforge/submodsync/pkg/errors"
)

// KeyValue is a single configuration key and its value.
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Module is one sub-project pinned in the configuration.
type Module struct {
	// Name is the subsection name from the section header.
	Name string `json:"name" yaml:"name"`

	// Path is the working-tree path of the sub-project. It is the primary
	// key: no two modules in a File may share a path.
	Path string `json:"path" yaml:"path"`

	// Branch is the optional branch or tag the sub-project tracks.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`

	// URLs is the ordered list of locations. Order is semantic: first is
	// upstream, last is origin. Duplicates are preserved as written.
	URLs []string `json:"urls" yaml:"urls"`

	// Extra holds keys the tool does not recognize. They are preserved
	// opaquely through a parse/print round trip, in first-occurrence order
	// with last-value-wins semantics per key.
	Extra []KeyValue `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// File is a parsed configuration: an ordered collection of modules indexed
// by path.
type File struct {
	// Modules in file order.
	Modules []*Module

	byPath map[string]*Module
}

// NewFile returns an empty File.
func NewFile() *File {
	return &File{byPath: make(map[string]*Module)}
}

// Add appends a module, enforcing path uniqueness.
func (f *File) Add(m *Module) error {
	if f.byPath == nil {
		f.byPath = make(map[string]*Module)
	}
	if prev, ok := f.byPath[m.Path]; ok {
		return errors.NewDuplicatePathError(m.Path, prev.Name, m.Name)
	}
	f.byPath[m.Path] = m
	f.Modules = append(f.Modules, m)
	return nil
}

// Lookup returns the module at the given path.
func (f *File) Lookup(path string) (*Module, bool) {
	m, ok := f.byPath[path]
	return m, ok
}

// Len returns the number of modules.
func (f *File) Len() int {
	return len(f.Modules)
}

// Sorted returns the modules ordered by path, ascending byte order. The
// underlying modules are shared, not copied.
func (f *File) Sorted() []*Module {
	out := make([]*Module, len(f.Modules))
	copy(out, f.Modules)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// setExtra records an unrecognized key with last-value-wins semantics,
// keeping the position of the first occurrence.
func (m *Module) setExtra(key, value string) {
	for i := range m.Extra {
		if m.Extra[i].Key == key {
			m.Extra[i].Value = value
			return
		}
	}
	m.Extra = append(m.Extra, KeyValue{Key: key, Value: value})
}
