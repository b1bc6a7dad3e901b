package modules

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/grammarforge/submodsync/pkg/errors"
)

// Encode writes the canonical form of the configuration:
//
//   - sections ordered by path, ascending byte order
//   - within a section, keys ordered lexicographically, except url
//   - url lines always last, in their original relative order
//
// Encoding a parsed file and parsing it back yields a structurally equal
// model, and encoding is a fixed point: canonical text encodes to itself.
func Encode(w io.Writer, f *File) error {
	for i, m := range f.Sorted() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := encodeModule(w, m); err != nil {
			return err
		}
	}
	return nil
}

// String returns the canonical form as a string.
func String(f *File) string {
	var b strings.Builder
	_ = Encode(&b, f) // strings.Builder writes cannot fail
	return b.String()
}

// WriteFile atomically replaces the file at path with the canonical form.
func WriteFile(path string, f *File) error {
	if err := renameio.WriteFile(path, []byte(String(f)), 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func encodeModule(w io.Writer, m *Module) error {
	if _, err := fmt.Fprintf(w, "[submodule \"%s\"]\n", escape(m.Name)); err != nil {
		return err
	}

	pairs := make([]KeyValue, 0, 2+len(m.Extra))
	if m.Branch != "" {
		pairs = append(pairs, KeyValue{Key: "branch", Value: m.Branch})
	}
	if m.Path != "" {
		pairs = append(pairs, KeyValue{Key: "path", Value: m.Path})
	}
	pairs = append(pairs, m.Extra...)
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })

	for _, kv := range pairs {
		if err := writePair(w, kv.Key, kv.Value); err != nil {
			return err
		}
	}
	// url lines come last; their relative order is semantic and kept as-is.
	for _, u := range m.URLs {
		if err := writePair(w, "url", u); err != nil {
			return err
		}
	}
	return nil
}

func writePair(w io.Writer, key, value string) error {
	_, err := fmt.Fprintf(w, "\t%s = %s\n", key, quote(value))
	return err
}

// quote wraps a value in double quotes when the raw form would not survive a
// reparse: empty values, surrounding whitespace, or comment and quote
// characters anywhere in the value.
func quote(v string) string {
	if v == "" {
		return `""`
	}
	if v != strings.TrimSpace(v) || strings.ContainsAny(v, "\"\\#;\n\t") {
		return `"` + escape(v) + `"`
	}
	return v
}

// escape backslash-escapes characters that are special inside quotes.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
