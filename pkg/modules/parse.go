package modules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grammarforge/submodsync/pkg/errors"
)

// sectionType is the only section type the dialect recognizes.
const sectionType = "submodule"

// section accumulates one in-progress section during parsing.
type section struct {
	name string
	line int
	mod  *Module
	urls int
}

// Parse reads configuration text into a File.
//
// Repeated url keys within one section become an ordered list, duplicates
// included. Every other key is last-value-wins. Comments (# or ;) are
// discarded and will not survive a round trip through Encode; this is a
// documented, accepted loss.
//
// Parse fails on the first malformed or duplicate section: a configuration
// must be correct as a whole before any of it is used.
func Parse(r io.Reader) (*File, error) {
	f := NewFile()

	var cur *section
	flush := func() error {
		if cur == nil {
			return nil
		}
		if cur.mod.Path == "" {
			return errors.NewMalformedSectionError(cur.name, cur.line, "missing path")
		}
		if cur.urls == 0 {
			return errors.NewMalformedSectionError(cur.name, cur.line, "no url entries")
		}
		return f.Add(cur.mod)
	}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if err := flush(); err != nil {
				return nil, err
			}
			name, err := parseHeader(line, lineno)
			if err != nil {
				return nil, err
			}
			cur = &section{
				name: name,
				line: lineno,
				mod:  &Module{Name: name},
			}
			continue
		}

		key, value, err := parseKeyValue(line, lineno)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, errors.NewParseError("", lineno, fmt.Sprintf("key %q outside of any section", key))
		}

		switch key {
		case "path":
			cur.mod.Path = value
		case "branch":
			cur.mod.Branch = value
		case "url":
			cur.mod.URLs = append(cur.mod.URLs, value)
			cur.urls++
		default:
			cur.mod.setExtra(key, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return f, nil
}

// ParseFile reads and parses the configuration file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok && pe.File == "" {
			pe.File = path
		}
		return nil, err
	}
	return f, nil
}

// stripComment removes a trailing # or ; comment, respecting double quotes.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '\\':
			if inQuote {
				i++ // escaped character inside quotes
			}
		case '#', ';':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

// parseHeader parses a section header such as [submodule "grammars/rust"].
func parseHeader(line string, lineno int) (string, error) {
	if !strings.HasSuffix(line, "]") {
		return "", errors.NewParseError("", lineno, "unterminated section header")
	}
	inner := strings.TrimSpace(line[1 : len(line)-1])

	typ := inner
	rest := ""
	if i := strings.IndexAny(inner, " \t"); i >= 0 {
		typ, rest = inner[:i], strings.TrimSpace(inner[i+1:])
	}
	if typ != sectionType {
		return "", errors.NewMalformedSectionError(typ, lineno,
			fmt.Sprintf("unsupported section type %q", typ))
	}
	if rest == "" {
		return "", errors.NewParseError("", lineno, "section header missing subsection name")
	}
	if !strings.HasPrefix(rest, `"`) || !strings.HasSuffix(rest, `"`) || len(rest) < 2 {
		return "", errors.NewParseError("", lineno, "subsection name must be quoted")
	}

	return unescape(rest[1 : len(rest)-1]), nil
}

// parseKeyValue parses a key = value line. A key with no = yields an empty
// value, matching git's treatment of bare keys.
func parseKeyValue(line string, lineno int) (string, string, error) {
	key := line
	value := ""
	if i := strings.IndexByte(line, '='); i >= 0 {
		key = strings.TrimSpace(line[:i])
		value = strings.TrimSpace(line[i+1:])
	}

	key = strings.ToLower(key)
	if key == "" || !validKey(key) {
		return "", "", errors.NewParseError("", lineno, fmt.Sprintf("invalid key %q", key))
	}

	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = unescape(value[1 : len(value)-1])
	}
	return key, value, nil
}

// validKey reports whether key matches git's config key syntax: alphanumeric
// and dashes, starting with a letter.
func validKey(key string) bool {
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		case c == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// unescape resolves backslash escapes in quoted strings.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
