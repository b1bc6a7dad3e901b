package modules_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarforge/submodsync/pkg/errors"
	"github.com/grammarforge/submodsync/pkg/modules"
)

func parse(t *testing.T, text string) *modules.File {
	t.Helper()
	f, err := modules.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return f
}

func TestParseBasic(t *testing.T) {
	f := parse(t, `
[submodule "rust"]
	branch = master
	path = grammars/rust
	url = git@github.com:tree-sitter/tree-sitter-rust.git

[submodule "zig"]
	path = grammars/zig
	url = git@github.com:maxxnino/tree-sitter-zig.git
`)

	require.Equal(t, 2, f.Len())

	rust, ok := f.Lookup("grammars/rust")
	require.True(t, ok)
	assert.Equal(t, "rust", rust.Name)
	assert.Equal(t, "master", rust.Branch)
	assert.Equal(t, []string{"git@github.com:tree-sitter/tree-sitter-rust.git"}, rust.URLs)

	zig, ok := f.Lookup("grammars/zig")
	require.True(t, ok)
	assert.Empty(t, zig.Branch)

	// file order preserved
	assert.Equal(t, "grammars/rust", f.Modules[0].Path)
	assert.Equal(t, "grammars/zig", f.Modules[1].Path)
}

func TestParseRepeatedURLs(t *testing.T) {
	f := parse(t, `
[submodule "go"]
	path = grammars/go
	url = git@github.com:tree-sitter/tree-sitter-go.git
	url = git@github.com:mirror-one/tree-sitter-go.git
	url = git@github.com:tree-sitter/tree-sitter-go.git
	url = git@github.com:grammarforge/tree-sitter-go.git
`)

	m, ok := f.Lookup("grammars/go")
	require.True(t, ok)

	// order preserved, identical duplicates included
	assert.Equal(t, []string{
		"git@github.com:tree-sitter/tree-sitter-go.git",
		"git@github.com:mirror-one/tree-sitter-go.git",
		"git@github.com:tree-sitter/tree-sitter-go.git",
		"git@github.com:grammarforge/tree-sitter-go.git",
	}, m.URLs)
}

func TestParseComments(t *testing.T) {
	f := parse(t, `
# top comment
; another style
[submodule "c"] # trailing on header
	path = grammars/c ; trailing on value
	url = "git@github.com:tree-sitter/tree-sitter-c.git" # quoted value keeps going
	extra = "has # inside quotes"
`)

	m, ok := f.Lookup("grammars/c")
	require.True(t, ok)
	assert.Equal(t, []string{"git@github.com:tree-sitter/tree-sitter-c.git"}, m.URLs)
	require.Len(t, m.Extra, 1)
	assert.Equal(t, "has # inside quotes", m.Extra[0].Value)
}

func TestParseQuotedValues(t *testing.T) {
	f := parse(t, `
[submodule "odd name \"quoted\""]
	path = "grammars/odd name"
	url = "file:///tmp/with space/repo.git"
`)

	m, ok := f.Lookup("grammars/odd name")
	require.True(t, ok)
	assert.Equal(t, `odd name "quoted"`, m.Name)
	assert.Equal(t, []string{"file:///tmp/with space/repo.git"}, m.URLs)
}

func TestParseLastValueWins(t *testing.T) {
	f := parse(t, `
[submodule "ml"]
	branch = main
	branch = stable
	path = grammars/ml
	shallow = false
	url = git@github.com:forge/tree-sitter-ml.git
	shallow = true
`)

	m, ok := f.Lookup("grammars/ml")
	require.True(t, ok)
	assert.Equal(t, "stable", m.Branch)

	// unknown keys survive opaquely with last value winning
	require.Len(t, m.Extra, 1)
	assert.Equal(t, modules.KeyValue{Key: "shallow", Value: "true"}, m.Extra[0])
}

func TestParseKeyCaseInsensitive(t *testing.T) {
	f := parse(t, `
[submodule "hs"]
	Path = grammars/haskell
	URL = git@github.com:tree-sitter/tree-sitter-haskell.git
`)

	_, ok := f.Lookup("grammars/haskell")
	assert.True(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, err error)
	}{
		{
			name: "missing_path",
			text: "[submodule \"a\"]\n\turl = git@github.com:x/a.git\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsMalformedSection(err))
				assert.Contains(t, err.Error(), "missing path")
			},
		},
		{
			name: "zero_urls",
			text: "[submodule \"a\"]\n\tpath = grammars/a\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsMalformedSection(err))
				assert.Contains(t, err.Error(), "no url entries")
			},
		},
		{
			name: "duplicate_path",
			text: "[submodule \"a\"]\n\tpath = grammars/foo\n\turl = u1\n" +
				"[submodule \"b\"]\n\tpath = grammars/foo\n\turl = u2\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsDuplicatePath(err))
				var dup *errors.DuplicatePathError
				require.True(t, errors.As(err, &dup))
				assert.Equal(t, "grammars/foo", dup.Path)
				assert.Equal(t, [2]string{"a", "b"}, dup.Sections)
			},
		},
		{
			name: "key_outside_section",
			text: "path = grammars/a\n",
			check: func(t *testing.T, err error) {
				var pe *errors.ParseError
				assert.True(t, errors.As(err, &pe))
			},
		},
		{
			name: "unsupported_section_type",
			text: "[core]\n\tbare = false\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsMalformedSection(err))
			},
		},
		{
			name: "unterminated_header",
			text: "[submodule \"a\"\n\tpath = grammars/a\n",
			check: func(t *testing.T, err error) {
				var pe *errors.ParseError
				assert.True(t, errors.As(err, &pe))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := modules.Parse(strings.NewReader(tt.text))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	f := parse(t, "")
	assert.Equal(t, 0, f.Len())

	f = parse(t, "# only comments\n\n; and blanks\n")
	assert.Equal(t, 0, f.Len())
}
