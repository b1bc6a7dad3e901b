package gitrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRemotes(t *testing.T) {
	output := []byte(`origin	git@github.com:forge/tree-sitter-x.git (fetch)
origin	git@github.com:forge/tree-sitter-x.git (push)
upstream	https://github.com/tree-sitter/tree-sitter-x (fetch)
upstream	https://github.com/tree-sitter/tree-sitter-x (push)
mirrorco	git@github.com:mirrorco/tree-sitter-x.git (fetch)
`)

	remotes := parseRemotes(output)

	assert.Equal(t, map[string]string{
		"origin":   "git@github.com:forge/tree-sitter-x.git",
		"upstream": "https://github.com/tree-sitter/tree-sitter-x",
		"mirrorco": "git@github.com:mirrorco/tree-sitter-x.git",
	}, remotes)
}

func TestParseRemotesEmpty(t *testing.T) {
	assert.Empty(t, parseRemotes(nil))
	assert.Empty(t, parseRemotes([]byte("\n")))
}

func TestStoreDefaults(t *testing.T) {
	s := New("/repos/grammars")
	assert.Equal(t, "/repos/grammars", s.Root)
	assert.Equal(t, "git", s.git())

	s.Git = "/opt/git/bin/git"
	assert.Equal(t, "/opt/git/bin/git", s.git())
}
