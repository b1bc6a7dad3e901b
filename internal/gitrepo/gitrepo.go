// Package gitrepo implements the reconcile.Remotes collaborator against
// working copies on disk by shelling out to the git binary. Each sub-project
// path resolves to its own repository beneath the parent root, so calls for
// different paths touch independent resources.
package gitrepo

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/grammarforge/submodsync/pkg/errors"
)

// Store runs git commands inside sub-project working copies.
type Store struct {
	// Root is the parent repository root; sub-project paths resolve
	// beneath it.
	Root string

	// Git is the git executable to invoke. Empty means "git" from PATH.
	Git string
}

// New creates a Store rooted at the given directory.
func New(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) git() string {
	if s.Git != "" {
		return s.Git
	}
	return "git"
}

func (s *Store) run(ctx context.Context, path string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.git(), args...)
	cmd.Dir = filepath.Join(s.Root, filepath.Clean(path))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, errors.NewProcessError("git "+args[0],
			s.git()+" "+strings.Join(args, " "),
			strings.TrimSpace(string(output)), err)
	}
	return output, nil
}

// List returns the remotes configured for the sub-project at path, parsed
// from git remote -v.
func (s *Store) List(ctx context.Context, path string) (map[string]string, error) {
	output, err := s.run(ctx, path, "remote", "-v")
	if err != nil {
		return nil, err
	}
	return parseRemotes(output), nil
}

// SetURL points the named remote at url, adding the remote when git reports
// it does not exist.
func (s *Store) SetURL(ctx context.Context, path, name, url string) error {
	_, err := s.run(ctx, path, "remote", "set-url", name, url)
	if err == nil {
		return nil
	}

	var procErr *errors.ProcessError
	if !errors.As(err, &procErr) || !strings.Contains(procErr.Output, "No such remote") {
		return err
	}

	_, err = s.run(ctx, path, "remote", "add", name, url)
	return err
}

// parseRemotes extracts a name -> fetch-url mapping from git remote -v
// output. Push urls are ignored; the fetch line is authoritative.
func parseRemotes(output []byte) map[string]string {
	remotes := make(map[string]string)
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, "(push)") {
			continue
		}
		line = strings.TrimSuffix(line, "(fetch)")
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		remotes[fields[0]] = fields[1]
	}
	return remotes
}
