package reconcile

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/grammarforge/submodsync/pkg/errors"
	"github.com/grammarforge/submodsync/pkg/logging"
	"github.com/grammarforge/submodsync/pkg/modules"
)

// maxWorkers caps the reconciliation pool regardless of core count.
const maxWorkers = 8

// Remotes is the live remote-state collaborator. A real implementation talks
// to the version-control system for the working copy at path; tests use an
// in-memory fake.
type Remotes interface {
	// List returns the remotes currently configured for the sub-project at
	// path, as a name -> url mapping.
	List(ctx context.Context, path string) (map[string]string, error)

	// SetURL points the named remote at url, creating the remote if it does
	// not exist yet.
	SetURL(ctx context.Context, path, name, url string) error
}

// Operation is one applied (or planned) remote change.
type Operation struct {
	Path     string `json:"path" yaml:"path"`
	Remote   string `json:"remote" yaml:"remote"`
	URL      string `json:"url" yaml:"url"`
	Previous string `json:"previous,omitempty" yaml:"previous,omitempty"` // empty when the remote is new
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithWorkers sets the worker pool size. Values below 1 keep the default.
func WithWorkers(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithDryRun makes Reconcile compute plans without applying them.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) { r.dryRun = dryRun }
}

// WithLogger sets the logger used for per-entry progress.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// Reconciler computes and applies remote binding changes.
type Reconciler struct {
	remotes Remotes
	workers int
	dryRun  bool
	logger  *zerolog.Logger
}

// New creates a Reconciler over the given live-state collaborator.
func New(remotes Remotes, opts ...Option) *Reconciler {
	r := &Reconciler{
		remotes: remotes,
		workers: defaultWorkers(),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxWorkers {
		n = maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Plan lists the module's live remotes and returns the operations needed to
// reach the desired bindings. Bindings that already match produce no
// operation; remotes outside the role rule are never part of a plan.
func (r *Reconciler) Plan(ctx context.Context, m *modules.Module) ([]Operation, int, error) {
	live, err := r.remotes.List(ctx, m.Path)
	if err != nil {
		return nil, 0, errors.NewApplyError(m.Path, "", "", err)
	}

	var ops []Operation
	inSync := 0
	for _, b := range DesiredBindings(m) {
		current, ok := live[b.Name]
		if ok && current == b.URL {
			inSync++
			continue
		}
		ops = append(ops, Operation{
			Path:     m.Path,
			Remote:   b.Name,
			URL:      b.URL,
			Previous: current,
		})
	}
	return ops, inSync, nil
}

// Reconcile processes every module in the file through a bounded worker pool.
// A failure on one module never blocks the others; failures are collected in
// the Result. Cancelling the context stops issuing further modules but does
// not roll back operations already applied.
func (r *Reconciler) Reconcile(ctx context.Context, f *modules.File) *Result {
	result := &Result{DryRun: r.dryRun}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for _, m := range f.Sorted() {
		if ctx.Err() != nil {
			break
		}
		m := m
		g.Go(func() error {
			entry := r.reconcileModule(ctx, m)
			mu.Lock()
			result.Entries = append(result.Entries, entry)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers report through the result, never through the group

	result.Canceled = ctx.Err() != nil
	result.sort()
	return result
}

// reconcileModule plans and applies one module's bindings. Role assignment
// within a module is index-dependent and stays sequential.
func (r *Reconciler) reconcileModule(ctx context.Context, m *modules.Module) EntryResult {
	entry := EntryResult{Path: m.Path}

	ops, inSync, err := r.Plan(ctx, m)
	if err != nil {
		r.logger.Error().Err(err).Str("path", m.Path).Msg("failed to read live remotes")
		entry.Err = err
		return entry
	}
	entry.InSync = inSync

	for _, op := range ops {
		if r.dryRun {
			entry.Planned = append(entry.Planned, op)
			continue
		}
		if err := r.remotes.SetURL(ctx, op.Path, op.Remote, op.URL); err != nil {
			r.logger.Error().
				Err(err).
				Str("path", op.Path).
				Str("remote", op.Remote).
				Msg("failed to set remote url")
			entry.Err = errors.NewApplyError(op.Path, op.Remote, op.URL, err)
			return entry
		}
		r.logger.Debug().
			Str("path", op.Path).
			Str("remote", op.Remote).
			Str("url", op.URL).
			Msg("remote updated")
		entry.Applied = append(entry.Applied, op)
	}
	return entry
}
