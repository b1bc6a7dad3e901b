package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grammarforge/submodsync/internal/gitrepo"
	"github.com/grammarforge/submodsync/pkg/logging"
	"github.com/grammarforge/submodsync/pkg/modules"
	"github.com/grammarforge/submodsync/pkg/reconcile"
)

var (
	updateDryRun   bool
	updateRepoRoot string
)

// updateCmd represents the update command.
var updateCmd = &cobra.Command{
	Use:   "update [file]",
	Short: "Reconcile sub-project remotes with the configuration",
	Long: `Derive the named remotes each sub-project should have from its url
list and apply the minimal set of changes to the working copies. The first
url becomes upstream, the last becomes origin; a single url is bound as
origin only. Remotes added by hand are left untouched.

Sub-projects are processed independently: a failure on one is collected and
reported at the end while the others still run.

Examples:
  submodsync update                  # reconcile using .gitmodules
  submodsync update --dry-run        # show what would change
  submodsync update --workers 4      # bound the worker pool`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVarP(&updateDryRun, "dry-run", "n", false, "compute changes without applying them")
	updateCmd.Flags().StringVar(&updateRepoRoot, "repo-root", ".", "parent repository root that sub-project paths resolve under")
	updateCmd.Flags().Int("workers", 0, "worker pool size (0 = number of cores, capped)")

	if err := viper.BindPFlag("workers", updateCmd.Flags().Lookup("workers")); err != nil {
		panic(fmt.Sprintf("Failed to bind workers flag: %v", err))
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	f, err := modules.ParseFile(configArg(args))
	if err != nil {
		return err
	}

	store := gitrepo.New(updateRepoRoot)
	rec := reconcile.New(store,
		reconcile.WithWorkers(viper.GetInt("workers")),
		reconcile.WithDryRun(updateDryRun),
		reconcile.WithLogger(logging.Default()),
	)

	result := rec.Reconcile(cmd.Context(), f)
	reportResult(cmd.OutOrStdout(), result)
	return result.Err()
}

// reportResult writes a human-readable per-sub-project summary.
func reportResult(w io.Writer, result *reconcile.Result) {
	verb := "updated"
	if result.DryRun {
		verb = "would update"
	}

	for _, entry := range result.Entries {
		if entry.Failed() {
			fmt.Fprintf(w, "%s: FAILED: %v\n", entry.Path, entry.Err)
			continue
		}
		ops := entry.Applied
		if result.DryRun {
			ops = entry.Planned
		}
		if len(ops) == 0 {
			fmt.Fprintf(w, "%s: up to date (%d remote(s))\n", entry.Path, entry.InSync)
			continue
		}
		fmt.Fprintf(w, "%s: %s %d remote(s)\n", entry.Path, verb, len(ops))
		for _, op := range ops {
			if op.Previous == "" {
				fmt.Fprintf(w, "  + %s -> %s\n", op.Remote, op.URL)
			} else {
				fmt.Fprintf(w, "  ~ %s -> %s (was %s)\n", op.Remote, op.URL, op.Previous)
			}
		}
	}

	if result.Canceled {
		fmt.Fprintln(w, "run interrupted; remaining sub-projects were skipped")
	}
}
