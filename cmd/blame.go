package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statice-dev/sarq/internal/blame"
	"github.com/statice-dev/sarq/internal/blamecache"
	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/internal/render"
)

// blameCmd enhances SARIF files with git blame information.
var blameCmd = &cobra.Command{
	Use:   "blame [file_or_dir ...]",
	Short: "Enhance SARIF files with git blame information.",
	Long: `Run git blame against the repository the issues were reported from
and attach the blamed commit to each issue's property bag. Blame output is
cached per repository revision, so repeated runs against an unchanged
checkout are cheap.

Each input file that gained blame information is written back out with a
"_with_blame" suffix, to the output directory when one is given with
--output-file. Files without any blame matches are skipped.

Examples:
  # Annotate a scan of the current repository
  sarq blame devskim.sarif

  # Annotate scans of another checkout into a separate directory
  sarq blame build/ --repo ~/src/backend --output-file annotated/

  # Annotate without the blame cache
  sarq blame devskim.sarif --cache-backend none`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fileSet, err := loadInputFiles(cfg)
		if err != nil {
			contract.LogFatal("Cannot load SARIF files", err)
		}

		mgr, err := blamecache.NewBlameStoreManager(cfg.CacheBackend, cfg.CacheDBConnect)
		if err != nil {
			contract.LogFatal("Cannot open blame cache", err)
		}
		defer func() { _ = mgr.Close() }()

		enricher := blame.NewEnricher(contract.NewLocalGitClient(), mgr.GetBlameStore())
		enriched, total, err := enricher.EnhanceWithBlame(rootCtx, fileSet, cfg.RepoPath)
		if err != nil {
			contract.LogFatal("Cannot run git blame", err)
		}
		fmt.Printf("Found blame information for %d of %d results\n", enriched, total)

		written, err := render.WriteBlameOutputs(fileSet, cfg)
		if err != nil {
			contract.LogFatal("Cannot write enhanced SARIF file", err)
		}
		for _, outputFile := range written {
			fmt.Printf("Wrote %s with git blame information\n", outputFile)
		}
	},
}
