/*
Copyright © 2026 Maxime Dahirel

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/internal/iodraw"
	"github.com/mdahirel/inat-tree/internal/iofs"
	"github.com/mdahirel/inat-tree/internal/ioinat"
	"github.com/mdahirel/inat-tree/internal/iootol"
	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
	"github.com/spf13/cobra"
)

// getRunCmd returns the run command.
func getRunCmd() *cobra.Command {
	var (
		userID      string
		projectID   string
		iconicTaxon string
		strict      bool
		noProgress  bool
		highlights  []string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline: fetch, resolve, tree, draw",
		Long: `Execute all pipeline stages in sequence and write every artifact
(observations.csv, resolution.json, tree.nwk, tree.svg, tree.png) into
the output directory.

Stage-internal losses (failed pages, unresolved names, pruned
identifiers) degrade the result without failing the run; only the total
failure of a stage aborts it.

Examples:
  # Tree of life of one user, in the current directory
  inattree run -u some_user

  # Project tree with shaded clades, in a chosen directory
  inattree run -p city-nature-challenge -o ./cnc --highlight Insecta`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRun(
				userID, projectID, iconicTaxon,
				strict, noProgress, highlights,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	runCmd.Flags().StringVarP(
		&userID, "user-id", "u", "",
		"iNaturalist user login or numeric ID",
	)
	runCmd.Flags().StringVarP(
		&projectID, "project-id", "p", "",
		"iNaturalist project slug or numeric ID",
	)
	runCmd.Flags().StringVar(
		&iconicTaxon, "iconic-taxon", "",
		"reserved for future server-side filtering (currently unused)",
	)
	runCmd.Flags().BoolVar(
		&strict, "strict", false,
		"abort on the first failed page request",
	)
	runCmd.Flags().BoolVar(
		&noProgress, "no-progress", false,
		"disable the progress bar",
	)
	runCmd.Flags().StringArrayVar(
		&highlights, "highlight", nil,
		"internal-node label whose clade gets shaded (repeatable)",
	)

	return runCmd
}

func runRun(
	userID, projectID, iconicTaxon string,
	strict, noProgress bool,
	highlights []string,
) error {
	ctx := context.Background()

	cfg.Update([]config.Option{
		config.OptFetchStrict(strict),
		config.OptFetchProgress(!noProgress),
	})

	contexts, err := iofs.LoadContexts(cfg.HomeDir)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(
		cfg,
		contexts,
		ioinat.New(cfg),
		iootol.NewResolver(cfg),
		iootol.NewSubtree(cfg),
		iodraw.NewRenderer(cfg),
	)
	runner.Highlights = highlights

	rep, err := runner.Run(ctx, pipeline.Query{
		UserID:      userID,
		ProjectID:   projectID,
		IconicTaxon: iconicTaxon,
	})
	if err != nil {
		return err
	}

	gn.Info(`Run <em>%s</em> complete:
  observations: <em>%d</em>
  distinct names: <em>%d</em>
  accepted matches: <em>%d</em>
  tree tips: <em>%d</em>`,
		rep.RunID, rep.Observations, rep.Names, rep.Accepted, rep.Tips)
	for _, a := range rep.Artifacts {
		gn.Info("  artifact: <em>%s</em>", a)
	}

	return nil
}
