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
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/internal/ioinat"
	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getFetchCmd() *cobra.Command {
	var (
		userID      string
		projectID   string
		iconicTaxon string
		strict      bool
		noProgress  bool
	)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch observations into observations.csv",
		Long: `Download the observations of an iNaturalist user or project and save
them as observations.csv in the output directory.

At least one of --user-id or --project-id must be set; the command
refuses to run without an identifying filter. Pages are requested at a
deliberately low rate, and a single failed page is dropped rather than
aborting the whole fetch (use --strict to abort instead).

Examples:
  # All observations of one user
  inattree fetch -u some_user

  # Observations of a project, into a chosen directory
  inattree fetch -p city-nature-challenge -o ./cnc

  # Abort on the first failed page request
  inattree fetch -u some_user --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetch(userID, projectID, iconicTaxon, strict, noProgress)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fetchCmd.Flags().StringVarP(
		&userID, "user-id", "u", "",
		"iNaturalist user login or numeric ID",
	)
	fetchCmd.Flags().StringVarP(
		&projectID, "project-id", "p", "",
		"iNaturalist project slug or numeric ID",
	)
	fetchCmd.Flags().StringVar(
		&iconicTaxon, "iconic-taxon", "",
		"reserved for future server-side filtering (currently unused)",
	)
	fetchCmd.Flags().BoolVar(
		&strict, "strict", false,
		"abort on the first failed page request",
	)
	fetchCmd.Flags().BoolVar(
		&noProgress, "no-progress", false,
		"disable the progress bar",
	)

	return fetchCmd
}

func runFetch(
	userID, projectID, iconicTaxon string,
	strict, noProgress bool,
) error {
	ctx := context.Background()

	cfg.Update([]config.Option{
		config.OptFetchStrict(strict),
		config.OptFetchProgress(!noProgress),
	})

	fetcher := ioinat.New(cfg)
	table, err := fetcher.Fetch(ctx, pipeline.Query{
		UserID:      userID,
		ProjectID:   projectID,
		IconicTaxon: iconicTaxon,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.OutputDir, pipeline.ObservationsFile)
	f, err := os.Create(path)
	if err != nil {
		return pipeline.WriteArtifactError(path, err)
	}
	defer f.Close()

	if err = table.WriteCSV(f); err != nil {
		return pipeline.WriteArtifactError(path, err)
	}

	gn.Info("Saved <em>%s</em> observation records to <em>%s</em>",
		humanize.Comma(int64(len(table))), path)
	gn.Info("Next step: run '<em>inattree resolve</em>'")

	return nil
}
