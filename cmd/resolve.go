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

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/mdahirel/inat-tree/internal/iofs"
	"github.com/mdahirel/inat-tree/internal/iootol"
	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
	"github.com/spf13/cobra"
)

// getResolveCmd returns the resolve command.
func getResolveCmd() *cobra.Command {
	var input string

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Match observed taxon names against the Open Tree taxonomy",
		Long: `Read observations.csv, tag each distinct taxon name with its taxonomic
context, and match the names against the Open Tree taxonomy (TNRS).

Matches below the configured score threshold, and matches absent from
the synthesis tree, are dropped. The accepted matches are saved as
resolution.json in the output directory.

Examples:
  # Resolve names from the default observations.csv
  inattree resolve

  # Resolve a specific observation table
  inattree resolve -i ./cnc/observations.csv -o ./cnc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runResolve(input)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	resolveCmd.Flags().StringVarP(
		&input, "input", "i", "",
		"observation table (default: observations.csv in the output dir)",
	)

	return resolveCmd
}

func runResolve(input string) error {
	ctx := context.Background()

	if input == "" {
		input = filepath.Join(cfg.OutputDir, pipeline.ObservationsFile)
	}
	f, err := os.Open(input)
	if err != nil {
		return iofs.ReadFileError(input, err)
	}
	defer f.Close()

	table, err := observation.ReadCSV(f)
	if err != nil {
		return iofs.ReadFileError(input, err)
	}

	contexts, err := iofs.LoadContexts(cfg.HomeDir)
	if err != nil {
		return err
	}

	tagged := contexts.TagNames(table)
	if len(tagged) == 0 {
		return pipeline.NoNamesError()
	}

	matches, err := iootol.NewResolver(cfg).Resolve(ctx, tagged)
	if err != nil {
		return err
	}
	accepted := pipeline.Filter(matches, cfg.Resolve.MinScore)
	if len(accepted) == 0 {
		return pipeline.NoAcceptedMatchesError(len(tagged))
	}

	res := pipeline.Resolution{
		Input:    len(tagged),
		Matched:  len(matches),
		Accepted: len(accepted),
		Dropped:  len(tagged) - len(accepted),
		Matches:  accepted,
	}
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(res)
	if err != nil {
		return pipeline.WriteArtifactError(pipeline.ResolutionFile, err)
	}

	path := filepath.Join(cfg.OutputDir, pipeline.ResolutionFile)
	if err = os.WriteFile(path, data, 0644); err != nil {
		return pipeline.WriteArtifactError(path, err)
	}

	gn.Info("Accepted <em>%d</em> of <em>%d</em> names, saved to <em>%s</em>",
		len(accepted), len(tagged), path)
	gn.Info("Next step: run '<em>inattree tree</em>'")

	return nil
}
