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
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/mdahirel/inat-tree/internal/iofs"
	"github.com/mdahirel/inat-tree/internal/iootol"
	"github.com/mdahirel/inat-tree/pkg/phylotree"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
	"github.com/spf13/cobra"
)

// getTreeCmd returns the tree command.
func getTreeCmd() *cobra.Command {
	var input string

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Extract the induced subtree over the accepted matches",
		Long: `Read resolution.json and ask the Open Tree synthesis tree for the
induced subtree connecting the accepted matches. The subtree is saved
verbatim as tree.nwk in the output directory, before any parsing, so
named unary internal nodes survive exactly as the service wrote them.

Identifiers the service no longer knows are pruned and the request
retried once.

Examples:
  # Extract the subtree for the default resolution.json
  inattree tree

  # Work inside a chosen directory
  inattree tree -o ./cnc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runTree(input)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	treeCmd.Flags().StringVarP(
		&input, "input", "i", "",
		"resolution report (default: resolution.json in the output dir)",
	)

	return treeCmd
}

func runTree(input string) error {
	ctx := context.Background()

	if input == "" {
		input = filepath.Join(cfg.OutputDir, pipeline.ResolutionFile)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return iofs.ReadFileError(input, err)
	}

	var res pipeline.Resolution
	enc := gnfmt.GNjson{}
	if err = enc.Decode(data, &res); err != nil {
		return iofs.ReadFileError(input, err)
	}

	nwk, err := iootol.NewSubtree(cfg).InducedSubtree(
		ctx, pipeline.OTTIDs(res.Matches),
	)
	if err != nil {
		return err
	}

	// persist first: the file is the source of truth for later stages
	path := filepath.Join(cfg.OutputDir, pipeline.TreeFile)
	if err = os.WriteFile(path, []byte(nwk), 0644); err != nil {
		return pipeline.WriteArtifactError(path, err)
	}

	tree, err := phylotree.Read(strings.NewReader(nwk))
	if err != nil {
		return pipeline.ParseTreeError(err)
	}

	gn.Info("Saved a subtree with <em>%d</em> tips to <em>%s</em>",
		tree.TipCount(), path)
	gn.Info("Next step: run '<em>inattree draw</em>'")

	return nil
}
