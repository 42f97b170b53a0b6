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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/mdahirel/inat-tree/internal/iodraw"
	"github.com/mdahirel/inat-tree/internal/iofs"
	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/mdahirel/inat-tree/pkg/phylotree"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
	"github.com/spf13/cobra"
)

// getDrawCmd returns the draw command.
func getDrawCmd() *cobra.Command {
	var (
		input      string
		highlights []string
	)

	drawCmd := &cobra.Command{
		Use:   "draw",
		Short: "Render tree.nwk as circular SVG and PNG images",
		Long: `Read tree.nwk and render it as a circular cladogram, saved as tree.svg
and tree.png in the output directory. Rendering is deterministic: the
same tree and annotations always produce the same images.

When observations.csv and resolution.json are present in the output
directory, tip labels are colored by iconic taxon. Internal-node labels
given with --highlight get their clade shaded.

Examples:
  # Draw the default tree.nwk
  inattree draw

  # Shade two named clades
  inattree draw --highlight Insecta --highlight Fagaceae`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDraw(input, highlights)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	drawCmd.Flags().StringVarP(
		&input, "input", "i", "",
		"Newick tree (default: tree.nwk in the output dir)",
	)
	drawCmd.Flags().StringArrayVar(
		&highlights, "highlight", nil,
		"internal-node label whose clade gets shaded (repeatable)",
	)

	return drawCmd
}

func runDraw(input string, highlights []string) error {
	if input == "" {
		input = filepath.Join(cfg.OutputDir, pipeline.TreeFile)
	}
	f, err := os.Open(input)
	if err != nil {
		return iofs.ReadFileError(input, err)
	}
	defer f.Close()

	tree, err := phylotree.Read(f)
	if err != nil {
		return pipeline.ParseTreeError(err)
	}

	ann := pipeline.Annotations{
		TipGroups:  loadTipGroups(),
		Highlights: highlights,
	}

	svgPath := filepath.Join(cfg.OutputDir, pipeline.SVGFile)
	pngPath := filepath.Join(cfg.OutputDir, pipeline.PNGFile)
	renderer := iodraw.NewRenderer(cfg)
	if err = renderer.Render(tree, ann, svgPath, pngPath); err != nil {
		return err
	}

	gn.Info("Tree images saved to <em>%s</em> and <em>%s</em>",
		svgPath, pngPath)

	return nil
}

// loadTipGroups rebuilds the tip coloring from the fetch and resolve
// artifacts when both are present. A missing artifact only disables tip
// colors, it never fails the drawing.
func loadTipGroups() map[string]string {
	obsPath := filepath.Join(cfg.OutputDir, pipeline.ObservationsFile)
	resPath := filepath.Join(cfg.OutputDir, pipeline.ResolutionFile)

	f, err := os.Open(obsPath)
	if err != nil {
		slog.Warn("no observation table, drawing without tip colors",
			"path", obsPath)
		return nil
	}
	defer f.Close()

	table, err := observation.ReadCSV(f)
	if err != nil {
		slog.Warn("cannot read observation table, skipping tip colors",
			"path", obsPath, "error", err)
		return nil
	}

	data, err := os.ReadFile(resPath)
	if err != nil {
		slog.Warn("no resolution report, drawing without tip colors",
			"path", resPath)
		return nil
	}
	var res pipeline.Resolution
	enc := gnfmt.GNjson{}
	if err = enc.Decode(data, &res); err != nil {
		slog.Warn("cannot read resolution report, skipping tip colors",
			"path", resPath, "error", err)
		return nil
	}

	return pipeline.TipGroups(table, res.Matches)
}
