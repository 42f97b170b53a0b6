package iodraw

import (
	"image/color"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/phylotree"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
)

// plotMargin leaves room outside the unit circle for tip labels.
const plotMargin = 0.35

var sectorFill = color.NRGBA{R: 127, G: 188, B: 165, A: 70}

type renderer struct {
	cfg *config.Config
}

// NewRenderer creates a TreeRenderer drawing circular cladograms with
// gonum/plot.
func NewRenderer(cfg *config.Config) pipeline.TreeRenderer {
	return &renderer{cfg: cfg}
}

// Render lays the tree out once and saves the SVG and PNG artifacts.
// Each output gets its own plot build, so the two encoders never share
// mutable state.
func (r *renderer) Render(
	t *phylotree.Tree,
	ann pipeline.Annotations,
	svgPath, pngPath string,
) error {
	lay, err := newLayout(t)
	if err != nil {
		return LayoutError(err)
	}

	size := vg.Length(r.cfg.Draw.WidthCm) * vg.Centimeter

	var g errgroup.Group
	for _, path := range []string{svgPath, pngPath} {
		g.Go(func() error {
			p, err := buildPlot(lay, ann)
			if err != nil {
				return LayoutError(err)
			}
			if err := p.Save(size, size, path); err != nil {
				return RenderError(path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func buildPlot(lay *layout, ann pipeline.Annotations) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()

	// shaded sectors go in first so branches draw on top of them
	if hp := newSectors(lay, ann.Highlights); hp != nil {
		p.Add(hp)
	}
	p.Add(&treePlot{lay: lay, style: plotter.DefaultLineStyle})

	lbs, err := tipLabels(lay, ann.TipGroups)
	if err != nil {
		return nil, err
	}
	p.Add(lbs)
	return p, nil
}

// treePlot draws the branches of a circular cladogram: an arc along the
// parent's radius spanning the angle between parent and child, then a
// radial segment out to the child.
type treePlot struct {
	lay   *layout
	style draw.LineStyle
}

// DataRange implements the plot.DataRanger interface. The layout lives on
// the unit disk, so the range is fixed.
func (tp *treePlot) DataRange() (xMin, xMax, yMin, yMax float64) {
	m := 1 + plotMargin
	return -m, m, -m, m
}

// Plot implements the plot.Plotter interface.
func (tp *treePlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	center := vg.Point{X: trX(0), Y: trY(0)}
	scale := func(r float64) vg.Length {
		return trX(r) - trX(0)
	}

	c.SetLineStyle(tp.style)
	tp.drawBranches(c, tp.lay.tree.Root(), center, scale)
}

func (tp *treePlot) drawBranches(
	c draw.Canvas,
	n *phylotree.Node,
	center vg.Point,
	scale func(float64) vg.Length,
) {
	pa := tp.lay.angle[n]
	pr := scale(tp.lay.radius[n])

	for _, child := range n.Children {
		ca := tp.lay.angle[child]
		cr := scale(tp.lay.radius[child])

		var p vg.Path
		p.Move(polar(center, pr, pa))
		if sweep := ca - pa; sweep != 0 {
			p.Arc(center, pr, pa, sweep)
		}
		p.Line(polar(center, cr, ca))
		c.Stroke(p)

		tp.drawBranches(c, child, center, scale)
	}
}

func polar(center vg.Point, radius vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + radius*vg.Length(math.Cos(angle)),
		Y: center.Y + radius*vg.Length(math.Sin(angle)),
	}
}

// sectorPlot shades the angular sector of each highlighted clade, from the
// clade's root radius out to the tip circle.
type sectorPlot struct {
	lay     *layout
	sectors []sector
}

type sector struct {
	a0, a1 float64
	r0     float64
}

// newSectors resolves highlight labels to sectors. Labels absent from the
// tree are skipped with a warning; nil comes back when nothing remains.
func newSectors(lay *layout, highlights []string) *sectorPlot {
	var secs []sector
	for _, label := range highlights {
		i, ok := lay.tree.NodeIndex(label)
		if !ok {
			slog.Warn("highlight label not in tree, skipping",
				"label", label)
			continue
		}
		n := lay.tree.NodeAt(i)
		a0, a1 := lay.span(n)
		secs = append(secs, sector{a0: a0, a1: a1, r0: lay.radius[n]})
	}
	if len(secs) == 0 {
		return nil
	}
	return &sectorPlot{lay: lay, sectors: secs}
}

// Plot implements the plot.Plotter interface.
func (sp *sectorPlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	center := vg.Point{X: trX(0), Y: trY(0)}
	scale := func(r float64) vg.Length {
		return trX(r) - trX(0)
	}

	for _, s := range sp.sectors {
		c.FillPolygon(sectorFill, sectorPoints(center, s, scale))
	}
}

// sectorPoints approximates a sector outline with short arc chords.
func sectorPoints(
	center vg.Point,
	s sector,
	scale func(float64) vg.Length,
) []vg.Point {
	steps := int(math.Ceil((s.a1 - s.a0) / 0.05))
	if steps < 1 {
		steps = 1
	}
	inner := scale(s.r0)
	outer := scale(1)

	pts := make([]vg.Point, 0, 2*steps+2)
	for i := 0; i <= steps; i++ {
		a := s.a0 + (s.a1-s.a0)*float64(i)/float64(steps)
		pts = append(pts, polar(center, outer, a))
	}
	for i := steps; i >= 0; i-- {
		a := s.a0 + (s.a1-s.a0)*float64(i)/float64(steps)
		pts = append(pts, polar(center, inner, a))
	}
	return pts
}

// tipLabels builds radiating tip labels, colored by highlight group. The
// group palette follows the sorted group names, so colors are stable
// across runs.
func tipLabels(
	lay *layout,
	groups map[string]string,
) (*plotter.Labels, error) {
	t := lay.tree
	labelRadius := 1.03

	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, t.TipCount()),
		Labels: make([]string, t.TipCount()),
	}
	for i := 0; i < t.TipCount(); i++ {
		n := t.NodeAt(i)
		a := lay.angle[n]
		xyl.XYs[i] = plotter.XY{
			X: labelRadius * math.Cos(a),
			Y: labelRadius * math.Sin(a),
		}
		xyl.Labels[i] = n.Label
	}

	lbs, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, err
	}

	palette := groupPalette(groups)
	for i := 0; i < t.TipCount(); i++ {
		n := t.NodeAt(i)
		a := lay.angle[n]

		st := &lbs.TextStyle[i]
		st.YAlign = text.YCenter
		if g, ok := groups[n.Label]; ok {
			st.Color = palette[g]
		}
		// labels on the left half flip to stay upright
		if math.Cos(a) < 0 {
			st.Rotation = a + math.Pi
			st.XAlign = text.XRight
		} else {
			st.Rotation = a
			st.XAlign = text.XLeft
		}
	}
	return lbs, nil
}

func groupPalette(groups map[string]string) map[string]color.Color {
	names := make([]string, 0, len(groups))
	seen := make(map[string]bool)
	for _, g := range groups {
		if !seen[g] {
			seen[g] = true
			names = append(names, g)
		}
	}
	sort.Strings(names)

	res := make(map[string]color.Color, len(names))
	for i, g := range names {
		res[g] = plotutil.Color(i)
	}
	return res
}
