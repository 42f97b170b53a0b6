package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/mdahirel/inat-tree/pkg/phylotree"
)

// Artifact file names inside the output directory.
const (
	ObservationsFile = "observations.csv"
	ResolutionFile   = "resolution.json"
	TreeFile         = "tree.nwk"
	SVGFile          = "tree.svg"
	PNGFile          = "tree.png"
)

// Runner executes the whole pipeline, strictly sequentially:
// fetch → context tagging → resolution → induced subtree → persist →
// annotate → render. Artifacts are written into cfg.OutputDir.
type Runner struct {
	cfg      *config.Config
	contexts observation.ContextMap
	fetcher  ObservationFetcher
	resolver NameResolver
	subtree  SubtreeService
	renderer TreeRenderer

	// Highlights lists internal-node labels to shade in the rendering.
	Highlights []string
}

// NewRunner wires the pipeline stages together.
func NewRunner(
	cfg *config.Config,
	contexts observation.ContextMap,
	fetcher ObservationFetcher,
	resolver NameResolver,
	subtree SubtreeService,
	renderer TreeRenderer,
) *Runner {
	return &Runner{
		cfg:      cfg,
		contexts: contexts,
		fetcher:  fetcher,
		resolver: resolver,
		subtree:  subtree,
		renderer: renderer,
	}
}

// Report summarizes one pipeline run.
type Report struct {
	RunID        string
	Observations int
	Names        int
	Accepted     int
	Tips         int
	Artifacts    []string
}

// Run executes the pipeline for a query and returns the run report.
// Stage-internal losses (failed pages, unresolved names) degrade the output
// without failing the run; only the total failure of a stage is an error.
func (r *Runner) Run(ctx context.Context, q Query) (*Report, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := slog.With("run_id", runID)
	log.Info("starting run", "user_id", q.UserID, "project_id", q.ProjectID)

	rep := &Report{RunID: runID}

	// Stage 1: observations.
	table, err := r.fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	rep.Observations = len(table)
	log.Info("observations fetched",
		"records", humanize.Comma(int64(len(table))))
	if err := r.writeArtifact(rep, ObservationsFile, func(f *os.File) error {
		return table.WriteCSV(f)
	}); err != nil {
		return nil, err
	}

	// Stage 2: context tagging + resolution.
	tagged := r.contexts.TagNames(table)
	rep.Names = len(tagged)
	if len(tagged) == 0 {
		return nil, NoNamesError()
	}

	matches, err := r.resolver.Resolve(ctx, tagged)
	if err != nil {
		return nil, err
	}
	accepted := Filter(matches, r.cfg.Resolve.MinScore)
	rep.Accepted = len(accepted)
	if len(accepted) == 0 {
		return nil, NoAcceptedMatchesError(len(tagged))
	}
	log.Info("names resolved",
		"input", len(tagged),
		"matched", len(matches),
		"accepted", len(accepted),
		"dropped", len(tagged)-len(accepted))

	res := Resolution{
		RunID:    runID,
		Input:    len(tagged),
		Matched:  len(matches),
		Accepted: len(accepted),
		Dropped:  len(tagged) - len(accepted),
		Matches:  accepted,
	}
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(res)
	if err != nil {
		return nil, WriteArtifactError(ResolutionFile, err)
	}
	if err := r.writeArtifact(rep, ResolutionFile, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	}); err != nil {
		return nil, err
	}

	// Stage 3: induced subtree, persisted as Newick before any parsing so
	// unary internal nodes and their labels survive for downstream lookups.
	nwk, err := r.subtree.InducedSubtree(ctx, OTTIDs(accepted))
	if err != nil {
		return nil, err
	}
	if err := r.writeArtifact(rep, TreeFile, func(f *os.File) error {
		_, err := f.Write([]byte(nwk))
		return err
	}); err != nil {
		return nil, err
	}

	tree, err := phylotree.Read(strings.NewReader(nwk))
	if err != nil {
		return nil, ParseTreeError(err)
	}
	rep.Tips = tree.TipCount()
	log.Info("induced subtree extracted",
		"tips", tree.TipCount(),
		"internal_labels", len(tree.InternalLabels()))

	// Stage 4: rendering.
	ann := Annotations{
		TipGroups:  TipGroups(table, accepted),
		Highlights: r.Highlights,
	}
	svgPath := filepath.Join(r.cfg.OutputDir, SVGFile)
	pngPath := filepath.Join(r.cfg.OutputDir, PNGFile)
	if err := r.renderer.Render(tree, ann, svgPath, pngPath); err != nil {
		return nil, err
	}
	rep.Artifacts = append(rep.Artifacts, svgPath, pngPath)

	log.Info("run complete",
		"tips", rep.Tips,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()))
	return rep, nil
}

// writeArtifact creates a file in the output directory and records it in
// the report.
func (r *Runner) writeArtifact(
	rep *Report,
	name string,
	write func(*os.File) error,
) error {
	path := filepath.Join(r.cfg.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return WriteArtifactError(path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return WriteArtifactError(path, err)
	}
	rep.Artifacts = append(rep.Artifacts, path)
	return nil
}

// TipGroups maps tip labels (as the subtree service writes them) to iconic
// taxa. Both the submitted and the matched name spellings are included,
// with spaces and with underscores, because the Newick labels may use
// either form.
func TipGroups(table observation.Table, accepted []Match) map[string]string {
	iconic := make(map[string]string, len(table))
	for _, rec := range table {
		if _, ok := iconic[rec.TaxonName]; !ok {
			iconic[rec.TaxonName] = rec.IconicTaxon
		}
	}

	res := make(map[string]string, len(accepted)*2)
	put := func(label, group string) {
		if label == "" || group == "" {
			return
		}
		res[label] = group
		res[strings.ReplaceAll(label, " ", "_")] = group
	}
	for _, m := range accepted {
		group := iconic[m.Name]
		put(m.Name, group)
		put(m.MatchedName, group)
	}
	return res
}
