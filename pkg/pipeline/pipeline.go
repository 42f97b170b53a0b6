// Package pipeline defines the contracts between the stages of the
// observation-to-tree pipeline and the sequential runner that wires them.
//
// Each external collaborator (observation API, name resolution, induced
// subtree, rendering) sits behind a single-operation interface so it can be
// swapped for a fake in tests. Data flows strictly one way between stages;
// there are no feedback loops and no shared mutable state.
package pipeline

import (
	"context"

	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/mdahirel/inat-tree/pkg/phylotree"
)

// Query identifies whose observations to fetch. At least one of UserID and
// ProjectID must be non-empty.
type Query struct {
	// UserID is an iNaturalist user login.
	UserID string

	// ProjectID is an iNaturalist project slug or id.
	ProjectID string

	// IconicTaxon is a reserved filter. It is accepted but not forwarded
	// to the provider nor reflected in the output; an intentionally
	// unfinished extension point.
	IconicTaxon string
}

// ObservationFetcher retrieves the complete observation table visible to
// the provider for a query, honoring rate limits and the provider cap.
type ObservationFetcher interface {
	Fetch(ctx context.Context, q Query) (observation.Table, error)
}

// Match is one candidate returned by the name-resolution service for a
// submitted name.
type Match struct {
	// Name is the submitted (canonicalized) name string.
	Name string `json:"name"`

	// MatchedName is the name of the matched taxon in the backbone.
	MatchedName string `json:"matched_name"`

	// OTTID is the stable cross-referenced identifier of the match.
	OTTID int64 `json:"ott_id"`

	// Score is the match confidence in [0, 1].
	Score float64 `json:"score"`

	// InTree reports presence of the taxon in the synthesis tree.
	InTree bool `json:"in_tree"`

	// IsSynonym reports that the submitted name is a synonym of the
	// matched taxon.
	IsSynonym bool `json:"is_synonym,omitempty"`
}

// NameResolver resolves tagged names against a taxonomy backbone, returning
// zero or more candidate matches per name. Filtering by score and tree
// membership is the caller's policy, not the resolver's.
type NameResolver interface {
	Resolve(ctx context.Context, names []observation.TaggedName) ([]Match, error)
}

// SubtreeService extracts the induced subtree over a set of cross-referenced
// identifiers and returns it as a Newick string with named internal nodes.
type SubtreeService interface {
	InducedSubtree(ctx context.Context, ottIDs []int64) (string, error)
}

// Annotations carries presentation directives for the renderer.
type Annotations struct {
	// TipGroups maps tip labels to highlight-group names (here: iconic
	// taxa). Tips without a group use the neutral style.
	TipGroups map[string]string

	// Highlights lists internal-node labels whose clades get a shaded
	// sector and a label.
	Highlights []string
}

// TreeRenderer draws an annotated tree to a vector and a raster artifact.
// Output is deterministic given the same tree, annotations and fonts.
type TreeRenderer interface {
	Render(t *phylotree.Tree, ann Annotations, svgPath, pngPath string) error
}

// Resolution is the persisted report of one resolution stage: accepted
// matches plus the count discrepancy between input and output.
type Resolution struct {
	RunID    string  `json:"run_id,omitempty"`
	Input    int     `json:"input_names"`
	Matched  int     `json:"matched_names"`
	Accepted int     `json:"accepted_names"`
	Dropped  int     `json:"dropped_names"`
	Matches  []Match `json:"matches"`
}

// Filter keeps, per submitted name, the best-scoring match that passes the
// score threshold and is present in the synthesis tree. Names with no
// qualifying match are dropped; the loss surfaces only in the counts.
func Filter(matches []Match, minScore float64) []Match {
	best := make(map[string]Match)
	var order []string
	for _, m := range matches {
		if m.Score <= minScore || !m.InTree {
			continue
		}
		prev, ok := best[m.Name]
		if !ok {
			order = append(order, m.Name)
			best[m.Name] = m
			continue
		}
		if m.Score > prev.Score {
			best[m.Name] = m
		}
	}

	res := make([]Match, 0, len(order))
	for _, name := range order {
		res = append(res, best[name])
	}
	return res
}

// OTTIDs returns the deduplicated identifiers of the given matches,
// preserving order.
func OTTIDs(matches []Match) []int64 {
	seen := make(map[int64]struct{}, len(matches))
	res := make([]int64, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.OTTID]; ok {
			continue
		}
		seen[m.OTTID] = struct{}{}
		res = append(res, m.OTTID)
	}
	return res
}
