package iootol

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
)

type resolver struct {
	cfg    *config.Config
	client *http.Client
	parser gnparser.GNparser
}

// NewResolver creates a NameResolver backed by the Open Tree TNRS.
// Submitted names are canonicalized with gnparser first; strings that do
// not parse as scientific names never reach the service.
func NewResolver(cfg *config.Config) pipeline.NameResolver {
	pCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Zoological))
	res := resolver{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Resolve.TimeoutSec) * time.Second,
		},
		parser: gnparser.New(pCfg),
	}
	return &res
}

// tnrsResponse models the match_names payload, limited to the fields the
// pipeline consumes.
type tnrsResponse struct {
	Results []struct {
		Name    string `json:"name"`
		Matches []struct {
			Score     float64 `json:"score"`
			IsSynonym bool    `json:"is_synonym"`
			Taxon     struct {
				OTTID int64  `json:"ott_id"`
				Name  string `json:"name"`
			} `json:"taxon"`
		} `json:"matches"`
	} `json:"results"`
	UnmatchedNames []string `json:"unmatched_names"`
}

// Resolve matches tagged names against the taxonomy backbone. Names are
// grouped by taxonomic context and batched; failed batches degrade the
// output and only the failure of every batch is an error. Each candidate
// carries its score and its synthesis-tree membership.
func (r *resolver) Resolve(
	ctx context.Context,
	names []observation.TaggedName,
) ([]pipeline.Match, error) {
	if len(names) == 0 {
		return nil, pipeline.NoNamesError()
	}

	// canonical form -> submitted observation name, first one wins
	submitted := make(map[string]string, len(names))
	byContext := make(map[string][]string)
	var dropped int
	for _, n := range names {
		p := r.parser.ParseName(n.Name)
		if !p.Parsed || p.Canonical == nil {
			dropped++
			slog.Debug("name does not parse, dropping",
				"name", n.Name)
			continue
		}
		canonical := p.Canonical.Simple
		if _, ok := submitted[canonical]; ok {
			continue
		}
		submitted[canonical] = n.Name
		byContext[n.Context] = append(byContext[n.Context], canonical)
	}
	if dropped > 0 {
		slog.Warn("unparseable names dropped before resolution",
			"count", dropped)
	}
	if len(submitted) == 0 {
		return nil, pipeline.NoNamesError()
	}

	var matches []pipeline.Match
	var batches, failed int
	for context_, batch := range byContext {
		for start := 0; start < len(batch); start += r.cfg.Resolve.BatchSize {
			end := start + r.cfg.Resolve.BatchSize
			if end > len(batch) {
				end = len(batch)
			}
			batches++

			ms, err := r.matchNames(ctx, batch[start:end], context_)
			if err != nil {
				if ctx.Err() != nil {
					return nil, MatchNamesError(ctx.Err())
				}
				failed++
				slog.Warn("match_names batch failed, dropping batch",
					"context", context_, "names", end-start,
					"error", err)
				continue
			}
			matches = append(matches, ms...)
		}
	}
	if failed == batches {
		return nil, MatchNamesError(
			errors.New("all match_names batches failed"))
	}

	// candidate matches inherit the original observation name
	for i, m := range matches {
		if orig, ok := submitted[m.Name]; ok {
			matches[i].Name = orig
		}
	}

	r.checkMembership(ctx, matches)

	slog.Info("names matched",
		"submitted", len(submitted),
		"candidates", len(matches),
		"dropped_unparseable", dropped)
	return matches, nil
}

// matchNames issues one TNRS match_names call for a batch of canonical
// names in one taxonomic context.
func (r *resolver) matchNames(
	ctx context.Context,
	names []string,
	taxContext string,
) ([]pipeline.Match, error) {
	payload := map[string]any{
		"names": names,
	}
	if taxContext != "" && taxContext != observation.DefaultContext {
		payload["context_name"] = taxContext
	}

	var resp tnrsResponse
	url := r.cfg.Resolve.APIURL + "/v3/tnrs/match_names"
	if err := postJSON(ctx, r.client, url, payload, &resp); err != nil {
		return nil, err
	}

	var res []pipeline.Match
	for _, nr := range resp.Results {
		for _, m := range nr.Matches {
			res = append(res, pipeline.Match{
				Name:        nr.Name,
				MatchedName: m.Taxon.Name,
				OTTID:       m.Taxon.OTTID,
				Score:       m.Score,
				IsSynonym:   m.IsSynonym,
			})
		}
	}
	return res, nil
}

// checkMembership fills the InTree flag for every distinct OTT id among
// the matches. A node_info miss (HTTP 400) means the taxon is known to the
// taxonomy but absent from the synthesis tree; other failures log and
// leave the flag false.
func (r *resolver) checkMembership(
	ctx context.Context,
	matches []pipeline.Match,
) {
	inTree := make(map[int64]bool)
	url := r.cfg.Resolve.APIURL + "/v3/tree_of_life/node_info"

	for _, m := range matches {
		if _, ok := inTree[m.OTTID]; ok {
			continue
		}
		payload := map[string]any{"ott_id": m.OTTID}
		err := postJSON(ctx, r.client, url, payload, nil)
		if err == nil {
			inTree[m.OTTID] = true
			continue
		}
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusBadRequest {
			inTree[m.OTTID] = false
			continue
		}
		slog.Warn("node_info check failed, assuming absent",
			"ott_id", m.OTTID, "error", err)
		inTree[m.OTTID] = false
	}

	for i := range matches {
		matches[i].InTree = inTree[matches[i].OTTID]
	}
}
