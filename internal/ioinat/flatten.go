package ioinat

import (
	"github.com/mdahirel/inat-tree/pkg/observation"
)

// observationsPage is one API response unit. It is transient: consumed
// immediately into records, never retained.
//
// The fields mirror the documented payload shape of the observation-search
// endpoint; flattening goes through this schema only, never through ad hoc
// dynamic field access.
type observationsPage struct {
	TotalResults int                 `json:"total_results"`
	Page         int                 `json:"page"`
	PerPage      int                 `json:"per_page"`
	Results      []observationResult `json:"results"`
}

type observationResult struct {
	Taxon *taxonPayload `json:"taxon"`
}

type taxonPayload struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	IconicTaxonName string `json:"iconic_taxon_name"`
	IconicTaxonID   int    `json:"iconic_taxon_id"`
}

// flatten maps a page payload to flat observation records, preserving the
// provider's per-page ordering. Results without an identified taxon are
// skipped; duplicates are kept.
func flatten(pg *observationsPage) observation.Table {
	res := make(observation.Table, 0, len(pg.Results))
	for _, r := range pg.Results {
		if r.Taxon == nil || r.Taxon.Name == "" {
			continue
		}
		res = append(res, observation.NewRecord(
			r.Taxon.Name,
			r.Taxon.ID,
			r.Taxon.IconicTaxonName,
			r.Taxon.IconicTaxonID,
		))
	}
	return res
}
