package observation

// DefaultContext is the broadest TNRS taxonomic context. It is used for
// iconic taxa with no mapping of their own.
const DefaultContext = "All life"

// ContextMap maps an iconic taxon tag to the TNRS taxonomic context used
// to disambiguate identically-spelled names across unrelated lineages.
// The table is static domain knowledge, not derived data.
type ContextMap map[string]string

// DefaultContexts returns the built-in iconic-taxon → TNRS context table.
// The keys follow iNaturalist's iconic taxon names; the values are context
// names recognized by the Open Tree TNRS.
func DefaultContexts() ContextMap {
	return ContextMap{
		"Animalia":       "Animals",
		"Aves":           "Birds",
		"Amphibia":       "Amphibians",
		"Reptilia":       "Tetrapods",
		"Mammalia":       "Mammals",
		"Actinopterygii": "Vertebrates",
		"Mollusca":       "Molluscs",
		"Arachnida":      "Arachnids",
		"Insecta":        "Insects",
		"Plantae":        "Land plants",
		"Fungi":          "Fungi",
	}
}

// ContextFor returns the TNRS context for an iconic taxon tag.
// Unknown or unmapped tags get DefaultContext.
func (m ContextMap) ContextFor(iconic string) string {
	if ctx, ok := m[iconic]; ok && ctx != "" {
		return ctx
	}
	return DefaultContext
}

// TaggedName pairs a taxon name with the TNRS context derived from its
// observation's iconic taxon.
type TaggedName struct {
	Name    string
	Context string
}

// TagNames maps a table of observations to distinct (name, context) pairs,
// preserving first-appearance order. Repeated sightings of the same taxon
// collapse to a single tagged name.
func (m ContextMap) TagNames(t Table) []TaggedName {
	seen := make(map[string]struct{}, len(t))
	res := make([]TaggedName, 0, len(t))
	for _, r := range t {
		if _, ok := seen[r.TaxonName]; ok {
			continue
		}
		seen[r.TaxonName] = struct{}{}
		res = append(res, TaggedName{
			Name:    r.TaxonName,
			Context: m.ContextFor(r.IconicTaxon),
		})
	}
	return res
}
