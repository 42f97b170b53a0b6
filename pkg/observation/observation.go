// Package observation defines the flat record produced by the iNaturalist
// retriever and the static mapping from iconic taxa to TNRS taxonomic
// contexts.
package observation

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/gnames/gnuuid"
)

// UnknownIconicTaxon is the tag used when the provider supplies no iconic
// taxon for an observation.
const UnknownIconicTaxon = "unknown"

// Record is one citizen-science sighting flattened to its taxon fields.
// Duplicates across records are expected; the table is not deduplicated
// at fetch time.
type Record struct {
	// NameID is a stable UUID v5 derived from TaxonName.
	NameID string

	// TaxonName is the scientific name of the identified taxon.
	TaxonName string

	// TaxonID is the provider's opaque taxon identifier.
	TaxonID int

	// IconicTaxon is the provider's coarse classification tag,
	// UnknownIconicTaxon when absent.
	IconicTaxon string

	// IconicTaxonID is the provider's identifier for the tag.
	IconicTaxonID int
}

// NewRecord builds a Record, filling NameID from the taxon name and
// normalizing an absent iconic taxon to UnknownIconicTaxon.
func NewRecord(name string, id int, iconic string, iconicID int) Record {
	if iconic == "" {
		iconic = UnknownIconicTaxon
	}
	return Record{
		NameID:        gnuuid.New(name).String(),
		TaxonName:     name,
		TaxonID:       id,
		IconicTaxon:   iconic,
		IconicTaxonID: iconicID,
	}
}

// Table is the aggregate observation table, one row per observation,
// in the order the provider returned them (most recent first).
type Table []Record

var csvHeader = []string{
	"name_id", "taxon_name", "taxon_id", "iconic_taxon", "iconic_taxon_id",
}

// WriteCSV writes the table with a header row.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range t {
		row := []string{
			r.NameID,
			r.TaxonName,
			strconv.Itoa(r.TaxonID),
			r.IconicTaxon,
			strconv.Itoa(r.IconicTaxonID),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table previously written by WriteCSV.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return Table{}, nil
	}

	var res Table
	for _, row := range rows[1:] {
		if len(row) < 5 {
			continue
		}
		taxonID, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, err
		}
		iconicID, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, err
		}
		res = append(res, Record{
			NameID:        row[0],
			TaxonName:     row[1],
			TaxonID:       taxonID,
			IconicTaxon:   row[3],
			IconicTaxonID: iconicID,
		})
	}
	return res, nil
}
