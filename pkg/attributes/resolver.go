package attributes

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-collabnet/pkg/collab"
	"github.com/dd0wney/cluso-collabnet/pkg/encounter"
)

// ErrMisaligned indicates the attribute table could not be reconciled
// with the graph node order. Fatal: positional misalignment silently
// corrupts every downstream visual encoding.
var ErrMisaligned = errors.New("attribute table misaligned with graph nodes")

// Row is the attribute record of one provider, aligned positionally with
// the graph's node order.
type Row struct {
	NPI            string         `json:"npi"`
	HRR            string         `json:"provider_hrr"`
	Specialty      string         `json:"provider_specialty"`
	SpecialtyGroup SpecialtyGroup `json:"specialty_group"`
	PCType         PCType         `json:"pc_type"`
	PatientVolume  int            `json:"patient_volume"`
	Strength       int            `json:"strength"`
}

// Table holds one Row per graph node, in graph node order. Downstream
// consumers index rows positionally, so the table is never reordered
// after construction.
type Table struct {
	Rows  []Row
	index map[string]int
}

// NewTable wraps pre-built rows, indexing them by npi. Used when
// restoring a serialized table; row order is preserved as given.
func NewTable(rows []Row) *Table {
	t := &Table{
		Rows:  rows,
		index: make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		if _, ok := t.index[row.NPI]; !ok {
			t.index[row.NPI] = i
		}
	}
	return t
}

// Lookup returns the row for npi and whether it exists.
func (t *Table) Lookup(npi string) (Row, bool) {
	i, ok := t.index[npi]
	if !ok {
		return Row{}, false
	}
	return t.Rows[i], true
}

// Regions returns the distinct non-empty region values in row order.
func (t *Table) Regions() []string {
	seen := make(map[string]bool)
	regions := make([]string, 0)
	for _, row := range t.Rows {
		if row.HRR != "" && !seen[row.HRR] {
			seen[row.HRR] = true
			regions = append(regions, row.HRR)
		}
	}
	return regions
}

// Verify checks the alignment invariant against a graph: one row per
// node, same id at every position.
func (t *Table) Verify(g *collab.Graph) error {
	nodes := g.Nodes()
	if len(t.Rows) != len(nodes) {
		return fmt.Errorf("%w: %d rows for %d nodes", ErrMisaligned, len(t.Rows), len(nodes))
	}
	for i, row := range t.Rows {
		if row.NPI != nodes[i] {
			return fmt.Errorf("%w: row %d has npi %s, node is %s", ErrMisaligned, i, row.NPI, nodes[i])
		}
	}
	return nil
}

// providerInfo is the raw per-provider data pulled from the record set
// before classification.
type providerInfo struct {
	hrr          string
	specialty    string
	pcSpecialist bool
}

// Resolve builds the attribute table for every node of g, in g's node
// order. Provider-level fields come from the first record mentioning each
// npi (duplicate rows resolved keep-first, deterministically); patient
// volume counts distinct patients over the full record set; strength is
// the node's weighted degree in g. A provider present in the graph but
// absent from the records gets explicit fallback values rather than being
// dropped. The returned table always satisfies Verify(g).
func Resolve(records []encounter.Record, g *collab.Graph) (*Table, error) {
	if err := CheckDisjoint(); err != nil {
		return nil, fmt.Errorf("specialty rule table: %w", err)
	}

	info := make(map[string]providerInfo)
	for _, rec := range records {
		if _, ok := info[rec.NPI]; ok {
			continue // keep first
		}
		info[rec.NPI] = providerInfo{
			hrr:          rec.ProviderHRR,
			specialty:    NormalizeSpecialty(rec.Specialty),
			pcSpecialist: rec.PCSpecialist,
		}
	}

	volumes := encounter.PatientVolumes(records)

	nodes := g.Nodes()
	table := &Table{
		Rows:  make([]Row, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for _, npi := range nodes {
		pi, known := info[npi]
		if !known {
			// Node with no upstream attribute data: explicit fallback,
			// never a dropped node or a short table.
			pi = providerInfo{specialty: UnknownSpecialty}
		}
		row := Row{
			NPI:            npi,
			HRR:            pi.hrr,
			Specialty:      pi.specialty,
			SpecialtyGroup: ClassifySpecialty(pi.specialty),
			PCType:         ClassifyPC(pi.pcSpecialist, pi.specialty),
			PatientVolume:  volumes[npi],
			Strength:       g.Strength(npi),
		}
		table.index[npi] = len(table.Rows)
		table.Rows = append(table.Rows, row)
	}

	if err := table.Verify(g); err != nil {
		return nil, err
	}
	return table, nil
}
