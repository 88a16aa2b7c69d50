package encounter

// Pair is one deduplicated patient-provider incidence edge.
type Pair struct {
	PatientID string
	NPI       string
}

// BuildIncidence projects records to (patient, provider) pairs and
// deduplicates them. Repeat encounters between the same patient and
// provider collapse to a single pair; sharing strength downstream comes
// only from counting distinct shared patients. The returned order is the
// first-seen order of each pair, so the pair *set* is the same regardless
// of how the input rows are arranged.
func BuildIncidence(records []Record) []Pair {
	seen := make(map[Pair]bool, len(records))
	pairs := make([]Pair, 0, len(records))
	for _, rec := range records {
		p := Pair{PatientID: rec.PatientID, NPI: rec.NPI}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	return pairs
}

// ProviderUniverse returns the distinct provider ids of the record set in
// first-seen order. The projector uses this to decide which side of the
// bipartite graph is the provider side.
func ProviderUniverse(records []Record) []string {
	seen := make(map[string]bool, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if !seen[rec.NPI] {
			seen[rec.NPI] = true
			ids = append(ids, rec.NPI)
		}
	}
	return ids
}

// PatientVolumes counts the distinct patients of each provider over the
// full record set, not just the projected graph.
func PatientVolumes(records []Record) map[string]int {
	patients := make(map[string]map[string]bool)
	for _, rec := range records {
		set, ok := patients[rec.NPI]
		if !ok {
			set = make(map[string]bool)
			patients[rec.NPI] = set
		}
		set[rec.PatientID] = true
	}
	volumes := make(map[string]int, len(patients))
	for npi, set := range patients {
		volumes[npi] = len(set)
	}
	return volumes
}
