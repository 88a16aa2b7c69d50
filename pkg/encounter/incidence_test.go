package encounter

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func rec(patient, npi string) Record {
	return Record{PatientID: patient, NPI: npi}
}

func TestBuildIncidenceDeduplicates(t *testing.T) {
	records := []Record{
		rec("P1", "A"),
		rec("P1", "A"), // repeat visit
		rec("P2", "A"),
		rec("P1", "B"),
		rec("P1", "A"), // another repeat
	}

	pairs := BuildIncidence(records)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 unique pairs, got %d", len(pairs))
	}

	seen := make(map[Pair]bool)
	for _, p := range pairs {
		if seen[p] {
			t.Errorf("duplicate pair %v in output", p)
		}
		seen[p] = true
	}
}

func TestBuildIncidenceEmptyInput(t *testing.T) {
	if pairs := BuildIncidence(nil); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
}

func TestProviderUniverseFirstSeenOrder(t *testing.T) {
	records := []Record{rec("P1", "B"), rec("P2", "A"), rec("P3", "B")}
	universe := ProviderUniverse(records)
	if len(universe) != 2 || universe[0] != "B" || universe[1] != "A" {
		t.Errorf("expected [B A], got %v", universe)
	}
}

func TestPatientVolumesCountDistinctPatients(t *testing.T) {
	records := []Record{
		rec("P1", "A"),
		rec("P1", "A"),
		rec("P2", "A"),
		rec("P2", "B"),
	}
	volumes := PatientVolumes(records)
	if volumes["A"] != 2 {
		t.Errorf("volume(A): expected 2, got %d", volumes["A"])
	}
	if volumes["B"] != 1 {
		t.Errorf("volume(B): expected 1, got %d", volumes["B"])
	}
}

// TestIncidenceProperties verifies the incidence invariants over random
// record multisets: no duplicate pairs, and the pair set is independent of
// row order and row duplication.
func TestIncidenceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// Small id domains so collisions (duplicates) are frequent.
	genRecords := gen.SliceOf(gen.Struct(
		reflect.TypeOf(Record{}),
		map[string]gopter.Gen{
			"PatientID": gen.OneConstOf("P1", "P2", "P3", "P4"),
			"NPI":       gen.OneConstOf("A", "B", "C"),
		},
	))

	properties.Property("no duplicate pairs", prop.ForAll(
		func(records []Record) bool {
			pairs := BuildIncidence(records)
			seen := make(map[Pair]bool)
			for _, p := range pairs {
				if seen[p] {
					return false
				}
				seen[p] = true
			}
			return true
		},
		genRecords,
	))

	properties.Property("pair set independent of row order", prop.ForAll(
		func(records []Record, seed int64) bool {
			base := pairSet(BuildIncidence(records))

			shuffled := make([]Record, len(records))
			copy(shuffled, records)
			r := rand.New(rand.NewSource(seed))
			r.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			other := pairSet(BuildIncidence(shuffled))
			if len(base) != len(other) {
				return false
			}
			for p := range base {
				if !other[p] {
					return false
				}
			}
			return true
		},
		genRecords,
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func pairSet(pairs []Pair) map[Pair]bool {
	set := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		set[p] = true
	}
	return set
}
