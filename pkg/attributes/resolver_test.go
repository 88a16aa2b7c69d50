package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-collabnet/pkg/collab"
	"github.com/dd0wney/cluso-collabnet/pkg/encounter"
)

func testRecords() []encounter.Record {
	return []encounter.Record{
		{PatientID: "P1", NPI: "A", ProviderHRR: "Boston", Specialty: "Internal Medicine"},
		{PatientID: "P2", NPI: "A", ProviderHRR: "Boston", Specialty: "Internal Medicine"},
		{PatientID: "P2", NPI: "B", ProviderHRR: "Boston", Specialty: "Hospice and Palliative Care", PCSpecialist: true},
		{PatientID: "P3", NPI: "C", ProviderHRR: "Worcester", Specialty: "Dermatology"},
	}
}

func testGraph() *collab.Graph {
	g := collab.NewGraph()
	g.AddNode("A")
	g.AddNode("B")
	g.AddNode("C")
	g.SetEdge("A", "B", 1)
	return g
}

func TestResolveAlignment(t *testing.T) {
	g := testGraph()
	table, err := Resolve(testRecords(), g)
	require.NoError(t, err)
	require.NoError(t, table.Verify(g))

	nodes := g.Nodes()
	require.Len(t, table.Rows, len(nodes))
	for i, row := range table.Rows {
		assert.Equal(t, nodes[i], row.NPI, "row %d out of order", i)
	}
}

func TestResolveFields(t *testing.T) {
	g := testGraph()
	table, err := Resolve(testRecords(), g)
	require.NoError(t, err)

	a, ok := table.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "Boston", a.HRR)
	assert.Equal(t, GroupPCP, a.SpecialtyGroup)
	assert.Equal(t, PCNone, a.PCType)
	assert.Equal(t, 2, a.PatientVolume) // P1, P2 over the full record set
	assert.Equal(t, 1, a.Strength)

	b, ok := table.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, GroupFormalPC, b.SpecialtyGroup)
	assert.Equal(t, PCFormal, b.PCType)
	assert.Equal(t, 1, b.PatientVolume)
	assert.Equal(t, 1, b.Strength)

	c, ok := table.Lookup("C")
	require.True(t, ok)
	assert.Equal(t, GroupOthers, c.SpecialtyGroup)
	assert.Equal(t, 0, c.Strength)
}

func TestResolveKeepsFirstDuplicateRow(t *testing.T) {
	records := []encounter.Record{
		{PatientID: "P1", NPI: "A", ProviderHRR: "Boston", Specialty: "Internal Medicine"},
		{PatientID: "P2", NPI: "A", ProviderHRR: "Elsewhere", Specialty: "General Surgery"},
	}
	g := collab.NewGraph()
	g.AddNode("A")

	table, err := Resolve(records, g)
	require.NoError(t, err)

	a, _ := table.Lookup("A")
	assert.Equal(t, "Boston", a.HRR)
	assert.Equal(t, GroupPCP, a.SpecialtyGroup)
}

func TestResolveNodeMissingFromRecords(t *testing.T) {
	g := testGraph()
	g.AddNode("GHOST")

	table, err := Resolve(testRecords(), g)
	require.NoError(t, err)
	require.NoError(t, table.Verify(g))

	ghost, ok := table.Lookup("GHOST")
	require.True(t, ok, "node missing from records must still get a row")
	assert.Equal(t, UnknownSpecialty, ghost.Specialty)
	assert.Equal(t, GroupOthers, ghost.SpecialtyGroup)
	assert.Equal(t, PCNone, ghost.PCType)
	assert.Zero(t, ghost.PatientVolume)
	assert.Empty(t, ghost.HRR)

	// Fallback rows still map to complete visual tokens.
	assert.NotEmpty(t, ColorToken(ghost.SpecialtyGroup))
	assert.NotEmpty(t, ShapeToken(ghost.PCType))
}

func TestResolveEmptyGraph(t *testing.T) {
	table, err := Resolve(testRecords(), collab.NewGraph())
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestVerifyDetectsMisalignment(t *testing.T) {
	g := testGraph()
	table, err := Resolve(testRecords(), g)
	require.NoError(t, err)

	// A graph with one extra node no longer matches the table.
	g2 := testGraph()
	g2.AddNode("D")
	err = table.Verify(g2)
	assert.ErrorIs(t, err, ErrMisaligned)

	// Same length but wrong order must also be caught.
	g3 := collab.NewGraph()
	g3.AddNode("B")
	g3.AddNode("A")
	g3.AddNode("C")
	err = table.Verify(g3)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestRegions(t *testing.T) {
	g := testGraph()
	table, err := Resolve(testRecords(), g)
	require.NoError(t, err)

	regions := table.Regions()
	assert.Equal(t, []string{"Boston", "Worcester"}, regions)
}

// Re-running resolution over unchanged input must produce identical rows.
func TestResolveIdempotent(t *testing.T) {
	g := testGraph()
	first, err := Resolve(testRecords(), g)
	require.NoError(t, err)
	second, err := Resolve(testRecords(), g)
	require.NoError(t, err)
	assert.Equal(t, first.Rows, second.Rows)
}
