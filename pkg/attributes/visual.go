package attributes

// Visual token lookup for the rendering collaborator. Both maps are
// total over their enums with an explicit fallback, so no provider is
// ever silently dropped from a figure.

// Shape tokens derived from PC provision.
const (
	ShapeCircle = "circle"
	ShapeSquare = "square"
)

var groupColors = map[SpecialtyGroup]string{
	GroupPCP:         "#1b9e77",
	GroupMedOnc:      "#d95f02",
	GroupSurgeon:     "#7570b3",
	GroupRadOnc:      "#e7298a",
	GroupHospitalist: "#66a61e",
	GroupFormalPC:    "#e6ab02",
	GroupOthers:      "#999999",
}

// ColorToken returns the fill color for a specialty group. Unrecognized
// values fall back to the Others color.
func ColorToken(group SpecialtyGroup) string {
	if c, ok := groupColors[group]; ok {
		return c
	}
	return groupColors[GroupOthers]
}

// ShapeToken returns the node shape for a PC provision category:
// PC-providing categories share one shape class, Non-PC the other.
// Unrecognized values fall back to the Non-PC shape.
func ShapeToken(pc PCType) string {
	switch pc {
	case PCFormal, PCNonSpecialist:
		return ShapeSquare
	case PCNone:
		return ShapeCircle
	default:
		return ShapeCircle
	}
}

// PCFrame reports whether the node gets the PC highlight ring.
func PCFrame(pc PCType) bool {
	return pc == PCFormal || pc == PCNonSpecialist
}
