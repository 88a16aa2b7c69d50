// Package attributes derives per-provider attributes (specialty group,
// palliative-care provision, patient volume, node strength) and aligns
// them to the node order of the collaboration graph.
package attributes

import (
	"fmt"
	"strings"
)

// SpecialtyGroup is the closed set of specialty classifications.
type SpecialtyGroup string

const (
	GroupPCP         SpecialtyGroup = "PCP"
	GroupMedOnc      SpecialtyGroup = "Medical Oncologist"
	GroupSurgeon     SpecialtyGroup = "Surgeon"
	GroupRadOnc      SpecialtyGroup = "Radiation Oncologist"
	GroupHospitalist SpecialtyGroup = "Hospitalist"
	GroupFormalPC    SpecialtyGroup = "Formally-Trained PC Specialist"
	GroupOthers      SpecialtyGroup = "Others"
)

// PCType is the closed set of palliative-care provision categories.
type PCType string

const (
	PCFormal        PCType = "Formally-Trained PC Specialist"
	PCNonSpecialist PCType = "non-specialist PC"
	PCNone          PCType = "Non-PC"
)

// PalliativeCareTaxonomy is the formal palliative-care taxonomy label.
// A provider with this specialty and the PC specialist flag classifies as
// formally trained on both the specialty-group and pc-type paths.
const PalliativeCareTaxonomy = "Hospice and Palliative Care"

// UnknownSpecialty is the sentinel substituted for blank specialties.
const UnknownSpecialty = "Unknown"

// Named specialty sets. Membership drives the grouping rules below; the
// sets must stay pairwise disjoint (see CheckDisjoint).
var (
	primaryCareSpecialties = map[string]bool{
		"Family Medicine":     true,
		"Family Practice":     true,
		"Internal Medicine":   true,
		"General Practice":    true,
		"Geriatric Medicine":  true,
		"Nurse Practitioner":  true,
		"Physician Assistant": true,
	}

	medicalOncologySpecialties = map[string]bool{
		"Medical Oncology":      true,
		"Hematology & Oncology": true,
		"Hematology/Oncology":   true,
		"Hematology":            true,
	}

	surgicalSpecialties = map[string]bool{
		"General Surgery":                    true,
		"Surgical Oncology":                  true,
		"Colorectal Surgery (Proctology)":    true,
		"Thoracic Surgery":                   true,
		"Cardiac Surgery":                    true,
		"Neurosurgery":                       true,
		"Orthopedic Surgery":                 true,
		"Urology":                            true,
		"Gynecological Oncology":             true,
		"Otolaryngology":                     true,
		"Plastic and Reconstructive Surgery": true,
		"Vascular Surgery":                   true,
	}
)

// GroupRule pairs a predicate with the group it assigns. Rules are
// evaluated in order and the first match wins.
type GroupRule struct {
	Group SpecialtyGroup
	Match func(specialty string) bool
}

func memberOf(set map[string]bool) func(string) bool {
	return func(s string) bool { return set[s] }
}

func exactly(label string) func(string) bool {
	return func(s string) bool { return s == label }
}

// groupRules is the ordered first-match rule table for specialty
// grouping. Order is load-bearing; do not reorder without revisiting the
// disjointness check.
var groupRules = []GroupRule{
	{GroupPCP, memberOf(primaryCareSpecialties)},
	{GroupMedOnc, memberOf(medicalOncologySpecialties)},
	{GroupSurgeon, memberOf(surgicalSpecialties)},
	{GroupRadOnc, exactly("Radiation Oncology")},
	{GroupHospitalist, exactly("Hospitalist")},
	{GroupFormalPC, exactly(PalliativeCareTaxonomy)},
}

// NormalizeSpecialty maps blank or whitespace-only specialties to the
// Unknown sentinel and trims the rest.
func NormalizeSpecialty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownSpecialty
	}
	return s
}

// ClassifySpecialty assigns a specialty to its group via the ordered rule
// table. Total: anything unmatched is GroupOthers.
func ClassifySpecialty(specialty string) SpecialtyGroup {
	specialty = NormalizeSpecialty(specialty)
	for _, rule := range groupRules {
		if rule.Match(specialty) {
			return rule.Group
		}
	}
	return GroupOthers
}

// ClassifyPC assigns the palliative-care provision category. Independent
// of specialty grouping: the flag decides PC provision, and the formal
// taxonomy label decides whether that provision is formally trained.
func ClassifyPC(pcSpecialist bool, specialty string) PCType {
	if !pcSpecialist {
		return PCNone
	}
	if NormalizeSpecialty(specialty) == PalliativeCareTaxonomy {
		return PCFormal
	}
	return PCNonSpecialist
}

// CheckDisjoint verifies that no specialty string belongs to two named
// sets or exact-match labels. The first-match rule order would silently
// mask an overlap, so overlaps are rejected outright.
func CheckDisjoint() error {
	sets := []struct {
		name    string
		members map[string]bool
	}{
		{"primary care", primaryCareSpecialties},
		{"medical oncology", medicalOncologySpecialties},
		{"surgical", surgicalSpecialties},
		{"radiation oncology", map[string]bool{"Radiation Oncology": true}},
		{"hospitalist", map[string]bool{"Hospitalist": true}},
		{"formal palliative care", map[string]bool{PalliativeCareTaxonomy: true}},
	}

	owner := make(map[string]string)
	for _, set := range sets {
		for specialty := range set.members {
			if prev, ok := owner[specialty]; ok {
				return fmt.Errorf("specialty %q belongs to both %s and %s sets", specialty, prev, set.name)
			}
			owner[specialty] = set.name
		}
	}
	return nil
}

// SpecialtyGroups lists every possible group value.
func SpecialtyGroups() []SpecialtyGroup {
	return []SpecialtyGroup{
		GroupPCP, GroupMedOnc, GroupSurgeon, GroupRadOnc,
		GroupHospitalist, GroupFormalPC, GroupOthers,
	}
}

// PCTypes lists every possible pc_type value.
func PCTypes() []PCType {
	return []PCType{PCFormal, PCNonSpecialist, PCNone}
}
