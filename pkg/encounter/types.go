// Package encounter loads the patient-provider encounter table and derives
// the deduplicated bipartite incidence set from it.
package encounter

import (
	"errors"
	"fmt"
)

// Required columns of the encounter table.
const (
	ColPatientID    = "patient_id"
	ColNPI          = "npi"
	ColProviderHRR  = "provider_hrr"
	ColSpecialty    = "provider_specialty"
	ColPCSpecialist = "pc_specialist_flag"
)

// Optional columns. Missing optional columns are ignored.
const (
	ColPatientHRR    = "patient_hrr"
	ColCancerSite    = "cancer_site"
	ColPCFlag        = "pc_flag"
	ColEncounterYear = "encounter_year"
)

// ErrMissingColumn indicates the source table lacks a required column.
// This is a data-integrity failure and aborts the run.
var ErrMissingColumn = errors.New("missing required column")

// Record is one row of the encounter table. Immutable once loaded.
type Record struct {
	PatientID    string
	NPI          string
	ProviderHRR  string
	Specialty    string
	PCSpecialist bool

	// Optional fields, zero-valued when the column is absent.
	PatientHRR    string
	CancerSite    string
	PCFlag        bool
	EncounterYear int
}

// Validate checks that the record carries the identifiers the pipeline
// keys on. Attribute fields may be blank; identifiers may not.
func (r Record) Validate() error {
	if r.PatientID == "" {
		return fmt.Errorf("encounter record: empty %s", ColPatientID)
	}
	if r.NPI == "" {
		return fmt.Errorf("encounter record: empty %s", ColNPI)
	}
	return nil
}
