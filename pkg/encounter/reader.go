package encounter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// truthy flag spellings accepted for pc_specialist_flag / pc_flag.
func parseFlag(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true", "t", "y", "yes":
		return true
	default:
		return false
	}
}

// ReadCSV reads encounter records from a CSV stream. The first row must be
// a header containing every required column; optional columns are picked up
// when present. Rows missing patient or provider identifiers are rejected.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input, no header row", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	for _, required := range []string{ColPatientID, ColNPI, ColProviderHRR, ColSpecialty, ColPCSpecialist} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	field := func(row []string, col string) string {
		i, ok := colIndex[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, 1024)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		rec := Record{
			PatientID:    field(row, ColPatientID),
			NPI:          field(row, ColNPI),
			ProviderHRR:  field(row, ColProviderHRR),
			Specialty:    field(row, ColSpecialty),
			PCSpecialist: parseFlag(field(row, ColPCSpecialist)),
			PatientHRR:   field(row, ColPatientHRR),
			CancerSite:   field(row, ColCancerSite),
			PCFlag:       parseFlag(field(row, ColPCFlag)),
		}
		if year := field(row, ColEncounterYear); year != "" {
			if y, err := strconv.Atoi(year); err == nil {
				rec.EncounterYear = y
			}
		}

		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadCSVFile reads encounter records from a CSV file on disk.
func ReadCSVFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open encounters file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
