package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dd0wney/cluso-collabnet/pkg/attributes"
)

// attributeHeader is the column layout of the exported attribute table.
var attributeHeader = []string{
	"npi", "provider_hrr", "provider_specialty",
	"specialty_group", "pc_type", "patient_volume", "strength",
}

// WriteAttributeCSV writes the attribute table as CSV, one row per
// provider in table (and therefore graph) order.
func WriteAttributeCSV(path string, table *attributes.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(attributeHeader); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := []string{
			row.NPI,
			row.HRR,
			row.Specialty,
			string(row.SpecialtyGroup),
			string(row.PCType),
			strconv.Itoa(row.PatientVolume),
			strconv.Itoa(row.Strength),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
