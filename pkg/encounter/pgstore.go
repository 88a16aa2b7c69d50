package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore reads encounter records from a PostgreSQL table. CSV is the
// default source; this exists for deployments that keep the encounter
// table in a warehouse.
type PGStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPGStore connects to PostgreSQL and verifies connectivity. table is
// the encounter table name; it must expose the required columns.
func NewPGStore(ctx context.Context, databaseURL, table string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PGStore{pool: pool, table: table}, nil
}

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

// LoadEncounters reads the full encounter table. The query selects only
// the columns the pipeline consumes; optional columns are read as
// nullable and default to zero values.
func (s *PGStore) LoadEncounters(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT patient_id, npi, provider_hrr, provider_specialty, pc_specialist_flag,
		       COALESCE(patient_hrr, ''), COALESCE(cancer_site, ''),
		       COALESCE(pc_flag, false), COALESCE(encounter_year, 0)
		FROM %s
	`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query encounters: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, 1024)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.PatientID,
			&rec.NPI,
			&rec.ProviderHRR,
			&rec.Specialty,
			&rec.PCSpecialist,
			&rec.PatientHRR,
			&rec.CancerSite,
			&rec.PCFlag,
			&rec.EncounterYear,
		); err != nil {
			return nil, fmt.Errorf("failed to scan encounter row: %w", err)
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("encounter row iteration: %w", err)
	}

	return records, nil
}
