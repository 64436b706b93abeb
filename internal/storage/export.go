package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/verlet/internal/dynamo"
)

type ExportData struct {
	Run       RunMetadata     `json:"run"`
	Samples   []dynamo.Sample `json:"samples"`
	Particles []ParticleRow   `json:"particles"`
}

// ExportJSON writes one self-contained document for the run.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	var rows []ParticleRow
	if err := s.readCSV(runID, particlesFile, &rows); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Samples: samples, Particles: rows})
}

// ExportCSV writes the per-frame diagnostics with a header row.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	return gocsv.Marshal(samples, w)
}
