package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
)

const (
	metadataFile  = "metadata.json"
	framesFile    = "frames.csv"
	particlesFile = "particles.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	FrameDt        float64            `json:"frame_dt"`
	SubSteps       int                `json:"sub_steps"`
	InitialCount   int                `json:"initial_count"`
	ArenaRadius    float64            `json:"arena_radius"`
	ParticleRadius float64            `json:"particle_radius"`
	FramesRun      int                `json:"frames_run"`
	StepsTaken     int                `json:"steps_taken"`
	Metrics        map[string]float64 `json:"metrics"`
	Errors         []string           `json:"errors,omitempty"`
}

// ParticleRow is one particle of the final state in particles.csv.
type ParticleRow struct {
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	PrevX float64 `csv:"prev_x"`
	PrevY float64 `csv:"prev_y"`
	Color string  `csv:"color"`
}

func ToRows(ps []dynamo.Particle) []ParticleRow {
	rows := make([]ParticleRow, len(ps))
	for i, p := range ps {
		rows[i] = ParticleRow{
			Index: i,
			X:     p.Position.X,
			Y:     p.Position.Y,
			PrevX: p.Previous.X,
			PrevY: p.Previous.Y,
			Color: p.Color.Hex(),
		}
	}
	return rows
}

// FromRows rebuilds particles with zero pending acceleration.
func FromRows(rows []ParticleRow) ([]dynamo.Particle, error) {
	ps := make([]dynamo.Particle, len(rows))
	for i, r := range rows {
		c, err := dynamo.ParseColor(r.Color)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		ps[i] = dynamo.Particle{
			Position: dynamo.Vec{X: r.X, Y: r.Y},
			Previous: dynamo.Vec{X: r.PrevX, Y: r.PrevY},
			Color:    c,
		}
	}
	return ps, nil
}

func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Name:           cfg.Name,
		Timestamp:      now,
		Seed:           cfg.Seed,
		FrameDt:        cfg.FrameDt,
		SubSteps:       cfg.Physics.SubSteps,
		InitialCount:   cfg.InitialCount,
		ArenaRadius:    cfg.Physics.ArenaRadius,
		ParticleRadius: cfg.Physics.ParticleRadius,
		FramesRun:      result.FramesRun,
		StepsTaken:     result.StepsTaken,
		Metrics:        result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), result.Samples); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, particlesFile), ToRows(result.Final)); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	var samples []dynamo.Sample
	if err := s.readCSV(runID, framesFile, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *Store) LoadParticles(runID string) ([]dynamo.Particle, error) {
	var rows []ParticleRow
	if err := s.readCSV(runID, particlesFile, &rows); err != nil {
		return nil, err
	}
	return FromRows(rows)
}

func (s *Store) readCSV(runID, name string, out interface{}) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", dynamo.ErrNoRun, runID)
		}
		return err
	}
	defer f.Close()

	if err := gocsv.Unmarshal(f, out); err != nil {
		return fmt.Errorf("run %s %s: %w", runID, name, err)
	}
	return nil
}

// Latest returns the most recent run's id.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", dynamo.ErrNoRun
	}
	return runs[len(runs)-1].ID, nil
}
