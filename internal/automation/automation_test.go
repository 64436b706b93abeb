package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/storage"
)

const scenarioYAML = `
name: settle
description: coarse then fine
steps:
  - preset: coarse
    frames: 5
    seed: 3
    params:
      particles: 20
  - preset: default
    frames: 4
    seed: 3
    params:
      particles: 20
      sub_steps: 4
    save_as: fine
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "settle" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[1].Params["sub_steps"] != 4 || sc.Steps[1].SaveAs != "fine" {
		t.Errorf("unexpected step %+v", sc.Steps[1])
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := StepConfig(ScenarioStep{Preset: "coarse", Frames: 9, Params: map[string]float64{"gravity": 0}})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.SubSteps != 1 || cfg.Frames != 9 || cfg.Physics.GravityY != 0 {
		t.Errorf("unexpected config: sub-steps %d, frames %d, gravity %v", cfg.Physics.SubSteps, cfg.Frames, cfg.Physics.GravityY)
	}

	if _, err := StepConfig(ScenarioStep{Preset: "nope"}); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := StepConfig(ScenarioStep{Params: map[string]float64{"mass": 1}}); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID != "" {
		t.Errorf("expected unsaved first step, got %s", results[0].RunID)
	}
	if results[1].Result.StepsTaken != 16 {
		t.Errorf("expected 4 frames of 4 sub-steps, got %d", results[1].Result.StepsTaken)
	}

	meta, err := st.Load(results[1].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Name != "fine" || meta.SubSteps != 4 {
		t.Errorf("unexpected archive %+v", meta)
	}
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{
		{Frames: 1, Params: map[string]float64{"particles": 1}},
		{Integrator: "rk4"},
		{Frames: 1},
	}}
	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown integrator")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step only, got %d", len(results))
	}
}
