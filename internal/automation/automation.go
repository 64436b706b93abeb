package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/optim"
	"github.com/san-kum/verlet/internal/storage"
)

// Scenario is a scripted list of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset, overrides parameters by name and
// optionally archives the run under SaveAs.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Frames     int                `yaml:"frames"`
	Seed       int64              `yaml:"seed"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

type StepResult struct {
	Step   ScenarioStep
	RunID  string
	Result *dynamo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// StepConfig builds the config one step runs with.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	name := step.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if step.Frames > 0 {
		cfg.Frames = step.Frames
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.SaveAs != "" {
		cfg.Name = step.SaveAs
	}
	if err := optim.Apply(cfg, step.Params); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order and stops at the first failure.
// Steps with SaveAs are archived when st is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		integName := step.Integrator
		if integName == "" {
			integName = "verlet"
		}
		integ, err := registry.GetIntegrator(integName)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(integ, registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.SaveAs != "" && st != nil {
			if sr.RunID, err = st.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
