package sweep

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dendrite/internal/config"
	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/storage"
)

// Scenario is a scripted batch of forests.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep grows Count forests from a preset with optional overrides.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Seed   int64              `yaml:"seed"`
	Count  int                `yaml:"count"`
	Forest map[string]float64 `yaml:"forest"`
	// SaveAs names the stored runs; empty skips saving.
	SaveAs string `yaml:"save_as"`
}

// StepResult reports one grown forest.
type StepResult struct {
	Step   int
	Seed   int64
	RunID  string
	Forest *dendrite.Forest
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

// config resolves the step's preset and overrides.
func (s ScenarioStep) config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "neuron"
	}
	cfg := config.GetPreset("tree", name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	for p, v := range s.Forest {
		if err := Apply(&cfg.Forest, p, v); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes every step in order. st may be nil when no step saves.
// Progress lines go to log.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log io.Writer) ([]StepResult, error) {
	var results []StepResult
	for i, step := range scenario.Steps {
		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		count := max(step.Count, 1)
		fmt.Fprintf(log, "Running step %d/%d: %s x%d\n", i+1, len(scenario.Steps), cfg.Name, count)

		for k := 0; k < count; k++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			seed := cfg.Seed + int64(k)
			f, err := dendrite.GrowForest(rand.New(rand.NewSource(seed)), cfg.ForestParams())
			if err != nil {
				return results, fmt.Errorf("step %d seed %d: %w", i+1, seed, err)
			}

			res := StepResult{Step: i, Seed: seed, Forest: f}
			if step.SaveAs != "" {
				if st == nil {
					return results, fmt.Errorf("step %d: save_as set without a store", i+1)
				}
				if res.RunID, err = st.Save(fmt.Sprintf("%s_%d", step.SaveAs, seed), seed, f); err != nil {
					return results, fmt.Errorf("step %d save: %w", i+1, err)
				}
			}
			results = append(results, res)
		}
	}
	return results, nil
}
