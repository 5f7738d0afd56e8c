package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/metrics"
	"github.com/san-kum/enginesim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset, parameter overrides and run length.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
	RPM    float64            `yaml:"rpm"`
	Cycles int                `yaml:"cycles"`
	Dt     float64            `yaml:"dt"`
	SaveAs string             `yaml:"save_as"`
}

// StepResult pairs a finished step with the config it ran.
type StepResult struct {
	Name   string
	Config *config.Config
	Run    sim.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Build resolves the step's engine config and run settings. Zero values
// fall back to the preset's speed, one cycle and a 60 Hz step.
func (s ScenarioStep) Build() (*config.Config, sim.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, sim.Config{}, fmt.Errorf("unknown preset %q", name)
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, sim.Config{}, err
		}
	}
	run := sim.Config{Dt: s.Dt, Cycles: s.Cycles, RPM: s.RPM}
	if run.Dt == 0 {
		run.Dt = 1.0 / 60
	}
	if run.Cycles == 0 {
		run.Cycles = 1
	}
	return cfg, run, nil
}

// RunScenario executes all steps in order. Results of the steps that
// finished are returned alongside the first error.
func RunScenario(ctx context.Context, scenario *Scenario, log zerolog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_%d", scenario.Name, i+1)
		}
		log.Info().Int("step", i+1).Int("of", len(scenario.Steps)).Str("name", name).Msg("scenario step")

		cfg, run, err := step.Build()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := runOnce(ctx, cfg, run, log)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Run: run, Result: result})
	}

	return results, nil
}

func runOnce(ctx context.Context, cfg *config.Config, run sim.Config, log zerolog.Logger) (*sim.Result, error) {
	eng, err := engine.New(cfg, log)
	if err != nil {
		return nil, err
	}
	s := sim.New(eng)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	return s.Run(ctx, run)
}

// ParameterSweep runs one engine across evenly spaced values of a single
// parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Run       sim.Config
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Ignitions  int
	Frames     int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log zerolog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	if _, ok := base.GetParam(sweep.ParamName); !ok {
		return nil, fmt.Errorf("unknown parameter %q (tunable: %v)", sweep.ParamName, config.TunableParams())
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		_ = cfg.SetParam(sweep.ParamName, paramVal)

		run := sweep.Run
		// The rpm parameter only sets the initial speed; a run override
		// would mask it.
		if sweep.ParamName == "rpm" {
			run.RPM = 0
		}

		result, err := runOnce(ctx, cfg, run, log)
		if err != nil {
			return results, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Ignitions:  result.Ignitions,
			Frames:     len(result.Frames),
		})

		log.Debug().Int("step", i+1).Str("param", sweep.ParamName).Float64("value", paramVal).Msg("sweep")
	}

	return results, nil
}
