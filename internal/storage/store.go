// Package storage keeps headless runs on disk: one directory per run with
// a metadata.json and the recorded frames as pv.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/sim"
	"github.com/san-kum/enginesim/internal/thermo"
)

const (
	metaFile   = "metadata.json"
	framesFile = "pv.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var csvHeader = []string{"frame", "angle", "stroke", "volume", "pressure"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Cycles    int                `json:"cycles"`
	RPM       float64            `json:"rpm"`
	Frames    int                `json:"frames"`
	Ignitions int                `json:"ignitions"`
	Metrics   map[string]float64 `json:"metrics"`
	Summary   analysis.Summary   `json:"summary"`
	Config    *config.Config     `json:"config,omitempty"`
}

// Save writes a new run directory and returns its id.
func (s *Store) Save(preset string, cfg *config.Config, run sim.Config, result *sim.Result) (string, error) {
	runID, runDir, err := s.newRunDir(preset)
	if err != nil {
		return "", err
	}

	rpm := run.RPM
	if rpm <= 0 && cfg != nil {
		rpm = cfg.Speed.Initial
	}
	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: time.Now(),
		Dt:        run.Dt,
		Cycles:    result.Cycles,
		RPM:       rpm,
		Frames:    len(result.Frames),
		Ignitions: result.Ignitions,
		Metrics:   result.Metrics,
		Summary:   analysis.Summarize(FrameSamples(result.Frames)),
		Config:    cfg,
	}
	if cfg != nil {
		meta.Seed = cfg.Seed
	}

	if err := writeJSON(filepath.Join(runDir, metaFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

// newRunDir creates <base>/<preset>_<unix>, adding a counter when two runs
// land in the same second.
func (s *Store) newRunDir(preset string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			strconv.Itoa(fr.Index),
			strconv.FormatFloat(fr.Angle, 'f', 6, 64),
			fr.Stroke.String(),
			strconv.FormatFloat(fr.Volume, 'f', 6, 64),
			strconv.FormatFloat(fr.Pressure, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads pv.csv back. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			continue
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		stroke, ok := cycle.ParseStroke(rec[2])
		if !ok {
			continue
		}
		vals := make([]float64, 3)
		bad := false
		for i, col := range []int{1, 3, 4} {
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		if bad {
			continue
		}
		frames = append(frames, sim.Frame{
			Index:    idx,
			Angle:    vals[0],
			Stroke:   stroke,
			Volume:   vals[1],
			Pressure: vals[2],
		})
	}
	return frames, nil
}

// LoadSamples returns just the PV points of a run.
func (s *Store) LoadSamples(runID string) ([]thermo.Sample, error) {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}
	return FrameSamples(frames), nil
}

func FrameSamples(frames []sim.Frame) []thermo.Sample {
	out := make([]thermo.Sample, len(frames))
	for i, f := range frames {
		out[i] = thermo.Sample{Volume: f.Volume, Pressure: f.Pressure}
	}
	return out
}
