package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/enginesim/internal/sim"
)

type ExportData struct {
	Run      RunMetadata `json:"run"`
	Angles   []float64   `json:"angles"`
	Strokes  []string    `json:"strokes"`
	Volumes  []float64   `json:"volumes"`
	Pressure []float64   `json:"pressures"`
}

func NewExportData(meta RunMetadata, frames []sim.Frame) ExportData {
	data := ExportData{
		Run:      meta,
		Angles:   make([]float64, len(frames)),
		Strokes:  make([]string, len(frames)),
		Volumes:  make([]float64, len(frames)),
		Pressure: make([]float64, len(frames)),
	}
	for i, f := range frames {
		data.Angles[i] = f.Angle
		data.Strokes[i] = f.Stroke.String()
		data.Volumes[i] = f.Volume
		data.Pressure[i] = f.Pressure
	}
	return data
}

// ExportJSON writes a run and its frames as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(*meta, frames))
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
