package trace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// SectionNames labels the sections between the six trigger clusters of a
// heavy/sleep comparison capture.
var SectionNames = []string{"heavy_1", "sleep_1", "heavy_2", "sleep_2", "heavy_3"}

// ErrNoTraces is returned by ProcessSet when no trace of a set could be split.
var ErrNoTraces = errors.New("trace: no usable traces")

// Set is a group of trace files captured on one device.
type Set struct {
	Pattern       string  `yaml:"pattern"`
	Threshold     float64 `yaml:"threshold"`
	Category      string  `yaml:"category"`
	Name          string  `yaml:"name,omitempty"`
	ClusterMaxLen int     `yaml:"cluster_max_len,omitempty"`

	// SampleRate is the capture rate in Hz; DefaultSampleRate if unset.
	SampleRate float64 `yaml:"sample_rate,omitempty"`
}

// DeviceName is Name, or the directory holding the trace files.
func (s Set) DeviceName() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(filepath.Dir(s.Pattern))
}

func (s Set) clusterMaxLen() int {
	if s.ClusterMaxLen > 0 {
		return s.ClusterMaxLen
	}
	return DefaultClusterMaxLen
}

func (s Set) sampleRate() float64 {
	if s.SampleRate > 0 {
		return s.SampleRate
	}
	return DefaultSampleRate
}

// Manifest lists the trace sets to analyze.
type Manifest struct {
	Sets []Set `yaml:"sets"`
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	for i, s := range m.Sets {
		if s.Pattern == "" {
			return nil, fmt.Errorf("manifest %s: set %d: missing pattern", path, i)
		}
		if s.Threshold <= 0 {
			return nil, fmt.Errorf("manifest %s: set %d (%s): threshold must be positive", path, i, s.Pattern)
		}
		if s.SampleRate < 0 {
			return nil, fmt.Errorf("manifest %s: set %d (%s): sample_rate must be positive", path, i, s.Pattern)
		}
	}
	return &m, nil
}

// SetResult holds the metrics of every usable trace in a set.
type SetResult struct {
	Set     Set
	Loaded  int
	Skipped int

	// Cutoff is the common length every section was trimmed to.
	Cutoff int

	// Sections maps a section name to the metrics of each usable trace.
	Sections map[string][]Metrics
}

// Mean is the average of metric over all traces of section.
func (r *SetResult) Mean(section, metric string) float64 {
	ms := r.Sections[section]
	vals := make([]float64, len(ms))
	for i, m := range ms {
		vals[i] = m[metric]
	}
	return mean(vals)
}

// Traces is the number of traces that contributed metrics.
func (r *SetResult) Traces() int {
	return r.Loaded - r.Skipped
}

// ProcessSet loads every trace matching the set pattern, splits each into
// sections, trims all sections to the shortest one and analyzes them.
// Traces without the expected trigger clusters are skipped.
func ProcessSet(s Set, log *slog.Logger) (*SetResult, error) {
	paths, err := filepath.Glob(s.Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", s.Pattern, err)
	}
	sort.Strings(paths)

	res := &SetResult{Set: s, Sections: map[string][]Metrics{}}
	var split [][][]float64
	for i, path := range paths {
		samples, err := Load(path)
		if err != nil {
			return nil, err
		}
		res.Loaded++

		sections, err := Split(samples, s.Threshold, s.clusterMaxLen(), len(SectionNames)+1)
		if err != nil {
			log.Warn("skipping trace", "set", s.Pattern, "trace", i, "path", path, "error", err)
			res.Skipped++
			continue
		}
		split = append(split, sections)
	}
	if len(split) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTraces, s.Pattern)
	}
	log.Info("split traces", "set", s.Pattern, "loaded", res.Loaded, "skipped", res.Skipped)

	res.Cutoff = len(split[0][0])
	for _, sections := range split {
		for _, sec := range sections {
			res.Cutoff = min(res.Cutoff, len(sec))
		}
	}

	for _, sections := range split {
		for k, name := range SectionNames {
			res.Sections[name] = append(res.Sections[name], AnalyzeAt(sections[k][:res.Cutoff], s.sampleRate()))
		}
	}
	return res, nil
}
