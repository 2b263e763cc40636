// Package trace cuts oscilloscope power traces captured during a probe run
// into the sections between trigger bursts and computes signal metrics for
// each section.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultClusterMaxLen is the longest run, in samples, that is merged into
// one trigger cluster.
const DefaultClusterMaxLen = 500

// ErrClusterCount is returned by Split when a trace does not have the
// expected number of trigger clusters.
var ErrClusterCount = errors.New("trace: unexpected trigger cluster count")

// ErrNonFinite is returned by Load for a NaN or infinite sample.
var ErrNonFinite = errors.New("trace: non-finite sample")

// Load reads a trace with one sample per line. Blank lines and lines
// starting with '#' are skipped; extra whitespace-separated columns and
// non-finite values are not allowed.
func Load(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []float64
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s:%d: %w: %q", path, n, ErrNonFinite, line)
		}
		samples = append(samples, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// Cluster is an inclusive range of samples around a trigger burst.
type Cluster struct {
	Start, End int
}

// Clusters finds trigger clusters. A cluster starts at the first sample whose
// magnitude exceeds threshold and ends at the last such sample within maxLen
// samples of the start.
func Clusters(samples []float64, threshold float64, maxLen int) []Cluster {
	var clusters []Cluster
	n := len(samples)
	for i := 0; i < n; {
		if math.Abs(samples[i]) <= threshold {
			i++
			continue
		}
		end := i
		for j := i; j < min(i+maxLen, n); j++ {
			if math.Abs(samples[j]) > threshold {
				end = j
			}
		}
		clusters = append(clusters, Cluster{Start: i, End: end})
		i = end + 1
	}
	return clusters
}

// Split returns the samples strictly between consecutive trigger clusters.
// The trace must contain exactly want clusters.
func Split(samples []float64, threshold float64, maxLen, want int) ([][]float64, error) {
	clusters := Clusters(samples, threshold, maxLen)
	if len(clusters) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrClusterCount, len(clusters), want)
	}
	sections := make([][]float64, 0, want-1)
	for k := 0; k+1 < len(clusters); k++ {
		sections = append(sections, samples[clusters[k].End+1:clusters[k+1].Start])
	}
	return sections, nil
}
