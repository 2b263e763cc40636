package trace

import (
	"encoding/csv"
	"io"
	"strconv"
)

var (
	aggregatedHeader = []string{"filename", "capacitor_name", "combined_metric", "per_trace_metric", "trace_section", "value", "category"}
	perTraceHeader   = []string{"filename", "capacitor_name", "per_trace_metric", "trace_section", "trace_idx", "value", "category"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteAggregated writes the per-section mean of every metric.
func WriteAggregated(w io.Writer, results []*SetResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(aggregatedHeader); err != nil {
		return err
	}
	for _, r := range results {
		for _, metric := range MetricNames {
			for _, section := range SectionNames {
				err := cw.Write([]string{
					r.Set.Pattern,
					r.Set.DeviceName(),
					"mean",
					metric,
					section,
					formatFloat(r.Mean(section, metric)),
					r.Set.Category,
				})
				if err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePerTrace writes every metric of every trace section.
func WritePerTrace(w io.Writer, results []*SetResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(perTraceHeader); err != nil {
		return err
	}
	for _, r := range results {
		for _, metric := range MetricNames {
			for _, section := range SectionNames {
				for idx, m := range r.Sections[section] {
					err := cw.Write([]string{
						r.Set.Pattern,
						r.Set.DeviceName(),
						metric,
						section,
						strconv.Itoa(idx),
						formatFloat(m[metric]),
						r.Set.Category,
					})
					if err != nil {
						return err
					}
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
