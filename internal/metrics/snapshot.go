// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Sample is one series of a gathered metric family.
type Sample struct {
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
	Count  uint64            `json:"count,omitempty"`
}

// Snapshot gathers the orbitstats metric families from the default registry.
// Histograms report their sum in Value and their observation count in Count.
func Snapshot() (map[string][]Sample, error) {
	return snapshotFrom(prometheus.DefaultGatherer)
}

func snapshotFrom(g prometheus.Gatherer) (map[string][]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	out := make(map[string][]Sample)
	for _, mf := range families {
		name := mf.GetName()
		if !strings.HasPrefix(name, namespace+"_") {
			continue
		}
		samples := make([]Sample, 0, len(mf.GetMetric()))
		for _, m := range mf.GetMetric() {
			samples = append(samples, toSample(mf.GetType(), m))
		}
		out[name] = samples
	}
	return out, nil
}

func toSample(kind dto.MetricType, m *dto.Metric) Sample {
	s := Sample{}
	if len(m.GetLabel()) > 0 {
		s.Labels = make(map[string]string, len(m.GetLabel()))
		for _, lp := range m.GetLabel() {
			s.Labels[lp.GetName()] = lp.GetValue()
		}
	}

	switch kind {
	case dto.MetricType_COUNTER:
		s.Value = m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		s.Value = m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		s.Value = m.GetHistogram().GetSampleSum()
		s.Count = m.GetHistogram().GetSampleCount()
	default:
		s.Value = m.GetUntyped().GetValue()
	}
	return s
}

// WriteTextfile writes all gathered metrics in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// FamilyNames returns the sorted metric family names of a snapshot.
func FamilyNames(snap map[string][]Sample) []string {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
