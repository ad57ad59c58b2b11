package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/ssargent/cdstream/pkg/codec"
)

const previewBytes = 16

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	return table
}

func newRecordTable(w io.Writer) *tablewriter.Table {
	return newTable(w, "Visit", "Offset", "Signature", "Name", "Shape", "Length", "Checksum")
}

func recordRow(visit int, rec codec.Record) []string {
	return []string{
		fmt.Sprintf("%d", visit),
		fmt.Sprintf("%d", rec.Offset),
		fmt.Sprintf("0x%04X", rec.Signature),
		registry.Name(rec.Signature),
		rec.Shape.String(),
		fmt.Sprintf("%d", rec.Length),
		fmt.Sprintf("%016x", rec.Checksum()),
	}
}

func preview(payload []byte) string {
	if len(payload) <= previewBytes {
		return hex.EncodeToString(payload)
	}
	return hex.EncodeToString(payload[:previewBytes]) + "..."
}

// printStats writes every gathered sample as one table row
func printStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	table := newTable(w, "Metric", "Labels", "Value")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			table.Append([]string{mf.GetName(), formatLabels(m.GetLabel()), formatValue(mf.GetType(), m)})
		}
	}
	table.Render()
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	labels := make([]string, 0, len(pairs))
	for _, p := range pairs {
		labels = append(labels, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

func formatValue(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
	default:
		return "-"
	}
}
