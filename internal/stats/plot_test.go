package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotPercent(t *testing.T) {
	var buf bytes.Buffer
	err := PlotPercent(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{10, 50, 90, 50, 10}},
		{Name: "B", Values: []float64{0, 25, 50, 75, 100}},
		{Name: "Empty"},
	}, 12, 4, false)
	if err != nil {
		t.Fatalf("PlotPercent failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend: A (solid)  B (dotted)") {
		t.Fatalf("expected legend in output:\n%s", out)
	}
	if strings.Contains(out, "Empty") {
		t.Fatalf("empty series should be skipped")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "100% │ ") || !strings.HasPrefix(lines[4], "  0% │ ") {
		t.Fatalf("unexpected axis labels: %q %q", lines[1], lines[4])
	}
}

func TestPlotPercentNoData(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotPercent(&buf, "Nothing", nil, 10, 4, false); err != nil {
		t.Fatalf("PlotPercent failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-4-3 {
		t.Fatalf("expected width %d, got %d", 73, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{0, 100}, 3)
	if got[0] != 0 || got[1] != 50 || got[2] != 100 {
		t.Fatalf("unexpected stretch: %v", got)
	}
	got = resample([]float64{10, 20, 30, 40}, 2)
	if got[0] != 15 || got[1] != 35 {
		t.Fatalf("unexpected average: %v", got)
	}
}
