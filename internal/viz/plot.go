package viz

import (
	"fmt"
	"math/cmplx"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/polypath/internal/tracker"
)

// TracePlot renders the magnitude of every coordinate of a recorded path
// trace against the homotopy parameter.
func TracePlot(result *tracker.PathResult, width, height int) string {
	if len(result.Trace) < 2 {
		return "no trace recorded"
	}

	n := len(result.Trace[0])
	series := make([][]float64, n)
	for i := 0; i < n; i++ {
		series[i] = make([]float64, len(result.Trace))
		for s, z := range result.Trace {
			series[i][s] = cmplx.Abs(z[i])
		}
	}

	caption := fmt.Sprintf("path %d: |z_i| over t in [0,1], %d steps (%s)",
		result.Path, result.StepsTaken, result.Status)

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// ResidualPlot renders the target residual of each path, ordered by path
// index, to spot problem paths at a glance.
func ResidualPlot(summary *tracker.Summary, width, height int) string {
	data := make([]float64, len(summary.Results))
	for i, r := range summary.Results {
		data[i] = r.Residual
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("terminal residual by path"),
	)
}
