package admm

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Record is the per-iteration convergence diagnostic appended to History.
type Record struct {
	Iteration      int
	Objective      float64
	PrimalResidual float64
	DualResidual   float64
	EpsPrimal      float64
	EpsDual        float64
}

// History is the append-only iteration log of one fit. It is discarded and
// rebuilt by the next fit.
type History []Record

// Converged reports whether the last recorded iteration met both residual
// tolerances.
func (h History) Converged() bool {
	if len(h) == 0 {
		return false
	}
	last := h[len(h)-1]
	return last.PrimalResidual < last.EpsPrimal && last.DualResidual < last.EpsDual
}

// SavePlot writes a line plot of the objective and residual traces to
// path. The format follows the file extension (eps, pdf, png, svg, ...).
func (h History) SavePlot(path string) error {
	p := plot.New()
	p.Title.Text = "ADMM convergence"
	p.X.Label.Text = "iteration"

	objective := make(plotter.XYs, len(h))
	primal := make(plotter.XYs, len(h))
	dual := make(plotter.XYs, len(h))
	for i, rec := range h {
		objective[i].X = float64(rec.Iteration)
		objective[i].Y = rec.Objective
		primal[i].X = float64(rec.Iteration)
		primal[i].Y = rec.PrimalResidual
		dual[i].X = float64(rec.Iteration)
		dual[i].Y = rec.DualResidual
	}

	err := plotutil.AddLines(p,
		"Objective", objective,
		"Primal residual", primal,
		"Dual residual", dual,
	)
	if err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
