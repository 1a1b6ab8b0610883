package tvclust

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ImBeji/TV-Clustering/admm"
	"github.com/ImBeji/TV-Clustering/difference"
	"github.com/ImBeji/TV-Clustering/kernel"
	"github.com/ImBeji/TV-Clustering/kmeans"
	"github.com/ImBeji/TV-Clustering/stiefel"
)

// TVKernelKMeans is the estimator. Construct with New, fit with Fit, then
// read the results through the accessors. A second Fit discards all state
// of the first; concurrent Fit calls on one instance are not supported.
type TVKernelKMeans struct {
	nClusters int
	kern      kernel.Kernel
	lambda    float64
	rho       float64
	maxIter   int
	restarts  int
	init      Init
	verbose   int
	seed      uint64
	solver    stiefel.Minimizer

	// State of the last fit.
	fitted  bool
	gram    *mat.Dense
	state   *admm.State
	labels  []int
	centers *mat.Dense
	history admm.History
	lengths []int
}

// New returns an estimator for nClusters clusters with the given options
// applied over the defaults (linear kernel, lambda 1e-2, rho 1, 500
// iterations, 10 restarts, spectral init).
func New(nClusters int, opts ...Option) (*TVKernelKMeans, error) {
	if nClusters < 2 {
		return nil, fmt.Errorf("tvclust: need at least 2 clusters, got %d", nClusters)
	}
	t := &TVKernelKMeans{
		nClusters: nClusters,
		kern:      kernel.Linear{},
		lambda:    1e-2,
		rho:       1,
		maxIter:   admm.DefaultMaxIter,
		restarts:  10,
		init:      InitSpectral,
		seed:      1,
		solver:    stiefel.NewCG(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Fit stacks the series, builds the kernel matrix and difference operator,
// runs the ADMM loop and discretizes the resulting embedding. Any previous
// fit state is discarded first.
func (t *TVKernelKMeans) Fit(series []*mat.Dense) error {
	t.fitted = false
	t.gram, t.state, t.labels, t.centers, t.history, t.lengths = nil, nil, nil, nil, nil, nil

	x, lengths, err := stackSeries(series)
	if err != nil {
		return err
	}
	n, _ := x.Dims()
	if n < t.nClusters {
		return fmt.Errorf("%w: %d samples, %d clusters", ErrTooFewSamples, n, t.nClusters)
	}

	d, err := difference.New(lengths)
	if err != nil {
		return err
	}
	gram := kernel.Gram(nil, x, x, t.kern)

	h, err := t.initH(x)
	if err != nil {
		return err
	}
	w := d.MulRight(nil, h.T())
	_, m := w.Dims()
	y := mat.NewDense(t.nClusters, m, nil)

	st := &admm.State{
		H:     h,
		W:     w,
		Y:     y,
		Rho:   t.rho,
		Kappa: t.lambda / t.rho,
	}
	pr := &admm.Problem{
		K:       gram,
		D:       d,
		Lambda:  t.lambda,
		Rho:     t.rho,
		Solver:  t.solver,
		MaxIter: t.maxIter,
		Verbose: t.verbose,
	}
	history := admm.Run(st, pr)

	km := &kmeans.KMeans{
		Clusters: t.nClusters,
		Restarts: t.restarts,
		MaxIter:  t.maxIter,
		Seed:     t.seed,
	}
	labels, centers, _, err := km.Fit(st.H)
	if err != nil {
		return err
	}

	t.gram = gram
	t.state = st
	t.labels = labels
	t.centers = centers
	t.history = history
	t.lengths = lengths
	t.fitted = true
	return nil
}

// initH produces the starting embedding per the configured strategy.
func (t *TVKernelKMeans) initH(x *mat.Dense) (*mat.Dense, error) {
	n, d := x.Dims()
	switch t.init {
	case InitZeros:
		return mat.NewDense(n, t.nClusters, nil), nil
	case InitSpectral:
		// Truncated left singular basis of X. When the feature dimension
		// is below the cluster count the thin SVD is too narrow and the
		// full U is needed.
		kind := mat.SVDThinU
		if d < t.nClusters {
			kind = mat.SVDFullU
		}
		var svd mat.SVD
		if ok := svd.Factorize(x, kind); !ok {
			return nil, fmt.Errorf("tvclust: SVD of the sample matrix failed")
		}
		var u mat.Dense
		svd.UTo(&u)
		h := mat.NewDense(n, t.nClusters, nil)
		h.Copy(u.Slice(0, n, 0, t.nClusters))
		return h, nil
	}
	return nil, fmt.Errorf("tvclust: unknown init selection %d", t.init)
}

// stackSeries validates the collection and concatenates it row-wise into
// the sample matrix, returning it with the length vector.
func stackSeries(series []*mat.Dense) (*mat.Dense, []int, error) {
	if len(series) == 0 {
		return nil, nil, ErrNoSeries
	}
	_, d := series[0].Dims()
	n := 0
	lengths := make([]int, len(series))
	for i, s := range series {
		li, di := s.Dims()
		if di != d {
			return nil, nil, fmt.Errorf("%w: series 0 has %d features, series %d has %d",
				ErrDimensionMismatch, d, i, di)
		}
		if li < 2 {
			return nil, nil, fmt.Errorf("%w: series %d has length %d",
				difference.ErrShortSeries, i, li)
		}
		lengths[i] = li
		n += li
	}
	x := mat.NewDense(n, d, nil)
	row := 0
	for _, s := range series {
		li, _ := s.Dims()
		x.Slice(row, row+li, 0, d).(*mat.Dense).Copy(s)
		row += li
	}
	return x, lengths, nil
}

// Labels returns the cluster id per sample row of the last fit.
func (t *TVKernelKMeans) Labels() []int { return t.labels }

// Centers returns the cluster centers in embedding space.
func (t *TVKernelKMeans) Centers() *mat.Dense { return t.centers }

// Embedding returns the converged orthonormal embedding H.
func (t *TVKernelKMeans) Embedding() *mat.Dense {
	if t.state == nil {
		return nil
	}
	return t.state.H
}

// Proxy returns the final TV proxy variable W.
func (t *TVKernelKMeans) Proxy() *mat.Dense {
	if t.state == nil {
		return nil
	}
	return t.state.W
}

// Dual returns the final scaled dual variable Y.
func (t *TVKernelKMeans) Dual() *mat.Dense {
	if t.state == nil {
		return nil
	}
	return t.state.Y
}

// KernelMatrix returns the fitted kernel matrix.
func (t *TVKernelKMeans) KernelMatrix() *mat.Dense { return t.gram }

// History returns the per-iteration convergence diagnostics of the last
// fit.
func (t *TVKernelKMeans) History() admm.History { return t.history }

// Lengths returns the length vector of the last fitted collection.
func (t *TVKernelKMeans) Lengths() []int { return t.lengths }
