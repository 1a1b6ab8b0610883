package tvclust

import (
	"fmt"

	"github.com/ImBeji/TV-Clustering/kernel"
	"github.com/ImBeji/TV-Clustering/stiefel"
)

// Option configures an estimator at construction time. Invalid values
// fail New with a descriptive error.
type Option func(*TVKernelKMeans) error

// WithKernel selects the similarity function.
func WithKernel(k kernel.Kernel) Option {
	return func(t *TVKernelKMeans) error {
		if k == nil {
			return fmt.Errorf("tvclust: nil kernel")
		}
		t.kern = k
		return nil
	}
}

// WithKernelName resolves a kernel by name and hyperparameter map, e.g.
// "rbf" with {"gamma": 0.5}.
func WithKernelName(name string, params map[string]float64) Option {
	return func(t *TVKernelKMeans) error {
		k, err := kernel.Parse(name, params)
		if err != nil {
			return err
		}
		t.kern = k
		return nil
	}
}

// WithRegParam sets the TV penalty weight lambda.
func WithRegParam(lambda float64) Option {
	return func(t *TVKernelKMeans) error {
		if lambda <= 0 {
			return fmt.Errorf("tvclust: reg param must be positive, got %g", lambda)
		}
		t.lambda = lambda
		return nil
	}
}

// WithRho sets the ADMM penalty parameter, held constant across
// iterations.
func WithRho(rho float64) Option {
	return func(t *TVKernelKMeans) error {
		if rho <= 0 {
			return fmt.Errorf("tvclust: rho must be positive, got %g", rho)
		}
		t.rho = rho
		return nil
	}
}

// WithMaxIter caps both the outer ADMM loop and the discretization pass.
func WithMaxIter(n int) Option {
	return func(t *TVKernelKMeans) error {
		if n < 1 {
			return fmt.Errorf("tvclust: max iter must be at least 1, got %d", n)
		}
		t.maxIter = n
		return nil
	}
}

// WithRestarts sets the number of k-means restarts in the discretization
// pass.
func WithRestarts(n int) Option {
	return func(t *TVKernelKMeans) error {
		if n < 1 {
			return fmt.Errorf("tvclust: restarts must be at least 1, got %d", n)
		}
		t.restarts = n
		return nil
	}
}

// Init selects the embedding initialization strategy.
type Init int

const (
	// InitSpectral starts H from the leading left singular vectors of the
	// stacked sample matrix.
	InitSpectral Init = iota
	// InitZeros starts H from the all-zero matrix. The zero matrix is not
	// itself orthonormal; the manifold solver retracts it onto the
	// Stiefel manifold (yielding the leading canonical basis columns)
	// before its first iteration.
	InitZeros
)

// WithInit selects the H initialization.
func WithInit(init Init) Option {
	return func(t *TVKernelKMeans) error {
		if init != InitSpectral && init != InitZeros {
			return fmt.Errorf("tvclust: unknown init selection %d", init)
		}
		t.init = init
		return nil
	}
}

// WithVerbose sets the progress verbosity (0 silent, 1 one line per ADMM
// iteration).
func WithVerbose(v int) Option {
	return func(t *TVKernelKMeans) error {
		t.verbose = v
		return nil
	}
}

// WithSeed fixes the random seed of the discretization pass.
func WithSeed(seed uint64) Option {
	return func(t *TVKernelKMeans) error {
		t.seed = seed
		return nil
	}
}

// WithSolver replaces the manifold sub-solver. Mostly useful in tests.
func WithSolver(s stiefel.Minimizer) Option {
	return func(t *TVKernelKMeans) error {
		if s == nil {
			return fmt.Errorf("tvclust: nil solver")
		}
		t.solver = s
		return nil
	}
}
