// Package tvclust clusters a collection of time series with a total
// variation regularized kernel k-means. The series are embedded in kernel
// space through an orthonormal matrix H obtained by ADMM, alternating a
// Riemannian sub-problem on the Stiefel manifold with a soft-shrinkage
// proximal step over the block first-difference of H. A final k-means pass
// on the embedding produces the hard labels.
//
// Typical use:
//
//	est, err := tvclust.New(2,
//		tvclust.WithKernelName("rbf", map[string]float64{"gamma": 0.5}),
//		tvclust.WithRegParam(1e-2),
//	)
//	if err != nil { ... }
//	if err := est.Fit(series); err != nil { ... }
//	labels := est.Labels()
package tvclust
