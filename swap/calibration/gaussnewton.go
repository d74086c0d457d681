package calibration

import (
	"fmt"
	"math"

	"github.com/meenmo/mcurve/swap/bootstrap"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const (
	// anchorPenalty pins node 0 in the normal equations.
	anchorPenalty = 1e12
	// minPivot is the smallest pivot Gauss-Jordan elimination will divide by.
	minPivot = 1e-18
	// improvementTol is the smallest drop in ||r||² that counts as progress.
	improvementTol = 1e-14
	// lineSearchSteps multipliers are tried per iteration: 1, 1/2, ..., 1/32.
	lineSearchSteps = 6

	// MaxIterationsSentinel is the iteration count reported for runs that hit the cap.
	MaxIterationsSentinel = 999
)

// Status tells how a Gauss-Newton run ended.
type Status int

const (
	// Converged means a line search found no improvement.
	Converged Status = iota + 1
	// MaxIterationsReached means the iteration budget ran out first.
	MaxIterationsReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max_iterations_reached"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Options configures GaussNewton.
type Options struct {
	MaxIterations int
	// Tol is accepted from configuration but not used by the iteration.
	Tol          float64
	LambdaRidge  float64
	LambdaSmooth float64
	// Verbose logs per-iteration diagnostics at Info instead of Debug.
	Verbose   bool
	Bootstrap bootstrap.Options
}

// DefaultOptions are the engine defaults.
var DefaultOptions = Options{
	MaxIterations: 15,
	Tol:           1e-12,
	LambdaRidge:   1e-10,
	LambdaSmooth:  1e-6,
	Bootstrap:     bootstrap.DefaultOptions,
}

// Result is the outcome of a Gauss-Newton run.
type Result struct {
	Theta      []float64
	FinalNorm  float64
	Iterations int
	Status     Status
}

// ReportedIterations is Iterations for converged runs and MaxIterationsSentinel otherwise.
func (r Result) ReportedIterations() int {
	if r.Status == MaxIterationsReached {
		return MaxIterationsSentinel
	}
	return r.Iterations
}

// GaussNewton refines the discount nodes theta0 to minimise the squared residuals of m.
//
// Each iteration solves the regularized normal equations (see SolveStep) and line
// searches over multipliers 1, 1/2, ..., 1/32, keeping the candidate with the smallest
// ||r||². Candidates whose curves fail to bootstrap are skipped. The run stops as
// Converged when no candidate improves ||r||² by more than 1e-14. Node 0 is never moved.
func GaussNewton(logger *zap.Logger, m MarketData, theta0 []float64, opts Options) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logf := logger.Debug
	if opts.Verbose {
		logf = logger.Info
	}

	theta := append([]float64(nil), theta0...)
	for it := 0; it < opts.MaxIterations; it++ {
		mc, err := BuildAll(m, theta, opts.Bootstrap)
		if err != nil {
			return Result{}, fmt.Errorf("gauss-newton iteration %d: %w", it, err)
		}
		j, res := DiscountJacobian(m, mc)
		norm := res.SquaredNorm()

		dx := SolveStep(j, res.R, opts)
		if len(dx) != len(theta) {
			dx = make([]float64, len(theta))
		}

		best, bestTheta, bestAlpha := norm, theta, 0.0
		alpha := 1.0
		for ls := 0; ls < lineSearchSteps; ls++ {
			cand := make([]float64, len(theta))
			for k := range theta {
				cand[k] = theta[k] + alpha*dx[k]
			}
			mc2, err := BuildAll(m, cand, opts.Bootstrap)
			if err != nil {
				logger.Debug("line search candidate skipped",
					zap.Int("iteration", it),
					zap.Float64("step", alpha),
					zap.Error(err),
				)
			} else if n2 := ComputeResiduals(m, mc2).SquaredNorm(); n2 < best {
				best, bestTheta, bestAlpha = n2, cand, alpha
			}
			alpha *= 0.5
		}

		logf("gauss-newton iteration",
			zap.Int("iteration", it),
			zap.Float64("norm_sq", norm),
			zap.Float64("best_norm_sq", best),
			zap.Float64("step", bestAlpha),
		)

		if math.Abs(best-norm) < improvementTol {
			logf("gauss-newton converged", zap.Int("iterations", it+1), zap.Float64("norm_sq", best))
			return Result{Theta: bestTheta, FinalNorm: best, Iterations: it + 1, Status: Converged}, nil
		}
		theta = bestTheta
	}

	mc, err := BuildAll(m, theta, opts.Bootstrap)
	if err != nil {
		return Result{}, fmt.Errorf("gauss-newton final evaluation: %w", err)
	}
	norm := ComputeResiduals(m, mc).SquaredNorm()
	logger.Warn("gauss-newton reached iteration cap",
		zap.Int("max_iterations", opts.MaxIterations),
		zap.Float64("norm_sq", norm),
	)
	return Result{Theta: theta, FinalNorm: norm, Iterations: opts.MaxIterations, Status: MaxIterationsReached}, nil
}

// SolveStep solves (JᵗJ + λ_ridge·I' + λ_smooth·LᵗL) Δ = -Jᵗr for one Gauss-Newton step.
//
// I' is the identity without its (0,0) entry and L is SecondDifference. Node 0 is pinned
// with a 1e12 diagonal penalty and a zero right-hand side, and Δ[0] is returned as exactly 0.
func SolveStep(j *mat.Dense, r []float64, opts Options) []float64 {
	rows, n := j.Dims()
	if n == 0 {
		return nil
	}

	var a mat.Dense
	a.Mul(j.T(), j)
	for i := 1; i < n; i++ {
		a.Set(i, i, a.At(i, i)+opts.LambdaRidge)
	}
	if l := SecondDifference(n); l != nil && opts.LambdaSmooth != 0 {
		var ltl mat.Dense
		ltl.Mul(l.T(), l)
		ltl.Scale(opts.LambdaSmooth, &ltl)
		a.Add(&a, &ltl)
	}

	g := mat.NewVecDense(n, nil)
	if rows > 0 {
		g.MulVec(j.T(), mat.NewVecDense(rows, append([]float64(nil), r...)))
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = -g.AtVec(i)
	}

	a.Set(0, 0, a.At(0, 0)+anchorPenalty)
	b[0] = 0

	dx := gaussJordan(&a, b)
	dx[0] = 0
	return dx
}

// gaussJordan solves a·x = b with partial pivoting, overwriting neither argument.
// Columns whose best pivot is below minPivot are left uneliminated.
func gaussJordan(a *mat.Dense, b []float64) []float64 {
	n, _ := a.Dims()
	m := mat.DenseCopyOf(a)
	x := append([]float64(nil), b...)

	for k := 0; k < n; k++ {
		piv := k
		for i := k + 1; i < n; i++ {
			if math.Abs(m.At(i, k)) > math.Abs(m.At(piv, k)) {
				piv = i
			}
		}
		if math.Abs(m.At(piv, k)) < minPivot {
			continue
		}
		if piv != k {
			rk, rp := m.RawRowView(k), m.RawRowView(piv)
			for c := range rk {
				rk[c], rp[c] = rp[c], rk[c]
			}
			x[k], x[piv] = x[piv], x[k]
		}

		rk := m.RawRowView(k)
		diag := rk[k]
		for c := k; c < n; c++ {
			rk[c] /= diag
		}
		x[k] /= diag

		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			ri := m.RawRowView(i)
			f := ri[k]
			if f == 0 {
				continue
			}
			for c := k; c < n; c++ {
				ri[c] -= f * rk[c]
			}
			x[i] -= f * x[k]
		}
	}
	return x
}
