package engine

import "math"

// LinearFit is an ordinary least-squares fit y = Intercept + Slope*x.
type LinearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	RSE       float64 // residual standard error, 0 when N <= 2
	N         int
}

// FitLinear fits xs to ys. ok is false with fewer than two points or when all xs are equal.
func FitLinear(xs, ys []float64) (LinearFit, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return LinearFit{}, false
	}

	xMean, yMean := mean(xs), mean(ys)
	var sxx, sxy, syy float64
	for i := range xs {
		dx, dy := xs[i]-xMean, ys[i]-yMean
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return LinearFit{}, false
	}

	fit := LinearFit{N: n}
	fit.Slope = sxy / sxx
	fit.Intercept = yMean - fit.Slope*xMean

	var ssr float64
	for i := range xs {
		r := ys[i] - fit.Predict(xs[i])
		ssr += r * r
	}

	if syy == 0 {
		fit.RSquared = 1
	} else {
		fit.RSquared = 1 - ssr/syy
	}
	if n > 2 {
		fit.RSE = math.Sqrt(ssr / float64(n-2))
	}
	return fit, true
}

func (f LinearFit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stddev is the population standard deviation.
func stddev(vs []float64) float64 {
	m := mean(vs)
	var ss float64
	for _, v := range vs {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vs)))
}
