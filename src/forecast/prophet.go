package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Prophet is an additive decomposable regression in the style of
// Facebook Prophet: a piecewise-linear trend with changepoints plus
// Fourier seasonality, solved as ridge-regularised least squares.
type Prophet struct {
	Changepoints     int
	ChangepointRange float64
	WeeklyOrder      int
	YearlyOrder      int
	ChangepointRidge float64
	SeasonalRidge    float64
}

func NewProphet() *Prophet {
	return &Prophet{
		Changepoints:     25,
		ChangepointRange: 0.8,
		WeeklyOrder:      3,
		YearlyOrder:      10,
		ChangepointRidge: 10,
		SeasonalRidge:    1,
	}
}

func (p *Prophet) Name() string    { return StrategyProphet }
func (p *Prophet) MinHistory() int { return 14 }

// -----------------------------------------------------------------------------

func (p *Prophet) Fit(closes []float64, dates []time.Time, horizon int) ([]float64, []float64, error) {
	n := len(closes)
	if len(dates) != n+horizon {
		return nil, nil, fmt.Errorf("expected %d dates, got %d", n+horizon, len(dates))
	}

	origin := dates[0]
	span := daysBetween(origin, dates[n-1])
	if span <= 0 {
		return nil, nil, errors.New("history spans less than one day")
	}

	design := p.newDesign(dates[:n], origin, span)

	scale := floats.Max(closes)
	if scale <= 0 {
		return nil, nil, errors.New("closes must be positive")
	}
	y := make([]float64, n)
	for i, c := range closes {
		y[i] = c / scale
	}

	beta, err := design.solve(dates[:n], y)
	if err != nil {
		return nil, nil, err
	}

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = design.predict(dates[i], beta) * scale
	}
	forecast := make([]float64, horizon)
	for h := range forecast {
		forecast[h] = design.predict(dates[n+h], beta) * scale
	}
	return forecast, fitted, nil
}

// -----------------------------------------------------------------------------

// prophetDesign builds regression rows for arbitrary dates. Time is
// scaled so the history covers [0, 1].
type prophetDesign struct {
	origin       time.Time
	span         float64
	changepoints []float64
	weekly       int
	yearly       int
	ridgeCP      float64
	ridgeSeason  float64
}

func (p *Prophet) newDesign(history []time.Time, origin time.Time, span float64) *prophetDesign {
	d := &prophetDesign{
		origin:      origin,
		span:        span,
		weekly:      p.WeeklyOrder,
		ridgeCP:     p.ChangepointRidge,
		ridgeSeason: p.SeasonalRidge,
	}
	if span >= 2*365 {
		d.yearly = p.YearlyOrder
	}

	// Changepoints sit on observed dates within the leading part of the history.
	k := p.Changepoints
	limit := int(math.Floor(float64(len(history)-1) * p.ChangepointRange))
	if k > limit {
		k = limit
	}
	for j := 1; j <= k; j++ {
		idx := int(math.Round(float64(j) * float64(limit) / float64(k+1)))
		d.changepoints = append(d.changepoints, d.scaled(history[idx]))
	}
	return d
}

func (d *prophetDesign) scaled(t time.Time) float64 {
	return daysBetween(d.origin, t) / d.span
}

func (d *prophetDesign) width() int {
	return 2 + len(d.changepoints) + 2*d.weekly + 2*d.yearly
}

// row fills the regressors for t into out.
func (d *prophetDesign) row(t time.Time, out []float64) {
	s := d.scaled(t)
	out[0] = 1
	out[1] = s
	col := 2
	for _, cp := range d.changepoints {
		out[col] = math.Max(0, s-cp)
		col++
	}
	// Absolute day number keeps the weekly phase tied to the weekday.
	abs := float64(t.Unix()) / 86400
	col = fourier(out, col, abs, 7, d.weekly)
	fourier(out, col, abs, 365.25, d.yearly)
}

func fourier(out []float64, col int, t, period float64, order int) int {
	for k := 1; k <= order; k++ {
		arg := 2 * math.Pi * float64(k) * t / period
		out[col] = math.Sin(arg)
		out[col+1] = math.Cos(arg)
		col += 2
	}
	return col
}

// -----------------------------------------------------------------------------

// solve minimises ||Xb - y||^2 + b'Λb where Λ penalises the changepoint
// and seasonal coefficients.
func (d *prophetDesign) solve(dates []time.Time, y []float64) ([]float64, error) {
	n, w := len(dates), d.width()

	x := mat.NewDense(n, w, nil)
	row := make([]float64, w)
	for i, t := range dates {
		d.row(t, row)
		x.SetRow(i, row)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j < w; j++ {
		penalty := 1e-8
		switch {
		case j >= 2 && j < 2+len(d.changepoints):
			penalty = d.ridgeCP
		case j >= 2+len(d.changepoints):
			penalty = d.ridgeSeason
		}
		xtx.Set(j, j, xtx.At(j, j)+penalty)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(n, y))

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("least squares solve failed: %w", err)
		}
	}
	return beta.RawVector().Data, nil
}

func (d *prophetDesign) predict(t time.Time, beta []float64) float64 {
	row := make([]float64, len(beta))
	d.row(t, row)
	return floats.Dot(row, beta)
}

// -----------------------------------------------------------------------------

func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}
