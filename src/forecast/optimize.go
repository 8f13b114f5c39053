package forecast

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"
)

const maxEvaluations = 2000

// minimize runs Nelder-Mead on an unconstrained objective. Callers map
// bounded parameters through logistic or tanh transforms.
func minimize(objective func(x []float64) float64, x0 []float64) ([]float64, error) {
	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{FuncEvaluations: maxEvaluations}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if result == nil {
		if err == nil {
			err = errors.New("optimizer returned no result")
		}
		return nil, err
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, errors.New("optimizer diverged")
	}
	return result.X, nil
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
