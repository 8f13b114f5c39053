package forecast

import (
	"fmt"
	"sort"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/interfaces"
)

// Strategy names.
const (
	StrategyARIMA       = "arima"
	StrategyHoltWinters = "holt_winters"
	StrategyProphet     = "prophet"
	StrategyLinear      = "linear"
)

const DefaultSeasonalPeriod = 7

// StrategyInfo describes a registered strategy.
type StrategyInfo struct {
	Name       string `json:"name"`
	MinHistory int    `json:"min_history"`
}

// Registry maps strategy names to implementations.
type Registry struct {
	strategies map[string]interfaces.IForecaster
}

// -----------------------------------------------------------------------------

// NewRegistry registers the built-in strategies. seasonalPeriod applies to
// Holt-Winters.
func NewRegistry(seasonalPeriod int) *Registry {
	r := &Registry{strategies: make(map[string]interfaces.IForecaster)}
	r.Register(NewARIMA())
	r.Register(NewHoltWinters(seasonalPeriod))
	r.Register(NewProphet())
	r.Register(NewLinear())
	return r
}

// -----------------------------------------------------------------------------

func (r *Registry) Register(f interfaces.IForecaster) {
	r.strategies[f.Name()] = f
}

// -----------------------------------------------------------------------------

func (r *Registry) Get(name string) (interfaces.IForecaster, error) {
	f, ok := r.strategies[name]
	if !ok {
		return nil, helpers.NewForecastError(name, fmt.Errorf("unknown strategy %q", name))
	}
	return f, nil
}

// -----------------------------------------------------------------------------

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.strategies[name]
	return ok
}

// -----------------------------------------------------------------------------

// List returns the registered strategies sorted by name.
func (r *Registry) List() []StrategyInfo {
	out := make([]StrategyInfo, 0, len(r.strategies))
	for name, f := range r.strategies {
		out = append(out, StrategyInfo{Name: name, MinHistory: f.MinHistory()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
