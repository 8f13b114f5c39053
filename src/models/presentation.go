package models

// Output formats understood by the presenter.
const (
	FormatChart     = "chart"
	FormatHTML      = "html"
	FormatSummary   = "summary"
	FormatDashboard = "dashboard"
)

// MPresentOptions toggles presenter augmentations.
type MPresentOptions struct {
	Decomposition bool   `json:"decomposition"`
	Signals       bool   `json:"signals"`
	Format        string `json:"format"`
}

// MTrace is one plotly series.
type MTrace struct {
	X     []string  `json:"x"`
	Y     []float64 `json:"y"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Mode  string    `json:"mode"`
	Line  MLine     `json:"line"`
	XAxis string    `json:"xaxis,omitempty"`
	YAxis string    `json:"yaxis,omitempty"`
}

type MLine struct {
	Color string `json:"color"`
	Shape string `json:"shape,omitempty"`
}

// MChart is a plotly figure: traces plus free-form layout.
type MChart struct {
	Data   []MTrace               `json:"data"`
	Layout map[string]interface{} `json:"layout"`
}

// MSummary holds the unrounded headline numbers.
type MSummary struct {
	LatestPrice     float64 `json:"latest_price"`
	PreviousClose   float64 `json:"previous_close"`
	PriceChange     float64 `json:"price_change"`
	ForecastPrice   float64 `json:"forecast_price"`
	TrendPercentage float64 `json:"trend_percentage"`
}

// MSignalPoint is a buy (+1), sell (-1) or hold (0) marker for a historical date.
type MSignalPoint struct {
	Date   string `json:"date"`
	Signal int    `json:"signal"`
}

// MDecomposition is an additive seasonal decomposition. NaN marks
// positions where the centred trend is undefined.
type MDecomposition struct {
	Period   int       `json:"period"`
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
}

// MPresentation is the presenter output; which fields are set depends on the format.
type MPresentation struct {
	Format    string          `json:"format"`
	Chart     *MChart         `json:"chart,omitempty"`
	HTML      string          `json:"html,omitempty"`
	Summary   MSummary        `json:"summary"`
	Signals   []MSignalPoint  `json:"signals,omitempty"`
	Dashboard *MDashboardData `json:"dashboard,omitempty"`
}
