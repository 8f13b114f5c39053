package presenter

import (
	"fmt"
	"math"

	"stock-forecaster/src/analysis"
	"stock-forecaster/src/models"
)

// chartStyle holds the per-format colours and titles.
type chartStyle struct {
	Title         string
	ActualColor   string
	ForecastColor string
}

var predictionStyle = chartStyle{
	Title:         "Stock Price Prediction",
	ActualColor:   "#4299E1",
	ForecastColor: "#F56565",
}

func dashboardStyle(ticker string) chartStyle {
	return chartStyle{
		Title:         fmt.Sprintf("%s Stock Price Forecast", ticker),
		ActualColor:   "#17BECF",
		ForecastColor: "#7F7F7F",
	}
}

const (
	trendColor    = "#48BB78"
	seasonalColor = "#ED8936"
	residualColor = "#A0AEC0"
	signalColor   = "#ECC94B"
	panelGap      = 0.04
)

// panel is one stacked subplot. The price panel has weight 2.
type panel struct {
	title  string
	weight float64
}

// -----------------------------------------------------------------------------

func (p *Presenter) buildChart(history []models.MPricePoint, result *models.MForecastResult, opts models.MPresentOptions, signals []models.MSignalPoint, style chartStyle) *models.MChart {
	histX := make([]string, len(history))
	for i, pt := range history {
		histX[i] = models.DateString(pt.Date)
	}
	foreX := make([]string, len(result.Forecast))
	foreY := make([]float64, len(result.Forecast))
	for i, pt := range result.Forecast {
		foreX[i] = models.DateString(pt.Date)
		foreY[i] = pt.PredictedClose
	}

	chart := &models.MChart{
		Data: []models.MTrace{
			lineTrace("Actual Price", histX, models.Closes(history), style.ActualColor, ""),
			lineTrace("Forecasted Price", foreX, foreY, style.ForecastColor, ""),
		},
		Layout: map[string]interface{}{
			"title":    map[string]interface{}{"text": style.Title},
			"xaxis":    map[string]interface{}{"title": map[string]interface{}{"text": "Date"}},
			"template": "plotly_dark",
			"height":   500,
		},
	}

	panels := []panel{{title: "Price", weight: 2}}

	if opts.Decomposition {
		if d, ok := analysis.Decompose(models.Closes(history), p.DecompositionPeriod); ok {
			for _, c := range []struct {
				name   string
				values []float64
				color  string
			}{
				{"Trend", d.Trend, trendColor},
				{"Seasonal", d.Seasonal, seasonalColor},
				{"Residual", d.Residual, residualColor},
			} {
				panels = append(panels, panel{title: c.name, weight: 1})
				x, y := definedPoints(histX, c.values)
				chart.Data = append(chart.Data, lineTrace(c.name, x, y, c.color, axisRef(len(panels))))
			}
		} else {
			chart.Layout["annotations"] = []map[string]interface{}{{
				"text":      fmt.Sprintf("Decomposition needs at least %d observations", 2*p.DecompositionPeriod),
				"showarrow": false,
				"xref":      "paper",
				"yref":      "paper",
				"x":         0,
				"y":         1.08,
			}}
		}
	}

	if len(signals) > 0 {
		panels = append(panels, panel{title: "Signal", weight: 1})
		x := make([]string, len(signals))
		y := make([]float64, len(signals))
		for i, s := range signals {
			x[i] = s.Date
			y[i] = float64(s.Signal)
		}
		tr := lineTrace("Signal", x, y, signalColor, axisRef(len(panels)))
		tr.Line.Shape = "hv"
		chart.Data = append(chart.Data, tr)
	}

	layoutPanels(chart.Layout, panels)
	return chart
}

// -----------------------------------------------------------------------------

func lineTrace(name string, x []string, y []float64, color, yaxis string) models.MTrace {
	return models.MTrace{
		X:     x,
		Y:     y,
		Name:  name,
		Type:  "scatter",
		Mode:  "lines",
		Line:  models.MLine{Color: color},
		YAxis: yaxis,
	}
}

// axisRef names the y axis of the i-th panel (1-based). The first panel
// uses plotly's default axis.
func axisRef(i int) string {
	if i <= 1 {
		return ""
	}
	return fmt.Sprintf("y%d", i)
}

// layoutPanels stacks the panels top to bottom and sets each y-axis domain.
func layoutPanels(layout map[string]interface{}, panels []panel) {
	if len(panels) == 1 {
		layout["yaxis"] = map[string]interface{}{"title": map[string]interface{}{"text": "Price"}}
		return
	}

	total := 0.0
	for _, p := range panels {
		total += p.weight
	}
	usable := 1 - panelGap*float64(len(panels)-1)

	top := 1.0
	for i, p := range panels {
		height := usable * p.weight / total
		bottom := top - height
		if bottom < 0 {
			bottom = 0
		}
		axis := map[string]interface{}{
			"title":  map[string]interface{}{"text": p.title},
			"domain": []float64{bottom, top},
		}
		key := "yaxis"
		if i > 0 {
			key = fmt.Sprintf("yaxis%d", i+1)
			axis["anchor"] = "x"
		}
		layout[key] = axis
		top = bottom - panelGap
	}
	layout["height"] = 500 + 200*(len(panels)-1)
}

// definedPoints drops NaN positions so the trace stays JSON-encodable.
func definedPoints(x []string, y []float64) ([]string, []float64) {
	outX := make([]string, 0, len(y))
	outY := make([]float64, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		outX = append(outX, x[i])
		outY = append(outY, v)
	}
	return outX, outY
}
