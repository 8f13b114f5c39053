package presenter

import (
	"fmt"

	"stock-forecaster/src/analysis"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
)

// Presenter turns a history and a forecast into chart, HTML, dashboard or
// summary output.
type Presenter struct {
	DecompositionPeriod int
	Logger              *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPresenter(cfg *models.MConfig) *Presenter {
	period := cfg.Forecast.DecompositionPeriod
	if period < 2 {
		period = analysis.DefaultDecompositionPeriod
	}
	return &Presenter{
		DecompositionPeriod: period,
		Logger:              logger.NewLogger(cfg, "Presenter"),
	}
}

// -----------------------------------------------------------------------------

// Present renders result in the format named by opts. An empty format
// means chart.
func (p *Presenter) Present(ticker string, history []models.MPricePoint, result *models.MForecastResult, opts models.MPresentOptions) (*models.MPresentation, error) {
	format := opts.Format
	if format == "" {
		format = models.FormatChart
	}

	out := &models.MPresentation{
		Format:  format,
		Summary: analysis.Summarize(history, result),
	}
	if opts.Signals {
		out.Signals = analysis.Signals(history, result.Fitted)
	}

	switch format {
	case models.FormatSummary:
		return out, nil

	case models.FormatChart:
		out.Chart = p.buildChart(history, result, opts, out.Signals, predictionStyle)

	case models.FormatHTML:
		out.Chart = p.buildChart(history, result, opts, out.Signals, predictionStyle)
		html, err := RenderFragment(ticker, out.Chart)
		if err != nil {
			return nil, err
		}
		out.HTML = html

	case models.FormatDashboard:
		out.Chart = p.buildChart(history, result, opts, out.Signals, dashboardStyle(ticker))
		out.Dashboard = buildDashboard(ticker, result.Strategy, history, result, out)

	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	return out, nil
}
