package interfaces

import (
	"context"

	"stock-forecaster/src/models"
)

// IForecastRunner runs one fetch, forecast and present cycle for a ticker.
type IForecastRunner interface {
	Run(ctx context.Context, rawTicker string, req models.MForecastRequest) (*models.MForecastOutcome, error)
}
