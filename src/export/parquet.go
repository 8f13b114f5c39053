package export

import (
	"fmt"

	"stock-forecaster/src/models"

	"github.com/parquet-go/parquet-go"
)

const (
	KindActual   = "actual"
	KindForecast = "forecast"
)

// Row is one exported observation.
type Row struct {
	Date  string  `parquet:"date"`
	Close float64 `parquet:"close"`
	Kind  string  `parquet:"kind,dict"`
}

// -----------------------------------------------------------------------------

// Rows flattens history and forecast into one date-ordered table.
func Rows(history []models.MPricePoint, result *models.MForecastResult) []Row {
	rows := make([]Row, 0, len(history)+len(result.Forecast))
	for _, p := range history {
		rows = append(rows, Row{Date: models.DateString(p.Date), Close: p.Close, Kind: KindActual})
	}
	for _, p := range result.Forecast {
		rows = append(rows, Row{Date: models.DateString(p.Date), Close: p.PredictedClose, Kind: KindForecast})
	}
	return rows
}

// -----------------------------------------------------------------------------

// WriteParquet writes the outcome's series to path.
func WriteParquet(path string, outcome *models.MForecastOutcome) (int, error) {
	rows := Rows(outcome.History, outcome.Result)
	if err := parquet.WriteFile(path, rows); err != nil {
		return 0, fmt.Errorf("failed to write parquet file %s: %w", path, err)
	}
	return len(rows), nil
}

// -----------------------------------------------------------------------------

func ReadParquet(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return rows, nil
}
