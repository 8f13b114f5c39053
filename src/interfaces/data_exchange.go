package interfaces

import "stock-forecaster/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger pushes completed forecast summaries to external listeners.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes a summary to connected listeners.
	Broadcast(summary models.MForecastSummary)
}
