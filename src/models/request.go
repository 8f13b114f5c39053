package models

// MForecastRequest carries per-request pipeline options. Zero values
// fall back to configuration defaults.
type MForecastRequest struct {
	Strategy    string
	HorizonDays int
	Options     MPresentOptions
}

// MForecastOutcome is the full result of one pipeline run.
type MForecastOutcome struct {
	RunID        string
	Ticker       string
	Strategy     string
	History      []MPricePoint
	Result       *MForecastResult
	Presentation *MPresentation
	Summary      MForecastSummary
}
