package helpers

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type StockForecasterError struct {
	Message string
	Cause   error
}

func (e *StockForecasterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StockForecasterError) Unwrap() error {
	return e.Cause
}

// ValidationError reports malformed user input. Field names the offending input.
type ValidationError struct {
	StockForecasterError
	Field string
}

// DataUnavailableError reports that a provider had no usable history for Ticker.
type DataUnavailableError struct {
	StockForecasterError
	Ticker string
}

// ForecastError reports that Strategy could not fit or project the series.
type ForecastError struct {
	StockForecasterError
	Strategy string
}

type ConfigurationError struct{ StockForecasterError }
type DatabaseError struct{ StockForecasterError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		StockForecasterError: StockForecasterError{Message: fmt.Sprintf(format, args...)},
		Field:                field,
	}
}

func NewDataUnavailableError(ticker string, cause error) *DataUnavailableError {
	return &DataUnavailableError{
		StockForecasterError: StockForecasterError{
			Message: fmt.Sprintf("no data available for ticker %s", ticker),
			Cause:   cause,
		},
		Ticker: ticker,
	}
}

func NewForecastError(strategy string, cause error) *ForecastError {
	return &ForecastError{
		StockForecasterError: StockForecasterError{
			Message: fmt.Sprintf("forecast with strategy %q failed", strategy),
			Cause:   cause,
		},
		Strategy: strategy,
	}
}

func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{StockForecasterError{Message: fmt.Sprintf(format, args...)}}
}

func NewDatabaseError(message string, cause error) *DatabaseError {
	return &DatabaseError{StockForecasterError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// Kind is the coarse category transports map to status codes.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindDataUnavailable Kind = "data_unavailable"
	KindForecast        Kind = "forecast"
	KindInternal        Kind = "internal"
)

// ErrorKind classifies err by walking its wrap chain.
func ErrorKind(err error) Kind {
	var ve *ValidationError
	var de *DataUnavailableError
	var fe *ForecastError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &de):
		return KindDataUnavailable
	case errors.As(err, &fe):
		return KindForecast
	default:
		return KindInternal
	}
}
