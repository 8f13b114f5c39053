package helpers

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", NewValidationError("ticker", "ticker is empty"), KindValidation},
		{"wrapped data", fmt.Errorf("pipeline: %w", NewDataUnavailableError("ZZZ", errors.New("404"))), KindDataUnavailable},
		{"forecast", NewForecastError("arima", errors.New("too short")), KindForecast},
		{"database", NewDatabaseError("insert", errors.New("locked")), KindInternal},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorKind(tc.err); got != tc.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("status 404")
	err := NewDataUnavailableError("ZZZZINVALID", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable through errors.Is")
	}
	want := "no data available for ticker ZZZZINVALID: status 404"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var de *DataUnavailableError
	if !errors.As(fmt.Errorf("wrap: %w", err), &de) || de.Ticker != "ZZZZINVALID" {
		t.Errorf("errors.As failed to recover ticker")
	}
}
