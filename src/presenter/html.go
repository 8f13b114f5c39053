package presenter

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"regexp"

	"stock-forecaster/src/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var fragmentTmpl = template.Must(template.ParseFS(templateFS, "templates/fragment.html"))

var idUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// RenderFragment returns an HTML snippet that draws chart with Plotly.
func RenderFragment(ticker string, chart *models.MChart) (string, error) {
	figure, err := json.Marshal(chart)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart: %w", err)
	}

	var buf bytes.Buffer
	err = fragmentTmpl.Execute(&buf, struct {
		ID     string
		Ticker string
		Figure template.JS
	}{
		ID:     "chart-" + idUnsafe.ReplaceAllString(ticker, "_"),
		Ticker: ticker,
		Figure: template.JS(figure),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render chart fragment: %w", err)
	}
	return buf.String(), nil
}
