package server

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/models"
	"stock-forecaster/src/pipeline"
	"stock-forecaster/src/presenter"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Request Parsing
// -----------------------------------------------------------------------------

func parseDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, helpers.NewValidationError("days", "forecast days must be an integer, got %q", raw)
	}
	if days < pipeline.MinHorizonDays || days > pipeline.MaxHorizonDays {
		return 0, helpers.NewValidationError("days", "forecast days must be between %d and %d, got %d",
			pipeline.MinHorizonDays, pipeline.MaxHorizonDays, days)
	}
	return days, nil
}

// -----------------------------------------------------------------------------

func parseFlag(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// -----------------------------------------------------------------------------
// Pages
// -----------------------------------------------------------------------------

type indexPage struct {
	Strategies      []string
	DefaultStrategy string
	DefaultDays     int
}

func (s *HTTPServer) getIndex(c *gin.Context) {
	names := make([]string, 0)
	for _, info := range s.Pipeline.Strategies() {
		names = append(names, info.Name)
	}
	c.HTML(http.StatusOK, "index.html", indexPage{
		Strategies:      names,
		DefaultStrategy: s.Config.Forecast.DefaultStrategy,
		DefaultDays:     s.Config.Forecast.HorizonDays,
	})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) postIndex(c *gin.Context) {
	days, err := parseDays(c.PostForm("days"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	outcome, err := s.Pipeline.Run(c.Request.Context(), c.PostForm("ticker"), models.MForecastRequest{
		Strategy:    c.PostForm("strategy"),
		HorizonDays: days,
		Options:     models.MPresentOptions{Format: models.FormatChart},
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenter.ForecastResponse(outcome.Ticker, outcome.Strategy, outcome.Presentation))
}

// -----------------------------------------------------------------------------

type dashboardPage struct {
	Ticker   string
	Strategy string
	Error    string
	Chart    template.HTML
	Summary  models.MSummary
	Horizon  int
}

func (s *HTTPServer) getDashboardPage(c *gin.Context) {
	page := dashboardPage{Ticker: strings.ToUpper(c.Param("ticker"))}

	days, err := parseDays(c.Query("days"))
	if err != nil {
		status, body := errorResponse(err)
		page.Error = body.Error
		c.HTML(status, "dashboard.html", page)
		return
	}

	outcome, err := s.Pipeline.Run(c.Request.Context(), c.Param("ticker"), models.MForecastRequest{
		Strategy:    c.Query("strategy"),
		HorizonDays: days,
		Options: models.MPresentOptions{
			Decomposition: true,
			Signals:       true,
			Format:        models.FormatHTML,
		},
	})
	if err != nil {
		status, body := errorResponse(err)
		page.Error = body.Error
		c.HTML(status, "dashboard.html", page)
		return
	}

	page.Ticker = outcome.Ticker
	page.Strategy = outcome.Strategy
	page.Horizon = outcome.Summary.HorizonDays
	page.Summary = presenter.RoundedSummary(outcome.Presentation.Summary)
	// The fragment is produced by html/template and already escaped.
	page.Chart = template.HTML(outcome.Presentation.HTML)
	c.HTML(http.StatusOK, "dashboard.html", page)
}

// -----------------------------------------------------------------------------
// JSON API
// -----------------------------------------------------------------------------

func (s *HTTPServer) getDashboardData(c *gin.Context) {
	days, err := parseDays(c.Query("days"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	outcome, err := s.Pipeline.Run(c.Request.Context(), c.Param("ticker"), models.MForecastRequest{
		Strategy:    c.Query("strategy"),
		HorizonDays: days,
		Options: models.MPresentOptions{
			Decomposition: parseFlag(c.DefaultQuery("decomposition", "true")),
			Signals:       parseFlag(c.DefaultQuery("signals", "true")),
			Format:        models.FormatDashboard,
		},
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome.Presentation.Dashboard)
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getForecast(c *gin.Context) {
	days, err := parseDays(c.Query("days"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", models.FormatChart))
	if format == models.FormatDashboard {
		s.respondError(c, helpers.NewValidationError("format", "use /api/dashboard_data for dashboard output"))
		return
	}

	outcome, err := s.Pipeline.Run(c.Request.Context(), c.Param("ticker"), models.MForecastRequest{
		Strategy:    c.Query("strategy"),
		HorizonDays: days,
		Options: models.MPresentOptions{
			Decomposition: parseFlag(c.Query("decomposition")),
			Signals:       parseFlag(c.Query("signals")),
			Format:        format,
		},
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	pres := outcome.Presentation
	switch pres.Format {
	case models.FormatHTML:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pres.HTML))
	case models.FormatSummary:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"ticker":   outcome.Ticker,
			"strategy": outcome.Strategy,
			"run_id":   outcome.RunID,
			"summary":  presenter.RoundedSummary(pres.Summary),
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"ticker":   outcome.Ticker,
			"strategy": outcome.Strategy,
			"run_id":   outcome.RunID,
			"plot":     pres.Chart,
			"summary":  presenter.RoundedSummary(pres.Summary),
			"signals":  pres.Signals,
		})
	}
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"strategies": s.Pipeline.Strategies(),
		"default":    s.Config.Forecast.DefaultStrategy,
	})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getRuns(c *gin.Context) {
	ticker, err := pipeline.NormalizeTicker(c.Param("ticker"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 500 {
			s.respondError(c, helpers.NewValidationError("limit", "limit must be between 1 and 500, got %q", raw))
			return
		}
	}

	if s.Store == nil {
		c.JSON(http.StatusOK, gin.H{"ticker": ticker, "runs": []models.MForecastRun{}})
		return
	}

	runs, err := s.Store.ListRuns(c.Request.Context(), ticker, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if runs == nil {
		runs = []models.MForecastRun{}
	}
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "runs": runs})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getRecent(c *gin.Context) {
	raw := c.Query("limit")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"summaries": presenter.RoundedForecastSummaries(s.Pipeline.RecentSummaries())})
		return
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		s.respondError(c, helpers.NewValidationError("limit", "limit must be a positive integer, got %q", raw))
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": presenter.RoundedForecastSummaries(s.Pipeline.Recent.GetLatest(limit))})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":             s.Config.Name,
		"provider":         s.Pipeline.Provider.Name(),
		"history_years":    s.Config.DataSource.HistoryYears,
		"default_strategy": s.Config.Forecast.DefaultStrategy,
		"horizon_days":     s.Config.Forecast.HorizonDays,
		"horizon_mode":     s.Config.Forecast.HorizonMode,
		"storage":          s.Config.Storage.DBType,
		"scheduler":        s.Config.Scheduler.Enabled,
	})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"connections": s.connections.Load(),
		"recent_runs": s.Pipeline.Recent.Len(),
	})
}
