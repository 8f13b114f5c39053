package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/utils"

	"github.com/robfig/cron/v3"
)

// Refresher re-runs the forecast pipeline for the watchlist on a cron
// schedule. Tickers whose exchange is closed that day are skipped.
type Refresher struct {
	Config  *models.MConfig
	Runner  interfaces.IForecastRunner
	Markets *utils.MarketScheduler
	Logger  *logger.Logger

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	now    func() time.Time
}

// -----------------------------------------------------------------------------

// NewRefresher parses the cron expression (six fields, with seconds) and
// maps the watchlist to exchange calendars.
func NewRefresher(cfg *models.MConfig, runner interfaces.IForecastRunner) (*Refresher, error) {
	log := logger.NewLogger(cfg, "Refresher")

	r := &Refresher{
		Config:  cfg,
		Runner:  runner,
		Markets: utils.NewMarketScheduler(cfg.Scheduler.Watchlist, log),
		Logger:  log,
		now:     time.Now,
	}

	cl := cronLogger{log}
	r.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := r.cron.AddFunc(cfg.Scheduler.Cron, r.tick); err != nil {
		return nil, helpers.NewConfigurationError("invalid scheduler cron %q: %v", cfg.Scheduler.Cron, err)
	}
	return r, nil
}

// -----------------------------------------------------------------------------

// Start runs the schedule in the background until Stop or ctx is done.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.cron.Start()
	r.Logger.Info("Watchlist refresher started (%s, %d tickers)", r.Config.Scheduler.Cron, len(r.Config.Scheduler.Watchlist))
}

// -----------------------------------------------------------------------------

// Stop cancels a running refresh and waits for it to return.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	<-r.cron.Stop().Done()
	r.Logger.Info("Watchlist refresher stopped")
}

// -----------------------------------------------------------------------------

func (r *Refresher) tick() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	r.RunOnce(ctx)
}

// -----------------------------------------------------------------------------

// RunOnce forecasts every watchlist ticker whose exchange trades today,
// one at a time, and returns how many succeeded. Failures are logged.
func (r *Refresher) RunOnce(ctx context.Context) int {
	now := r.now()
	tickers := r.Markets.TradingSymbols(now)
	sort.Strings(tickers)

	if len(tickers) == 0 {
		r.Logger.Debug("No watchlist market trades today, skipping refresh")
		return 0
	}

	if r.Markets.AnyMarketOpen(now) {
		r.Logger.Warning("A watchlist market is still open, latest closes may be intraday")
	}

	ok := 0
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			r.Logger.Warning("Refresh cancelled after %d/%d tickers", ok, len(tickers))
			break
		}
		if _, err := r.Runner.Run(ctx, ticker, models.MForecastRequest{}); err != nil {
			r.Logger.Warning("Refresh of %s failed: %v", ticker, err)
			continue
		}
		ok++
	}

	r.Logger.Info("Refreshed %d/%d watchlist tickers", ok, len(tickers))
	return ok
}

// -----------------------------------------------------------------------------
// cron.Logger adapter
// -----------------------------------------------------------------------------

type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug("cron: %s %s", msg, formatKV(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error("cron: %s: %v %s", msg, err, formatKV(keysAndValues))
}

func formatKV(kv []interface{}) string {
	out := ""
	for i := 0; i+1 < len(kv); i += 2 {
		out += fmt.Sprintf("%v=%v ", kv[i], kv[i+1])
	}
	return out
}
