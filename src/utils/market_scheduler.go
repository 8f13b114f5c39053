package utils

import (
	"sync"
	"time"

	"stock-forecaster/src/logger"
)

// MarketScheduler tracks the exchange calendars of a watchlist.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(symbols []string, l *logger.Logger) *MarketScheduler {
	ms := &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
	}
	ms.MapSymbolsToCalendars(symbols)
	return ms
}

// -----------------------------------------------------------------------------

// MapSymbolsToCalendars replaces the tracked symbols. Symbols sharing an
// exchange share one calendar.
func (ms *MarketScheduler) MapSymbolsToCalendars(symbols []string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.Calendars = make(map[string]*TradingCalendar)
	byMIC := make(map[string]*TradingCalendar)

	for _, symbol := range symbols {
		mic := MICForSymbol(symbol)
		cal, ok := byMIC[mic]
		if !ok {
			cal = GetCalendar(symbol)
			byMIC[mic] = cal
		}
		ms.Calendars[symbol] = cal
	}

	ms.Logger.Info("Mapped %d symbols to %d unique calendars.", len(symbols), len(byMIC))
}

// -----------------------------------------------------------------------------

// TradingSymbols returns the symbols whose exchange trades on day.
func (ms *MarketScheduler) TradingSymbols(day time.Time) []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var out []string
	for symbol, cal := range ms.Calendars {
		if cal.IsTradingDay(day) {
			out = append(out, symbol)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// AnyMarketOpen checks if ANY tracked markets are currently open
func (ms *MarketScheduler) AnyMarketOpen(now time.Time) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, cal := range ms.Calendars {
		if cal.IsOpenOnMinute(now) {
			return true
		}
	}
	return false
}
