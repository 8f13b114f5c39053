package datasource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
)

// ProviderManager holds the configured market-data providers and routes
// fetches to the active one.
type ProviderManager struct {
	Providers map[string]interfaces.IMarketDataProvider
	Logger    *logger.Logger
	active    string
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewProviderManager(providers []interfaces.IMarketDataProvider, active string, log *logger.Logger) (*ProviderManager, error) {
	m := &ProviderManager{
		Providers: make(map[string]interfaces.IMarketDataProvider),
		Logger:    log,
	}

	for _, p := range providers {
		if err := m.AddProvider(p); err != nil {
			return nil, err
		}
	}

	if err := m.SetActive(active); err != nil {
		return nil, err
	}
	return m, nil
}

// -----------------------------------------------------------------------------

// AddProvider registers a provider under its Name.
func (m *ProviderManager) AddProvider(p interfaces.IMarketDataProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if _, exists := m.Providers[name]; exists {
		return fmt.Errorf("provider %s already exists", name)
	}
	m.Providers[name] = p
	m.Logger.Info("Added provider: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// SetActive selects the provider used by Fetch.
func (m *ProviderManager) SetActive(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Providers[name]; !ok {
		return helpers.NewConfigurationError("unknown data provider %q (have %s)", name, strings.Join(m.namesLocked(), ", "))
	}
	m.active = name
	return nil
}

// -----------------------------------------------------------------------------

func (m *ProviderManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.namesLocked()
}

func (m *ProviderManager) namesLocked() []string {
	names := make([]string, 0, len(m.Providers))
	for n := range m.Providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

func (m *ProviderManager) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// -----------------------------------------------------------------------------

// Fetch validates its arguments and delegates to the active provider.
func (m *ProviderManager) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]models.MPricePoint, error) {
	if err := ValidateFetch(ticker, start, end); err != nil {
		return nil, err
	}

	m.mu.RLock()
	p := m.Providers[m.active]
	m.mu.RUnlock()

	return p.Fetch(ctx, ticker, start, end)
}

// -----------------------------------------------------------------------------

// ValidateFetch checks the arguments every provider requires.
func ValidateFetch(ticker string, start, end time.Time) error {
	if strings.TrimSpace(ticker) == "" {
		return helpers.NewValidationError("ticker", "ticker must not be empty")
	}
	if !start.Before(end) {
		return helpers.NewValidationError("range", "start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}
