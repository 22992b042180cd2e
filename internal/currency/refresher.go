package currency

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cardstock/pricing-engine/internal/metrics"
)

// Refresher periodically refreshes the Converter's rate from a
// Provider. A failed refresh keeps the previous rate.
type Refresher struct {
	cron      *cron.Cron
	provider  Provider
	converter *Converter
	timeout   time.Duration
	log       *slog.Logger
}

// NewRefresher creates a Refresher that fetches the rate on the given
// interval.
func NewRefresher(
	provider Provider,
	converter *Converter,
	interval time.Duration,
	log *slog.Logger,
) (*Refresher, error) {
	c := cron.New()

	r := &Refresher{
		cron:      c,
		provider:  provider,
		converter: converter,
		timeout:   30 * time.Second,
		log:       log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), r.refresh); err != nil {
		return nil, err
	}

	return r, nil
}

// Start begins the refresh schedule after one immediate refresh, so
// the converter does not sit at the identity rate for a full interval.
func (r *Refresher) Start() {
	r.refresh()
	r.cron.Start()
	r.log.Info("currency refresher started", "currency", r.converter.Currency())
}

// Stop gracefully stops the schedule, waiting for a running refresh.
func (r *Refresher) Stop() context.Context {
	r.log.Info("currency refresher stopping")
	return r.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (r *Refresher) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	rate, err := r.provider.Rate(ctx, r.converter.Currency())
	if err != nil {
		metrics.CurrencyRefreshFailuresTotal.Inc()
		r.log.Error("currency refresh failed, keeping previous rate",
			"currency", r.converter.Currency(),
			"rate", r.converter.Rate(),
			"error", err,
		)
		return
	}

	r.converter.SetRate(rate)
	r.log.Info("currency rate refreshed",
		"currency", r.converter.Currency(),
		"rate", rate,
	)
}
