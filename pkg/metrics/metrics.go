package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects card and wallet counters. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rolls         *prometheus.CounterVec
	luck          *prometheus.HistogramVec
	ledgerEntries *prometheus.CounterVec
	ledgerAmount  *prometheus.CounterVec
	generations   *prometheus.CounterVec
	commands      *prometheus.CounterVec
	taskDurations *prometheus.HistogramVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rolls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "affectlab",
				Subsystem: "cards",
				Name:      "rolls_total",
				Help:      "Cards rolled, by rarity and whether the boosted table was used",
			},
			[]string{"rarity", "boosted"},
		),
		luck: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "affectlab",
				Subsystem: "cards",
				Name:      "luck_score",
				Help:      "Distribution of rolled luck scores",
				Buckets:   []float64{20, 40, 60, 80, 95, 100},
			},
			[]string{"rarity"},
		),
		ledgerEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "affectlab",
				Subsystem: "wallet",
				Name:      "ledger_entries_total",
				Help:      "Ledger entries written, by type",
			},
			[]string{"type"},
		),
		ledgerAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "affectlab",
				Subsystem: "wallet",
				Name:      "candy_moved_total",
				Help:      "Absolute candy credited or debited, by direction",
			},
			[]string{"direction"},
		),
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "affectlab",
				Subsystem: "cards",
				Name:      "generations_total",
				Help:      "Generation requests, by outcome",
			},
			[]string{"outcome"},
		),
		commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "affectlab",
				Subsystem: "bot",
				Name:      "commands_total",
				Help:      "Bot interactions handled, by intent and outcome",
			},
			[]string{"intent", "outcome"},
		),
		taskDurations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "affectlab",
				Subsystem: "scheduler",
				Name:      "task_duration_seconds",
				Help:      "Scheduled task run time",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"task", "outcome"},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRoll records one rolled card
func (m *Metrics) ObserveRoll(rarity entities.Rarity, luck int, boosted bool) {
	if m == nil {
		return
	}
	b := "false"
	if boosted {
		b = "true"
	}
	m.rolls.WithLabelValues(string(rarity), b).Inc()
	m.luck.WithLabelValues(string(rarity)).Observe(float64(luck))
}

// ObserveLedgerEntry records one ledger write
func (m *Metrics) ObserveLedgerEntry(entryType entities.LedgerEntryType, amount int64) {
	if m == nil {
		return
	}
	m.ledgerEntries.WithLabelValues(string(entryType)).Inc()
	switch {
	case amount > 0:
		m.ledgerAmount.WithLabelValues("credit").Add(float64(amount))
	case amount < 0:
		m.ledgerAmount.WithLabelValues("debit").Add(float64(-amount))
	}
}

// ObserveGeneration records the outcome of a generation request
func (m *Metrics) ObserveGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

// ObserveCommand records a handled bot interaction
func (m *Metrics) ObserveCommand(intent, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(intent, outcome).Inc()
}

// ObserveTask records a scheduler task run
func (m *Metrics) ObserveTask(task string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.taskDurations.WithLabelValues(task, outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
