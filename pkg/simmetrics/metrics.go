// Package simmetrics exports a completed run's counters through the
// standard Prometheus client library, the way the teacher's
// pkg/monitoring/prometheus package talks to Prometheus — except a
// simulation run has no wall-clock-scraped server to query, so instead of
// a query client this package is the other half of that conversation: a
// local Registry populated once after Run returns, dumped to the
// Prometheus text exposition format for a caller to write to disk or hand
// to a real scrape target.
package simmetrics

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/jihwankim/matrixsim/pkg/sim"
)

// Snapshot registers outcome's counters, plus one matrixsim_process_bytes_sent
// gauge per process in table, on a freshly built Registry (SPEC_FULL.md
// §4.17). Populated once, after Run returns — there is no live scrape loop,
// since virtual time has no wall-clock relationship. scenarioName labels
// every series so multiple scenarios' exports can be told apart after
// concatenation.
func Snapshot(scenarioName string, outcome sim.RunOutcome, table *sim.ProcessTable) *prometheus.Registry {
	labels := prometheus.Labels{"scenario": scenarioName}
	registry := prometheus.NewRegistry()

	finalClock := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "matrixsim_final_clock_jiffies",
		Help:        "Virtual time at which the run halted.",
		ConstLabels: labels,
	})
	eventsDispatched := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "matrixsim_events_dispatched_total",
		Help:        "Total events dispatched over the run.",
		ConstLabels: labels,
	})
	deliverCount := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "matrixsim_deliver_total",
		Help:        "Total Deliver events dispatched.",
		ConstLabels: labels,
	})
	timerFireCount := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "matrixsim_timer_fire_total",
		Help:        "Total live TimerFire events dispatched.",
		ConstLabels: labels,
	})
	droppedTimerCount := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "matrixsim_timer_dropped_total",
		Help:        "Total TimerFire events dropped as retired.",
		ConstLabels: labels,
	})
	haltReason := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "matrixsim_halt_reason",
		Help: "1 for the halt reason the run actually ended with, 0 otherwise.",
	}, []string{"scenario", "reason"})
	processBytesSent := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "matrixsim_process_bytes_sent",
		Help:        "Total virtual-size bytes a process emitted over the run.",
		ConstLabels: labels,
	}, []string{"pid"})

	registry.MustRegister(finalClock, eventsDispatched, deliverCount, timerFireCount, droppedTimerCount, haltReason, processBytesSent)

	finalClock.Set(float64(outcome.FinalClock))
	eventsDispatched.Add(float64(outcome.EventsDispatched))
	deliverCount.Add(float64(outcome.DeliverCount))
	timerFireCount.Add(float64(outcome.TimerFireCount))
	droppedTimerCount.Add(float64(outcome.DroppedTimerCount))
	for _, reason := range []sim.HaltReason{sim.QueueDrained, sim.BudgetExceeded} {
		v := 0.0
		if reason == outcome.HaltReason {
			v = 1.0
		}
		haltReason.WithLabelValues(scenarioName, reason.String()).Set(v)
	}
	if table != nil {
		for pid := sim.ProcessId(0); int(pid) < table.Len(); pid++ {
			processBytesSent.WithLabelValues(strconv.Itoa(int(pid))).Set(float64(table.BytesSent(pid)))
		}
	}

	return registry
}

// WriteText gathers every metric registered on registry and renders it in
// the Prometheus text exposition format to w, for a driver to save
// alongside the JSON run report (SPEC_FULL.md §4.17).
func WriteText(registry *prometheus.Registry, w io.Writer) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("simmetrics: gather: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("simmetrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Export is a convenience wrapper around WriteText that returns the
// rendered text directly.
func Export(registry *prometheus.Registry) (string, error) {
	var buf bytes.Buffer
	if err := WriteText(registry, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
