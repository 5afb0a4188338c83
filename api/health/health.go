// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

// Package health runs registered checks on a fixed cadence and reports the
// most recent results over HTTP.
package health

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Tommytrg/randomness-registry/utils/logging"
)

var errDuplicateCheck = errors.New("duplicated check")

// Checker reports some component's health. The returned details are
// surfaced verbatim in the health API response.
type Checker func() (details interface{}, err error)

// Result is the latest outcome of one check.
type Result struct {
	Details   interface{} `json:"details,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Health periodically re-runs the registered checks and caches the results.
type Health struct {
	log     logging.Logger
	metrics *metrics

	checksLock sync.RWMutex
	checks     map[string]Checker

	resultsLock sync.RWMutex
	results     map[string]Result

	startOnce sync.Once
	closeOnce sync.Once
	closer    chan struct{}
}

func New(log logging.Logger, registerer prometheus.Registerer) (*Health, error) {
	metrics, err := newMetrics(registerer)
	return &Health{
		log:     log,
		metrics: metrics,
		checks:  make(map[string]Checker),
		results: make(map[string]Result),
		closer:  make(chan struct{}),
	}, err
}

// RegisterCheck adds [checker] under [name]. The check reports unhealthy
// until its first run completes.
func (h *Health) RegisterCheck(name string, checker Checker) error {
	h.checksLock.Lock()
	defer h.checksLock.Unlock()

	if _, ok := h.checks[name]; ok {
		return fmt.Errorf("%w: %q", errDuplicateCheck, name)
	}
	h.checks[name] = checker

	h.resultsLock.Lock()
	defer h.resultsLock.Unlock()
	h.results[name] = Result{
		Error:     "not yet run",
		Timestamp: time.Now(),
	}
	h.metrics.failingChecks.Inc()
	return nil
}

// Start begins re-running checks every [freq] until Stop is called.
func (h *Health) Start(freq time.Duration) {
	h.startOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(freq)
			defer ticker.Stop()

			h.runChecks()
			for {
				select {
				case <-ticker.C:
					h.runChecks()
				case <-h.closer:
					return
				}
			}
		}()
	})
}

func (h *Health) Stop() {
	h.closeOnce.Do(func() {
		close(h.closer)
	})
}

// Results returns the latest result per check and whether every check is
// passing.
func (h *Health) Results() (map[string]Result, bool) {
	h.resultsLock.RLock()
	defer h.resultsLock.RUnlock()

	results := make(map[string]Result, len(h.results))
	healthy := true
	for name, result := range h.results {
		results[name] = result
		healthy = healthy && result.Error == ""
	}
	return results, healthy
}

func (h *Health) runChecks() {
	h.checksLock.RLock()
	checks := make(map[string]Checker, len(h.checks))
	for name, checker := range h.checks {
		checks[name] = checker
	}
	h.checksLock.RUnlock()

	for name, checker := range checks {
		details, err := checker()
		result := Result{
			Details:   details,
			Timestamp: time.Now(),
		}
		if err != nil {
			result.Error = err.Error()
			h.log.Warn("health check failed",
				zap.String("check", name),
				zap.Error(err),
			)
		}

		h.resultsLock.Lock()
		prev := h.results[name]
		h.results[name] = result
		h.resultsLock.Unlock()

		if (prev.Error == "") != (err == nil) {
			if err == nil {
				h.metrics.failingChecks.Dec()
			} else {
				h.metrics.failingChecks.Inc()
			}
		}
	}
}

type response struct {
	Checks  map[string]Result `json:"checks"`
	Healthy bool              `json:"healthy"`
}

// Handler serves the latest results: 200 when every check passes, 503
// otherwise.
func (h *Health) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, healthy := h.Results()

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(response{
			Checks:  checks,
			Healthy: healthy,
		})
	})
}
