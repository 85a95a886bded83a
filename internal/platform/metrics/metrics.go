// Package metrics exposes Prometheus counters for authentication outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operations recorded by RecordAuth.
const (
	OpRegister     = "register"
	OpLogin        = "login"
	OpAuthenticate = "authenticate"
)

// Outcomes recorded by RecordAuth.
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeDenied    = "denied"
	OutcomeError     = "error"
)

// authOperations counts auth endpoint calls by operation and outcome.
var authOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auth_operations_total",
	Help: "Total number of authentication operations by outcome",
}, []string{"operation", "outcome"})

// RecordAuth increments the counter for one finished operation.
func RecordAuth(operation, outcome string) {
	authOperations.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
